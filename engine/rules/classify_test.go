package rules

import (
	"testing"

	"github.com/jangbu-dev/jangbu/engine/common"
)

func record(description, memo, vendor string) common.Record {
	return common.Record{
		Description:      description,
		Memo:             memo,
		VendorNormalized: vendor,
	}
}

func TestApply_FirstMatchWins(t *testing.T) {
	ruleList := []common.Rule{
		{Keyword: "스타벅스", Target: "description", Category: "카페", IsEnabled: true},
		{Keyword: "스타벅스", Target: "description", Category: "외식", IsEnabled: true},
	}

	got := Apply(record("스타벅스 강남점", "", ""), ruleList)
	if got.Category != "카페" {
		t.Errorf("Expected category '카페', got %q", got.Category)
	}
}

func TestApply_NoMatchYieldsDefault(t *testing.T) {
	ruleList := []common.Rule{
		{Keyword: "스타벅스", Target: "description", Category: "카페", IsEnabled: true},
	}

	got := Apply(record("cu 편의점", "", ""), ruleList)
	if got.Category != common.Uncategorized {
		t.Errorf("Expected %q, got %q", common.Uncategorized, got.Category)
	}
	if got.IsFixed {
		t.Error("Expected IsFixed false on the default classification")
	}
}

func TestApply_CaseInsensitive(t *testing.T) {
	ruleList := []common.Rule{
		{Keyword: "STARBUCKS", Target: "description", Category: "카페", IsEnabled: true},
	}

	got := Apply(record("starbucks coffee", "", ""), ruleList)
	if got.Category != "카페" {
		t.Errorf("Expected case-insensitive match, got %q", got.Category)
	}
}

func TestApply_Targets(t *testing.T) {
	r := record("월급", "정기 구독", "넷플릭스")

	cases := []struct {
		name     string
		rule     common.Rule
		expected string
	}{
		{"memo", common.Rule{Keyword: "구독", Target: "memo", Category: "구독료", IsEnabled: true}, "구독료"},
		{"vendor", common.Rule{Keyword: "넷플릭스", Target: "vendor", Category: "구독료", IsEnabled: true}, "구독료"},
		{"any", common.Rule{Keyword: "월급", Target: "any", Category: "급여", IsEnabled: true}, "급여"},
		{"empty target defaults to any", common.Rule{Keyword: "넷플릭스", Category: "구독료", IsEnabled: true}, "구독료"},
		{"memo does not see description", common.Rule{Keyword: "월급", Target: "memo", Category: "급여", IsEnabled: true}, common.Uncategorized},
	}

	for _, tc := range cases {
		got := Apply(r, []common.Rule{tc.rule})
		if got.Category != tc.expected {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.expected, got.Category)
		}
	}
}

func TestApply_SkipsDisabledAndEmptyKeyword(t *testing.T) {
	ruleList := []common.Rule{
		{Keyword: "스타벅스", Target: "description", Category: "외식", IsEnabled: false},
		{Keyword: "   ", Target: "description", Category: "잡비", IsEnabled: true},
		{Keyword: "스타벅스", Target: "description", Category: "카페", IsEnabled: true},
	}

	got := Apply(record("스타벅스", "", ""), ruleList)
	if got.Category != "카페" {
		t.Errorf("Expected disabled and blank rules to be skipped, got %q", got.Category)
	}
}

func TestApply_HierarchicalCategoryFallsBackToDeepestLevel(t *testing.T) {
	ruleList := []common.Rule{
		{
			Keyword:    "스타벅스",
			Target:     "description",
			CategoryL1: "식비",
			CategoryL2: "카페/간식",
			IsEnabled:  true,
		},
	}

	got := Apply(record("스타벅스", "", ""), ruleList)
	if got.Category != "카페/간식" {
		t.Errorf("Expected deepest level '카페/간식', got %q", got.Category)
	}
	if got.CategoryL1 != "식비" || got.CategoryL2 != "카페/간식" {
		t.Errorf("Expected hierarchy to be copied, got %+v", got)
	}
}

func TestApply_FixedExpenseFlag(t *testing.T) {
	ruleList := []common.Rule{
		{Keyword: "월세", Target: "description", Category: "주거", IsFixed: true, IsEnabled: true},
	}

	got := Apply(record("1월 월세", "", ""), ruleList)
	if !got.IsFixed {
		t.Error("Expected IsFixed to carry over from the rule")
	}
}
