// Package rules assigns categories to uniform records by keyword matching.
package rules

import (
	"strings"

	"github.com/jangbu-dev/jangbu/engine/common"
)

// Apply walks the rule list in the given order and returns the verdict of the
// first rule that matches. Callers supply rules already sorted by priority;
// disabled rules and rules without a keyword are skipped. No match yields the
// default classification.
func Apply(record common.Record, ruleList []common.Rule) common.Classification {
	desc := strings.ToLower(record.Description)
	memo := strings.ToLower(record.Memo)
	vendor := strings.ToLower(record.VendorNormalized)

	for _, r := range ruleList {
		if !r.IsEnabled {
			continue
		}
		keyword := strings.ToLower(strings.TrimSpace(r.Keyword))
		if keyword == "" {
			continue
		}

		target := strings.ToLower(r.Target)
		if target == "" {
			target = "any"
		}

		hit := false
		switch target {
		case "description":
			hit = strings.Contains(desc, keyword)
		case "memo":
			hit = strings.Contains(memo, keyword)
		case "vendor":
			hit = strings.Contains(vendor, keyword)
		case "any":
			hit = strings.Contains(desc, keyword) ||
				strings.Contains(memo, keyword) ||
				strings.Contains(vendor, keyword)
		}
		if !hit {
			continue
		}

		category := r.Category
		if category == "" {
			// Deepest hierarchical level stands in for a flat category.
			switch {
			case r.CategoryL3 != "":
				category = r.CategoryL3
			case r.CategoryL2 != "":
				category = r.CategoryL2
			case r.CategoryL1 != "":
				category = r.CategoryL1
			default:
				category = common.Uncategorized
			}
		}

		return common.Classification{
			Category:   category,
			CategoryL1: r.CategoryL1,
			CategoryL2: r.CategoryL2,
			CategoryL3: r.CategoryL3,
			IsFixed:    r.IsFixed,
		}
	}

	return common.DefaultClassification()
}
