package common

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Uncategorized is the category assigned when no rule matches.
const Uncategorized = "미분류"

// Transaction direction values. Zero amounts fall to TxOut.
const (
	TxIn  = "IN"
	TxOut = "OUT"
)

// Table is a raw, header-less grid of cell text as produced by the loader.
// Cells are always text; "0012" stays "0012".
type Table [][]string

// RowText returns the concatenation of every cell in row i, used by the
// bank detectors to probe for header signatures.
func (t Table) RowText(i int) string {
	if i < 0 || i >= len(t) {
		return ""
	}
	return strings.Join(t[i], "")
}

// MaxCols returns the widest row in the table.
func (t Table) MaxCols() int {
	max := 0
	for _, row := range t {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}

// Record is the uniform transaction shape every source format converges to.
type Record struct {
	Date             time.Time        `json:"date"`
	Description      string           `json:"description"`
	Memo             string           `json:"memo,omitempty"`
	Amount           decimal.Decimal  `json:"amount"`
	Balance          *decimal.Decimal `json:"balance,omitempty"`
	Branch           string           `json:"branch,omitempty"`
	TxType           string           `json:"tx_type"`
	VendorNormalized string           `json:"vendor_normalized"`
}

// TxTypeFor derives the transaction direction from the amount sign.
func TxTypeFor(amount decimal.Decimal) string {
	if amount.IsPositive() {
		return TxIn
	}
	return TxOut
}

// Rule is a single classification rule. Callers supply rules already sorted
// by priority; the engine never re-sorts.
type Rule struct {
	Keyword    string `json:"keyword"`
	Target     string `json:"target"` // description | memo | vendor | any
	Priority   int    `json:"priority"`
	Category   string `json:"category,omitempty"`
	CategoryL1 string `json:"category_l1,omitempty"`
	CategoryL2 string `json:"category_l2,omitempty"`
	CategoryL3 string `json:"category_l3,omitempty"`
	IsFixed    bool   `json:"is_fixed"`
	IsEnabled  bool   `json:"is_enabled"`
}

// Classification is the rule engine's verdict for one record.
type Classification struct {
	Category   string `json:"category"`
	CategoryL1 string `json:"category_l1,omitempty"`
	CategoryL2 string `json:"category_l2,omitempty"`
	CategoryL3 string `json:"category_l3,omitempty"`
	IsFixed    bool   `json:"is_fixed"`
}

// DefaultClassification is what an unmatched record receives.
func DefaultClassification() Classification {
	return Classification{Category: Uncategorized}
}
