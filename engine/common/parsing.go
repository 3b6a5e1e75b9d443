package common

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var moneyJunkRegex = regexp.MustCompile(`[₩원,\s\x{00A0}]`)

// ParseMoney parses a locale-formatted amount string, stripping the currency
// symbol, the word 원, commas and whitespace. It never fails: empty input and
// non-numeric remainders both coerce to zero so that one malformed cell does
// not abort an otherwise-valid file.
func ParseMoney(text string) decimal.Decimal {
	s := moneyJunkRegex.ReplaceAllString(text, "")
	if s == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// CleanDecimal parses a numeric cell from a matched bank statement column.
// Thousands separators and the 원 suffix are stripped, a lone dash or an empty
// cell means zero. Anything else left over is an error: once a detector has
// claimed a table, garbage in a numeric column is a real parse failure.
func CleanDecimal(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}
	s = moneyJunkRegex.ReplaceAllString(s, "")
	return decimal.NewFromString(s)
}

// NormalizeCell trims a cell and collapses non-breaking spaces, mirroring the
// cleanup applied before any header comparison.
func NormalizeCell(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "\u00a0", " "))
}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006.01.02 15:04:05",
	"2006.01.02 15:04",
	"2006.01.02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"2006-01-02T15:04:05",
	"20060102",
}

// ParseDate parses the date formats Korean bank exports actually use. The
// caller decides what to do with rows that fail.
func ParseDate(value string) (time.Time, error) {
	s := NormalizeCell(value)
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
