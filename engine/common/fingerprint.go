package common

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Fingerprint derives the duplicate-suppression key for a transaction. The
// same source row always hashes identically so re-uploads are idempotent;
// the persistence layer treats the digest as a uniqueness key.
//
// Canonical form: date|amount(2dp)|description(lower,trim)|branch(lower,trim)|
// balance rounded to an integer, or empty when absent.
func Fingerprint(date time.Time, amount decimal.Decimal, description, branch string, balance *decimal.Decimal) string {
	d := strings.ToLower(strings.TrimSpace(description))
	b := strings.ToLower(strings.TrimSpace(branch))
	bal := ""
	if balance != nil {
		bal = balance.Round(0).StringFixed(0)
	}
	raw := fmt.Sprintf("%s|%s|%s|%s|%s",
		date.Format("2006-01-02"), amount.StringFixed(2), d, b, bal)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
