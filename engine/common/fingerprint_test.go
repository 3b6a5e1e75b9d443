package common

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFingerprint_Deterministic(t *testing.T) {
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.Local)
	amount := decimal.NewFromInt(3000000)
	balance := decimal.NewFromInt(5000000)

	first := Fingerprint(date, amount, "월급", "강남", &balance)
	second := Fingerprint(date, amount, "월급", "강남", &balance)

	assert.Equal(t, first, second, "identical input must hash identically")
	assert.Len(t, first, 64)
}

func TestFingerprint_CaseAndSpaceInsensitive(t *testing.T) {
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.Local)
	amount := decimal.NewFromInt(-4500)

	first := Fingerprint(date, amount, "STARBUCKS", "", nil)
	second := Fingerprint(date, amount, "  starbucks ", "", nil)

	assert.Equal(t, first, second, "description is lower-cased and trimmed before hashing")
}

func TestFingerprint_FieldSensitivity(t *testing.T) {
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.Local)
	amount := decimal.NewFromInt(1000)
	balance := decimal.NewFromInt(2000)
	base := Fingerprint(date, amount, "커피", "강남", &balance)

	assert.NotEqual(t, base, Fingerprint(date.AddDate(0, 0, 1), amount, "커피", "강남", &balance), "date")
	assert.NotEqual(t, base, Fingerprint(date, amount.Add(decimal.NewFromInt(1)), "커피", "강남", &balance), "amount")
	assert.NotEqual(t, base, Fingerprint(date, amount, "커피2", "강남", &balance), "description")
	assert.NotEqual(t, base, Fingerprint(date, amount, "커피", "서초", &balance), "branch")
	assert.NotEqual(t, base, Fingerprint(date, amount, "커피", "강남", nil), "balance")
}

func TestFingerprint_BalanceRoundedToInteger(t *testing.T) {
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.Local)
	amount := decimal.NewFromInt(1000)
	exact := decimal.NewFromInt(2000)
	fractional := decimal.NewFromFloat(2000.4)

	assert.Equal(t,
		Fingerprint(date, amount, "커피", "", &exact),
		Fingerprint(date, amount, "커피", "", &fractional),
		"balance is rounded to an integer before hashing")
}
