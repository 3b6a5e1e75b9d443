package kookmin

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/jangbu-dev/jangbu/engine/common"
)

const testConfigYAML = `
bank:
  KOOKMIN:
    signature_date: 거래일시
    signature_parties: ["보낸분", "받는분"]
    columns:
      date: 거래일시
      description: 보낸분/받는분
      withdrawal: 출금액(원)
      deposit: 입금액(원)
      balance: 잔액(원)
`

func setupTestConfig() {
	viper.Reset()
	viper.SetConfigType("yaml")
	viper.ReadConfig(bytes.NewBufferString(testConfigYAML))
}

func testTable() common.Table {
	return common.Table{
		{"KB국민은행 입출금 거래내역"},
		{"거래일시", "보낸분/받는분", "출금액(원)", "입금액(원)", "잔액(원)"},
		{"2024-02-01 08:00:00", "(주)회사", "-", "2,500,000", "3,100,000"},
		{"2024-02-03 19:22:10", "GS25 역삼점", "12,000", "-", "3,088,000"},
		{"", "", "", "", ""},
	}
}

func TestExtract_Recognized(t *testing.T) {
	setupTestConfig()

	records, ok, err := Extract(testTable())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("Expected table to be recognized")
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	if !records[0].Amount.Equal(decimal.NewFromInt(2500000)) {
		t.Errorf("Expected amount 2500000, got '%s'", records[0].Amount.String())
	}
	if records[0].TxType != common.TxIn {
		t.Errorf("Expected IN, got %q", records[0].TxType)
	}
	if records[0].Description != "(주)회사" {
		t.Errorf("Expected description '(주)회사', got %q", records[0].Description)
	}

	if !records[1].Amount.Equal(decimal.NewFromInt(-12000)) {
		t.Errorf("Expected amount -12000, got '%s'", records[1].Amount.String())
	}
	if records[1].TxType != common.TxOut {
		t.Errorf("Expected OUT, got %q", records[1].TxType)
	}
	if records[1].Balance == nil || !records[1].Balance.Equal(decimal.NewFromInt(3088000)) {
		t.Errorf("Expected balance 3088000, got %v", records[1].Balance)
	}
}

func TestExtract_EitherPartyLabelMatches(t *testing.T) {
	setupTestConfig()

	// A header carrying only the recipient label still matches the
	// signature, but the required column name is the combined spelling.
	table := common.Table{
		{"거래일시", "받는분", "출금액(원)", "입금액(원)", "잔액(원)"},
		{"2024-02-01", "홍길동", "1,000", "-", "99,000"},
	}
	_, ok, err := Extract(table)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ok {
		t.Error("Expected no-match when the combined column spelling is absent")
	}
}

func TestExtract_NoSignature(t *testing.T) {
	setupTestConfig()

	table := common.Table{
		{"날짜", "내용", "입금", "출금", "잔액"},
		{"2024-01-05", "월급", "3000000", "", "5000000"},
	}
	_, ok, err := Extract(table)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ok {
		t.Error("Expected no-match for a foreign layout")
	}
}

func TestExtract_GarbageBalanceIsTerminal(t *testing.T) {
	setupTestConfig()

	table := testTable()
	table[2][4] = "잔액없음"
	_, ok, err := Extract(table)
	if !ok {
		t.Fatal("Expected table to be recognized")
	}
	if err == nil {
		t.Error("Expected error for unparseable numeric cell in a recognized table")
	}
}
