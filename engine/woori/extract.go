// Package woori detects and extracts the Woori bank transaction-history
// spreadsheet layout.
package woori

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/jangbu-dev/jangbu/engine/common"
)

// scanRows bounds the signature search; real exports carry the header within
// the first few rows of preamble.
const scanRows = 30

type config struct {
	Signature  []string
	DateCol    string
	TypeCol    string
	DescCol    string
	OutCol     string
	InCol      string
	BalanceCol string
	BranchCol  string
}

func loadConfig() config {
	return config{
		Signature:  viper.GetStringSlice("bank.WOORI.signature"),
		DateCol:    viper.GetString("bank.WOORI.columns.date"),
		TypeCol:    viper.GetString("bank.WOORI.columns.type"),
		DescCol:    viper.GetString("bank.WOORI.columns.description"),
		OutCol:     viper.GetString("bank.WOORI.columns.withdrawal"),
		InCol:      viper.GetString("bank.WOORI.columns.deposit"),
		BalanceCol: viper.GetString("bank.WOORI.columns.balance"),
		BranchCol:  viper.GetString("bank.WOORI.columns.branch"),
	}
}

// Extract scans the table for the Woori layout. ok reports whether the
// structure was recognized; a recognized table with garbage in a numeric
// column is a real error, not a fall-through to the next detector.
func Extract(table common.Table) (records []common.Record, ok bool, err error) {
	cfg := loadConfig()

	if len(cfg.Signature) == 0 || table.MaxCols() < 5 {
		return nil, false, nil
	}

	headerRow := -1
	limit := len(table)
	if limit > scanRows {
		limit = scanRows
	}
	for i := 0; i < limit; i++ {
		text := table.RowText(i)
		matched := true
		for _, sig := range cfg.Signature {
			if !strings.Contains(text, sig) {
				matched = false
				break
			}
		}
		if matched {
			headerRow = i
			break
		}
	}
	if headerRow == -1 {
		return nil, false, nil
	}

	colIdx := map[string]int{}
	for i, cell := range table[headerRow] {
		name := common.NormalizeCell(cell)
		if _, seen := colIdx[name]; !seen {
			colIdx[name] = i
		}
	}
	required := []string{cfg.DateCol, cfg.TypeCol, cfg.DescCol, cfg.OutCol, cfg.InCol, cfg.BalanceCol, cfg.BranchCol}
	for _, name := range required {
		if _, present := colIdx[name]; !present {
			return nil, false, nil
		}
	}

	cell := func(row []string, name string) string {
		idx := colIdx[name]
		if idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	for _, row := range table[headerRow+1:] {
		date, dateErr := common.ParseDate(cell(row, cfg.DateCol))
		if dateErr != nil {
			// Footer and subtotal rows carry no date; drop them.
			continue
		}

		out, err := common.CleanDecimal(cell(row, cfg.OutCol))
		if err != nil {
			return nil, true, fmt.Errorf("column %s: %w", cfg.OutCol, err)
		}
		in, err := common.CleanDecimal(cell(row, cfg.InCol))
		if err != nil {
			return nil, true, fmt.Errorf("column %s: %w", cfg.InCol, err)
		}
		balance, err := common.CleanDecimal(cell(row, cfg.BalanceCol))
		if err != nil {
			return nil, true, fmt.Errorf("column %s: %w", cfg.BalanceCol, err)
		}

		amount := in.Sub(out)
		bal := balance
		records = append(records, common.Record{
			Date:        date,
			Description: strings.TrimSpace(cell(row, cfg.DescCol)),
			Amount:      amount,
			Balance:     &bal,
			Branch:      strings.TrimSpace(cell(row, cfg.BranchCol)),
			TxType:      common.TxTypeFor(amount),
		})
	}

	return records, true, nil
}
