// Package kookmin detects and extracts the KB Kookmin bank transaction-history
// spreadsheet layout.
package kookmin

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/jangbu-dev/jangbu/engine/common"
)

const scanRows = 30

type config struct {
	SignatureDate    string
	SignatureParties []string
	DateCol          string
	DescCol          string
	OutCol           string
	InCol            string
	BalanceCol       string
}

func loadConfig() config {
	return config{
		SignatureDate:    viper.GetString("bank.KOOKMIN.signature_date"),
		SignatureParties: viper.GetStringSlice("bank.KOOKMIN.signature_parties"),
		DateCol:          viper.GetString("bank.KOOKMIN.columns.date"),
		DescCol:          viper.GetString("bank.KOOKMIN.columns.description"),
		OutCol:           viper.GetString("bank.KOOKMIN.columns.withdrawal"),
		InCol:            viper.GetString("bank.KOOKMIN.columns.deposit"),
		BalanceCol:       viper.GetString("bank.KOOKMIN.columns.balance"),
	}
}

// Extract scans the table for the KB layout: a header carrying the date-time
// label plus either the sender or the recipient label. ok is false when the
// structure is not recognized; err is reserved for bad data inside a
// recognized table.
func Extract(table common.Table) (records []common.Record, ok bool, err error) {
	cfg := loadConfig()

	if cfg.SignatureDate == "" || table.MaxCols() < 5 {
		return nil, false, nil
	}

	headerRow := -1
	limit := len(table)
	if limit > scanRows {
		limit = scanRows
	}
	for i := 0; i < limit; i++ {
		text := table.RowText(i)
		if !strings.Contains(text, cfg.SignatureDate) {
			continue
		}
		for _, party := range cfg.SignatureParties {
			if strings.Contains(text, party) {
				headerRow = i
				break
			}
		}
		if headerRow != -1 {
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
	for _, name := range []string{cfg.DateCol, cfg.DescCol, cfg.OutCol, cfg.InCol, cfg.BalanceCol} {
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
			TxType:      common.TxTypeFor(amount),
		})
	}

	return records, true, nil
}
