// Package generic unifies tables from banks without a dedicated detector by
// guessing which row is the header and mapping columns by keyword.
package generic

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/jangbu-dev/jangbu/engine/common"
)

var (
	// ErrHeaderNotFound means no row in the scan window looked like a header.
	ErrHeaderNotFound = errors.New("header row not found")
	// ErrMissingColumn means the header lacks a date or description column.
	ErrMissingColumn = errors.New("required column missing")
	// ErrNoAmountColumn means neither deposit/withdrawal nor a generic amount
	// column could be located.
	ErrNoAmountColumn = errors.New("no amount column")
)

// scanRows bounds the header search window.
const scanRows = 80

type config struct {
	date        []*regexp.Regexp
	desc        []*regexp.Regexp
	memo        []*regexp.Regexp
	deposit     []*regexp.Regexp
	withdrawal  []*regexp.Regexp
	amount      []*regexp.Regexp
	balanceCols []string
}

func compileKeywords(key string) []*regexp.Regexp {
	var patterns []*regexp.Regexp
	for _, raw := range viper.GetStringSlice(key) {
		if re, err := regexp.Compile("(?i)" + raw); err == nil {
			patterns = append(patterns, re)
		}
	}
	return patterns
}

func loadConfig() config {
	return config{
		date:        compileKeywords("guess.keywords.date"),
		desc:        compileKeywords("guess.keywords.description"),
		memo:        compileKeywords("guess.keywords.memo"),
		deposit:     compileKeywords("guess.keywords.deposit"),
		withdrawal:  compileKeywords("guess.keywords.withdrawal"),
		amount:      compileKeywords("guess.keywords.amount"),
		balanceCols: viper.GetStringSlice("guess.balance_columns"),
	}
}

func matchAny(patterns []*regexp.Regexp, cell string) bool {
	s := common.NormalizeCell(cell)
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// Extract maps an unrecognized table into uniform records. Records whose date
// could not be parsed are returned with a zero Date; the caller decides
// whether to keep them.
func Extract(table common.Table) ([]common.Record, error) {
	cfg := loadConfig()
	table = dropEmpty(table)

	headerRow := guessHeaderRow(table, cfg)
	if headerRow == -1 {
		return nil, ErrHeaderNotFound
	}

	header := make([]string, len(table[headerRow]))
	for i, cell := range table[headerRow] {
		header[i] = common.NormalizeCell(cell)
	}

	firstMatch := func(patterns []*regexp.Regexp) int {
		for i, name := range header {
			if matchAny(patterns, name) {
				return i
			}
		}
		return -1
	}

	colDate := firstMatch(cfg.date)
	colDesc := firstMatch(cfg.desc)
	colMemo := firstMatch(cfg.memo)
	colDep := firstMatch(cfg.deposit)
	colWd := firstMatch(cfg.withdrawal)
	colAmt := firstMatch(cfg.amount)

	if colDate == -1 || colDesc == -1 {
		return nil, fmt.Errorf("%w: %v", ErrMissingColumn, header)
	}
	if colDep == -1 && colWd == -1 && colAmt == -1 {
		return nil, ErrNoAmountColumn
	}

	colBalance := -1
	for i, name := range header {
		for _, balanceName := range cfg.balanceCols {
			if name == balanceName {
				colBalance = i
				break
			}
		}
		if colBalance != -1 {
			break
		}
	}

	cell := func(row []string, idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	var records []common.Record
	for _, row := range table[headerRow+1:] {
		var amount decimal.Decimal
		if colDep != -1 || colWd != -1 {
			amount = common.ParseMoney(cell(row, colDep)).Sub(common.ParseMoney(cell(row, colWd)))
		} else {
			amount = common.ParseMoney(cell(row, colAmt))
		}

		balance := decimal.Zero
		if colBalance != -1 {
			balance = common.ParseMoney(cell(row, colBalance))
		}

		description := strings.TrimSpace(cell(row, colDesc))
		date, dateErr := common.ParseDate(cell(row, colDate))
		if dateErr != nil && description == "" {
			continue
		}
		if dateErr != nil {
			date = time.Time{}
		}

		bal := balance
		records = append(records, common.Record{
			Date:        date,
			Description: description,
			Memo:        strings.TrimSpace(cell(row, colMemo)),
			Amount:      amount,
			Balance:     &bal,
		})
	}

	return records, nil
}

// guessHeaderRow scores each row by keyword hits across the date,
// description, amount, deposit and withdrawal categories. First row scoring
// at least two wins; a later, better-scoring row is deliberately not
// preferred.
func guessHeaderRow(table common.Table, cfg config) int {
	limit := len(table)
	if limit > scanRows {
		limit = scanRows
	}
	for i := 0; i < limit; i++ {
		hits := 0
		for _, cell := range table[i] {
			if matchAny(cfg.date, cell) {
				hits++
			}
			if matchAny(cfg.desc, cell) {
				hits++
			}
			if matchAny(cfg.amount, cell) {
				hits++
			}
			if matchAny(cfg.deposit, cell) {
				hits++
			}
			if matchAny(cfg.withdrawal, cell) {
				hits++
			}
		}
		if hits >= 2 {
			return i
		}
	}
	return -1
}

// dropEmpty removes fully-empty rows and columns before header guessing.
func dropEmpty(table common.Table) common.Table {
	width := table.MaxCols()
	keepCol := make([]bool, width)
	for _, row := range table {
		for j, cell := range row {
			if strings.TrimSpace(cell) != "" {
				keepCol[j] = true
			}
		}
	}

	var out common.Table
	for _, row := range table {
		empty := true
		var cells []string
		for j := 0; j < width; j++ {
			if !keepCol[j] {
				continue
			}
			value := ""
			if j < len(row) {
				value = row[j]
			}
			if strings.TrimSpace(value) != "" {
				empty = false
			}
			cells = append(cells, value)
		}
		if !empty {
			out = append(out, cells)
		}
	}
	return out
}
