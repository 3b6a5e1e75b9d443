// Package loader turns raw uploaded bytes into a header-less text table.
// The file extension is a hint, not a guarantee: decoders are tried in order
// of expected reliability for the claimed extension and the chain falls
// through to alternates until one of them parses.
package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"github.com/jangbu-dev/jangbu/engine/common"
)

type decoder struct {
	name   string
	decode func(content []byte) (common.Table, error)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load decodes content into a raw table. Every cell is read as text so that
// values like "0012" survive untouched. If every decoder in the chain fails,
// the returned error aggregates all per-decoder causes.
func Load(content []byte, filename string) (common.Table, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var chain []decoder
	switch ext {
	case ".xlsx", ".xlsm", ".xltx", ".xltm", "":
		chain = append(chain, decoder{"excelize", decodeXLSX})
	case ".xls":
		chain = append(chain, decoder{"xls", decodeXLS})
	case ".csv":
		chain = append(chain, csvDecoders()...)
	}
	chain = append(chain, decoder{"excelize", decodeXLSX})
	chain = append(chain, csvDecoders()...)
	chain = append(chain, decoder{"xlsx2csv", decodeConvertedCSV})
	chain = append(chain, decoder{"csv-final", decodeRaw})

	var errs []string
	tried := map[string]bool{}
	for _, d := range chain {
		if tried[d.name] {
			continue
		}
		tried[d.name] = true

		table, err := d.decode(content)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", d.name, err))
			continue
		}
		return table, nil
	}

	return nil, fmt.Errorf("spreadsheet parsing failed: %s", strings.Join(errs, " | "))
}

// LoadReader is a convenience wrapper for callers holding a stream.
func LoadReader(r io.Reader, filename string) (common.Table, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return Load(content, filename)
}

func csvDecoders() []decoder {
	return []decoder{
		{"csv(utf-8-sig)", decodeCSVUTF8},
		{"csv(cp949)", decodeCSVEUCKR},
		{"csv(euc-kr)", decodeCSVEUCKR},
	}
}

func decodeXLSX(content []byte) (common.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("first sheet is empty")
	}
	return common.Table(rows), nil
}

// decodeXLS reads the legacy binary workbook format. The xls reader needs a
// file on disk, so the bytes go through a scoped temp file that is removed
// before returning.
func decodeXLS(content []byte) (common.Table, error) {
	tmp, err := os.CreateTemp("", "jangbu-*.xls")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	tmp.Close()

	workbook, err := xls.OpenFile(tmp.Name())
	if err != nil {
		return nil, err
	}

	sheet, err := workbook.GetSheet(0)
	if err != nil || sheet == nil {
		return nil, errors.New("no readable sheet in workbook")
	}

	var table common.Table
	for i := 0; i <= int(sheet.GetNumberRows()); i++ {
		row, err := sheet.GetRow(i)
		if err != nil || row == nil {
			continue
		}
		var cells []string
		for _, col := range row.GetCols() {
			if col != nil {
				cells = append(cells, col.GetString())
			} else {
				cells = append(cells, "")
			}
		}
		table = append(table, cells)
	}
	if len(table) == 0 {
		return nil, errors.New("workbook has no rows")
	}
	return table, nil
}

func decodeCSVUTF8(content []byte) (common.Table, error) {
	text := bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(text) {
		return nil, errors.New("content is not valid UTF-8")
	}
	return parseCSV(string(text), false)
}

func decodeCSVEUCKR(content []byte) (common.Table, error) {
	decoded, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), content)
	if err != nil {
		return nil, err
	}
	return parseCSV(string(decoded), false)
}

// decodeConvertedCSV is the conversion-based fallback: the spreadsheet
// container is rewritten as delimited text and re-parsed tolerantly, so a
// handful of malformed lines does not fail the whole file.
func decodeConvertedCSV(content []byte) (common.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		for _, row := range rows {
			if len(row) == 0 {
				continue
			}
			if err := writer.Write(row); err != nil {
				return nil, err
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return parseCSV(buffer.String(), true)
}

// decodeRaw is the last resort: decode whatever bytes we have as UTF-8,
// dropping invalid sequences, and hope it is delimited text.
func decodeRaw(content []byte) (common.Table, error) {
	text := bytes.ToValidUTF8(bytes.TrimPrefix(content, utf8BOM), nil)
	return parseCSV(string(text), false)
}

func parseCSV(text string, skipBadLines bool) (common.Table, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var table common.Table
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if skipBadLines {
				continue
			}
			return nil, err
		}
		table = append(table, record)
	}
	if len(table) == 0 {
		return nil, errors.New("no rows decoded")
	}
	return table, nil
}
