// Package engine converts raw bank-statement spreadsheets into classified
// uniform transaction records. The pipeline is: loader → bank detectors in
// priority order → header-guessing fallback → per-row vendor normalization,
// fingerprinting and rule classification.
package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jangbu-dev/jangbu/engine/common"
	"github.com/jangbu-dev/jangbu/engine/generic"
	"github.com/jangbu-dev/jangbu/engine/kookmin"
	"github.com/jangbu-dev/jangbu/engine/loader"
	"github.com/jangbu-dev/jangbu/engine/normalize"
	"github.com/jangbu-dev/jangbu/engine/rules"
	"github.com/jangbu-dev/jangbu/engine/woori"
)

// Result pairs a uniform record with its duplicate-suppression fingerprint
// and the rule engine's classification. The persistence collaborator consumes
// these as-is.
type Result struct {
	Record         common.Record         `json:"record"`
	Fingerprint    string                `json:"fingerprint"`
	Classification common.Classification `json:"classification"`
}

// FileResult groups the rows extracted from one file in a directory scan.
type FileResult struct {
	Source string   `json:"source"`
	Rows   []Result `json:"rows"`
}

// Unify runs the bank-specific detectors in priority order and falls back to
// header guessing when none of them recognizes the table.
func Unify(table common.Table) ([]common.Record, error) {
	if records, ok, err := woori.Extract(table); ok {
		if err != nil {
			return nil, fmt.Errorf("woori: %w", err)
		}
		log.Println("\t📄 Woori layout detected")
		return records, nil
	}
	if records, ok, err := kookmin.Extract(table); ok {
		if err != nil {
			return nil, fmt.Errorf("kookmin: %w", err)
		}
		log.Println("\t📄 Kookmin layout detected")
		return records, nil
	}
	return generic.Extract(table)
}

// unifyHint dispatches to a single named detector. A hinted file that the
// detector does not recognize is an error, not a fallthrough.
func unifyHint(table common.Table, hint string) ([]common.Record, error) {
	var (
		records []common.Record
		ok      bool
		err     error
	)
	switch strings.ToLower(hint) {
	case "woori":
		records, ok, err = woori.Extract(table)
	case "kookmin":
		records, ok, err = kookmin.Extract(table)
	default:
		return nil, fmt.Errorf("unknown bank hint %q", hint)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", strings.ToLower(hint), err)
	}
	if !ok {
		return nil, fmt.Errorf("file does not match the %s layout", strings.ToLower(hint))
	}
	return records, nil
}

// Process converts raw file bytes into classified uniform records. ruleList
// must already be sorted by priority; the engine never re-sorts it.
func Process(content []byte, filename string, ruleList []common.Rule) ([]Result, error) {
	return ProcessWithHint(content, filename, ruleList, "")
}

// ProcessWithHint is Process with an optional bank layout hint. An empty hint
// runs the normal detector chain.
func ProcessWithHint(content []byte, filename string, ruleList []common.Rule, bankHint string) ([]Result, error) {
	table, err := loader.Load(content, filename)
	if err != nil {
		return nil, err
	}

	var records []common.Record
	if bankHint != "" {
		records, err = unifyHint(table, bankHint)
	} else {
		records, err = Unify(table)
	}
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}

	results := make([]Result, 0, len(records))
	for _, record := range records {
		if record.Date.IsZero() {
			// Unparseable date drops the row, not the file.
			continue
		}
		record.Description = strings.TrimSpace(record.Description)
		if record.TxType == "" {
			record.TxType = common.TxTypeFor(record.Amount)
		}
		record.VendorNormalized = normalize.Vendor(record.Description)

		fingerprint := common.Fingerprint(record.Date, record.Amount, record.Description, record.Branch, record.Balance)
		results = append(results, Result{
			Record:         record,
			Fingerprint:    fingerprint,
			Classification: rules.Apply(record, ruleList),
		})
	}
	return results, nil
}

// OverrideBranch stamps every record with the given branch label and
// recomputes the fingerprints, since the branch participates in them. An empty
// label leaves the results untouched.
func OverrideBranch(results []Result, branch string) []Result {
	branch = strings.TrimSpace(branch)
	if branch == "" {
		return results
	}
	for i := range results {
		results[i].Record.Branch = branch
		r := results[i].Record
		results[i].Fingerprint = common.Fingerprint(r.Date, r.Amount, r.Description, r.Branch, r.Balance)
	}
	return results
}

// ProcessReader is Process for callers holding a stream.
func ProcessReader(r io.Reader, filename string, ruleList []common.Rule) ([]Result, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return Process(content, filename, ruleList)
}

// ExecuteAgainstPath processes a file or every file in a directory and prints
// the results as JSON on stdout.
func ExecuteAgainstPath(path string, ruleList []common.Rule) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		log.Println("📂 Scanning ", path)

		result := []FileResult{}
		entries, err := os.ReadDir(path)
		if err != nil {
			log.Fatal(err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			content, err := os.ReadFile(filepath.Join(path, e.Name()))
			if err != nil {
				log.Printf("\t✗ %s: %v", e.Name(), err)
				continue
			}
			rows, err := Process(content, e.Name(), ruleList)
			if err != nil {
				log.Printf("\t✗ %s: %v", e.Name(), err)
				continue
			}
			if len(rows) > 0 {
				result = append(result, FileResult{Source: e.Name(), Rows: rows})
			}
		}

		asJSON, _ := json.Marshal(result)
		fmt.Println(string(asJSON))
		return
	}

	log.Println("📄 Scanning ", path)
	content, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	rows, err := Process(content, filepath.Base(path), ruleList)
	if err != nil {
		log.Fatal(err)
	}

	asJSON, _ := json.Marshal(rows)
	fmt.Println(string(asJSON))
}
