package postgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jangbu-dev/jangbu/engine"
	"github.com/jangbu-dev/jangbu/engine/common"
)

// ImportResult tracks the outcome of an import operation
type ImportResult struct {
	Inserted int
	Skipped  int
	Failed   int
	Errors   []string
}

// ImportOptions configures the import behavior
type ImportOptions struct {
	BankHint string // Force a bank layout (woori, kookmin); empty auto-detects
	Branch   string // Branch label applied to every row before fingerprinting
	Verbose  bool   // Enable verbose logging
}

// spreadsheet extensions the importer picks up from a directory
var importExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xls":  true,
	".csv":  true,
}

// ImportFile processes a single statement file and stores its rows.
// Returns: inserted count, skipped count, failed count, error messages
func (db *DB) ImportFile(ctx context.Context, filePath string, ruleList []common.Rule, opts ImportOptions) (inserted int, skipped int, failed int, errors []string) {
	fileName := filepath.Base(filePath)

	content, err := os.ReadFile(filePath)
	if err != nil {
		return 0, 0, 1, []string{fmt.Sprintf("%s: failed to read file: %v", fileName, err)}
	}

	results, err := engine.ProcessWithHint(content, fileName, ruleList, opts.BankHint)
	if err != nil {
		return 0, 0, 1, []string{fmt.Sprintf("%s: %v", fileName, err)}
	}
	results = engine.OverrideBranch(results, opts.Branch)

	if len(results) == 0 {
		return 0, 0, 1, []string{fmt.Sprintf("%s: no transactions extracted", fileName)}
	}

	batchID, err := db.CreateBatch(ctx, fileName, strings.ToLower(opts.BankHint), len(results))
	if err != nil {
		return 0, 0, 1, []string{fmt.Sprintf("%s: batch error: %v", fileName, err)}
	}

	for _, row := range results {
		id, ok, err := db.InsertTransaction(ctx, batchID, row)
		if err != nil {
			failed++
			errors = append(errors, fmt.Sprintf("%s: insert error: %v", fileName, err))
			continue
		}
		if !ok {
			// Fingerprint already present, row was imported before
			skipped++
			continue
		}

		if err := db.UpsertTag(ctx, id, row.Classification); err != nil {
			failed++
			errors = append(errors, fmt.Sprintf("%s: tag error: %v", fileName, err))
			continue
		}
		inserted++
	}

	if opts.Verbose {
		log.Printf("OK   %s (%d inserted, %d skipped)", fileName, inserted, skipped)
	}

	return inserted, skipped, failed, errors
}

// ImportDirectory processes all spreadsheet files in a directory
func (db *DB) ImportDirectory(ctx context.Context, dirPath string, ruleList []common.Rule, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var dataFiles []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if importExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			dataFiles = append(dataFiles, filepath.Join(dirPath, e.Name()))
		}
	}

	log.Printf("Scanning: %s", dirPath)
	log.Printf("Found %d statement files\n", len(dataFiles))

	for _, filePath := range dataFiles {
		inserted, skipped, failed, errors := db.ImportFile(ctx, filePath, ruleList, opts)

		result.Inserted += inserted
		result.Skipped += skipped
		result.Failed += failed
		result.Errors = append(result.Errors, errors...)

		// Log failures if verbose
		if opts.Verbose && failed > 0 {
			for _, errMsg := range errors {
				log.Printf("FAIL %s", errMsg)
			}
		}
	}

	return result, nil
}

// Import handles both file and directory imports. Classification rules are
// loaded once and shared across every file in the run.
func (db *DB) Import(ctx context.Context, path string, opts ImportOptions) (*ImportResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	ruleList, err := db.LoadRules(ctx)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		return db.ImportDirectory(ctx, path, ruleList, opts)
	}

	// Single file
	result := &ImportResult{}
	inserted, skipped, failed, errors := db.ImportFile(ctx, path, ruleList, opts)

	result.Inserted = inserted
	result.Skipped = skipped
	result.Failed = failed
	result.Errors = errors

	return result, nil
}
