package postgres

import (
	"context"
	"fmt"
	"time"
)

// Batch is one imported file.
type Batch struct {
	ID        string
	Source    string
	Bank      string
	RowCount  int
	CreatedAt time.Time
}

// CreateBatch records an import of one file and returns the batch id
func (db *DB) CreateBatch(ctx context.Context, source, bank string, rowCount int) (string, error) {
	var id string
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO upload_batches (source, bank, row_count)
		VALUES ($1, $2, $3)
		RETURNING id
	`, source, bank, rowCount).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create batch: %w", err)
	}
	return id, nil
}

// ListBatches returns batches newest first
func (db *DB) ListBatches(ctx context.Context) ([]Batch, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, source, bank, row_count, created_at
		FROM upload_batches
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	defer rows.Close()

	var batches []Batch
	for rows.Next() {
		var b Batch
		if err := rows.Scan(&b.ID, &b.Source, &b.Bank, &b.RowCount, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batches: %w", err)
	}

	return batches, nil
}

// DeleteBatch removes a batch record. Transactions keep their rows with a
// NULL batch_id, since the fingerprint is the source of truth.
func (db *DB) DeleteBatch(ctx context.Context, batchID string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM upload_batches WHERE id = $1`, batchID)
	if err != nil {
		return fmt.Errorf("failed to delete batch: %w", err)
	}
	return nil
}
