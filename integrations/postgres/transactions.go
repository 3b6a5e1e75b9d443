package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jangbu-dev/jangbu/engine"
	"github.com/jangbu-dev/jangbu/engine/common"
)

// InsertTransaction stores one classified row. The fingerprint carries the
// deduplication: a conflicting insert is silently skipped and reported via
// the inserted flag so callers can count it.
func (db *DB) InsertTransaction(ctx context.Context, batchID string, row engine.Result) (id string, inserted bool, err error) {
	r := row.Record

	err = db.Pool.QueryRow(ctx, `
		INSERT INTO bank_transactions (
			batch_id, date, description, memo, amount, balance,
			branch, tx_type, vendor_normalized, fingerprint
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (fingerprint) DO NOTHING
		RETURNING id
	`,
		batchID, r.Date, r.Description, r.Memo, r.Amount, r.Balance,
		r.Branch, r.TxType, r.VendorNormalized, row.Fingerprint,
	).Scan(&id)

	if err != nil {
		// DO NOTHING yields no row on conflict
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to insert transaction: %w", err)
	}

	return id, true, nil
}

// UpsertTag writes the classification verdict for a transaction, replacing
// any earlier verdict.
func (db *DB) UpsertTag(ctx context.Context, transactionID string, c common.Classification) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO transaction_tags (
			transaction_id, category, category_l1, category_l2, category_l3, is_fixed
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (transaction_id) DO UPDATE SET
			category = EXCLUDED.category,
			category_l1 = EXCLUDED.category_l1,
			category_l2 = EXCLUDED.category_l2,
			category_l3 = EXCLUDED.category_l3,
			is_fixed = EXCLUDED.is_fixed,
			updated_at = NOW()
	`, transactionID, c.Category, c.CategoryL1, c.CategoryL2, c.CategoryL3, c.IsFixed)
	if err != nil {
		return fmt.Errorf("failed to upsert tag: %w", err)
	}
	return nil
}
