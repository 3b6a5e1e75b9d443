package postgres

import (
	"context"
	"fmt"
)

const ddl = `
-- Categories table
CREATE TABLE IF NOT EXISTS categories (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(255) NOT NULL,
    level1 VARCHAR(255) DEFAULT '',
    level2 VARCHAR(255) DEFAULT '',
    level3 VARCHAR(255) DEFAULT '',
    is_fixed BOOLEAN DEFAULT false,
    created_at TIMESTAMPTZ DEFAULT NOW(),
    updated_at TIMESTAMPTZ DEFAULT NOW(),

    UNIQUE(name)
);

-- Classification rules, evaluated in (priority, id) order
CREATE TABLE IF NOT EXISTS category_rules (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    category_id UUID NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
    keyword VARCHAR(255) NOT NULL,
    target VARCHAR(20) NOT NULL DEFAULT 'any',
    priority INTEGER NOT NULL DEFAULT 100,
    is_enabled BOOLEAN DEFAULT true,
    created_at TIMESTAMPTZ DEFAULT NOW()
);

-- One row per imported file
CREATE TABLE IF NOT EXISTS upload_batches (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    source VARCHAR(255) NOT NULL,
    bank VARCHAR(50) DEFAULT '',
    row_count INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ DEFAULT NOW()
);

-- Normalized transactions, deduplicated by content fingerprint
CREATE TABLE IF NOT EXISTS bank_transactions (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    batch_id UUID REFERENCES upload_batches(id) ON DELETE SET NULL,
    date DATE NOT NULL,
    description TEXT NOT NULL,
    memo TEXT DEFAULT '',
    amount NUMERIC(18,2) NOT NULL,
    balance NUMERIC(18,2),
    branch VARCHAR(255) DEFAULT '',
    tx_type VARCHAR(10) NOT NULL,
    vendor_normalized TEXT DEFAULT '',
    fingerprint CHAR(64) NOT NULL,
    created_at TIMESTAMPTZ DEFAULT NOW(),

    -- Natural key for deduplication
    UNIQUE(fingerprint)
);

-- Current classification per transaction
CREATE TABLE IF NOT EXISTS transaction_tags (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    transaction_id UUID NOT NULL REFERENCES bank_transactions(id) ON DELETE CASCADE,
    category VARCHAR(255) NOT NULL,
    category_l1 VARCHAR(255) DEFAULT '',
    category_l2 VARCHAR(255) DEFAULT '',
    category_l3 VARCHAR(255) DEFAULT '',
    is_fixed BOOLEAN DEFAULT false,
    created_at TIMESTAMPTZ DEFAULT NOW(),
    updated_at TIMESTAMPTZ DEFAULT NOW(),

    UNIQUE(transaction_id)
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_category_rules_priority ON category_rules(priority, id);
CREATE INDEX IF NOT EXISTS idx_bank_transactions_batch_id ON bank_transactions(batch_id);
CREATE INDEX IF NOT EXISTS idx_bank_transactions_date ON bank_transactions(date);
CREATE INDEX IF NOT EXISTS idx_bank_transactions_vendor ON bank_transactions(vendor_normalized) WHERE vendor_normalized != '';
CREATE INDEX IF NOT EXISTS idx_transaction_tags_category ON transaction_tags(category);

-- Default bucket for unmatched rows
INSERT INTO categories (name) VALUES ('미분류') ON CONFLICT (name) DO NOTHING;
`

// migrateDDL adds new columns to existing tables
const migrateDDL = `
-- Add memo column if not exists
DO $$ BEGIN
    IF NOT EXISTS (SELECT 1 FROM information_schema.columns
                   WHERE table_name = 'bank_transactions' AND column_name = 'memo') THEN
        ALTER TABLE bank_transactions ADD COLUMN memo TEXT DEFAULT '';
    END IF;
END $$;

-- Add vendor_normalized column if not exists
DO $$ BEGIN
    IF NOT EXISTS (SELECT 1 FROM information_schema.columns
                   WHERE table_name = 'bank_transactions' AND column_name = 'vendor_normalized') THEN
        ALTER TABLE bank_transactions ADD COLUMN vendor_normalized TEXT DEFAULT '';
    END IF;
END $$;

-- Add target column if not exists
DO $$ BEGIN
    IF NOT EXISTS (SELECT 1 FROM information_schema.columns
                   WHERE table_name = 'category_rules' AND column_name = 'target') THEN
        ALTER TABLE category_rules ADD COLUMN target VARCHAR(20) NOT NULL DEFAULT 'any';
    END IF;
END $$;
`

// EnsureSchema creates tables if they don't exist and runs migrations
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, ddl)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// Run migrations for existing tables
	_, err = db.Pool.Exec(ctx, migrateDDL)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
