package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema holds the embedded DDL applied at startup. Statements are idempotent
// so repeated startups are safe.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS bills (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		logo_path TEXT,
		payment_url TEXT,
		notes TEXT,
		due_day INTEGER CHECK (due_day BETWEEN 1 AND 31),
		recurrence TEXT CHECK (recurrence IN ('monthly', 'quarterly', 'yearly')),
		next_due_date DATE,
		is_archived BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id UUID PRIMARY KEY,
		bill_id UUID NOT NULL REFERENCES bills (id) ON DELETE CASCADE,
		amount NUMERIC(12,2) NOT NULL,
		payment_date DATE NOT NULL,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS tags (
		id UUID PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		color TEXT NOT NULL DEFAULT '#3B82F6',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS bill_tags (
		bill_id UUID NOT NULL REFERENCES bills (id) ON DELETE CASCADE,
		tag_id UUID NOT NULL REFERENCES tags (id) ON DELETE CASCADE,
		PRIMARY KEY (bill_id, tag_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bills_archived ON bills (is_archived)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_bill_id ON payments (bill_id)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_date ON payments (payment_date)`,
}

// Migrate applies the embedded schema
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
