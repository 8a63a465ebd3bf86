package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/horoscope/internal/domain/horoscope"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS reading_selections (
		date_key   TEXT NOT NULL,
		sign       TEXT NOT NULL,
		lead_idx   INTEGER NOT NULL,
		health_idx INTEGER NOT NULL,
		advice_idx INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (date_key, sign)
	)
`

// PostgresLedger implements horoscope.Ledger using pgx.
type PostgresLedger struct {
	pool *pgxpool.Pool
}

// NewPostgresLedger constructs the ledger.
func NewPostgresLedger(pool *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{pool: pool}
}

// EnsureSchema creates the selections table when missing.
func (l *PostgresLedger) EnsureSchema(ctx context.Context) error {
	if _, err := l.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create reading_selections: %w", err)
	}
	return nil
}

// Reconcile implements horoscope.Ledger.
func (l *PostgresLedger) Reconcile(ctx context.Context, entries []horoscope.LedgerEntry) ([]horoscope.LedgerEntry, error) {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	out := make([]horoscope.LedgerEntry, len(entries))
	for i, entry := range entries {
		if _, err := tx.Exec(ctx, `
			INSERT INTO reading_selections (date_key, sign, lead_idx, health_idx, advice_idx)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (date_key, sign) DO NOTHING
		`, entry.DateKey, entry.Sign, entry.Selection.Lead, entry.Selection.Health, entry.Selection.Advice); err != nil {
			return nil, fmt.Errorf("insert selection %s/%s: %w", entry.DateKey, entry.Sign, err)
		}
		stored := horoscope.LedgerEntry{DateKey: entry.DateKey, Sign: entry.Sign}
		if err := tx.QueryRow(ctx, `
			SELECT lead_idx, health_idx, advice_idx
			FROM reading_selections
			WHERE date_key = $1 AND sign = $2
		`, entry.DateKey, entry.Sign).Scan(&stored.Selection.Lead, &stored.Selection.Health, &stored.Selection.Advice); err != nil {
			return nil, fmt.Errorf("load selection %s/%s: %w", entry.DateKey, entry.Sign, err)
		}
		out[i] = stored
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

var _ horoscope.Ledger = (*PostgresLedger)(nil)
