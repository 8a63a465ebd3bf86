package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/yanqian/horoscope/internal/domain/horoscope"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS reading_selections (
		date_key   TEXT NOT NULL,
		sign       TEXT NOT NULL,
		lead_idx   INTEGER NOT NULL,
		health_idx INTEGER NOT NULL,
		advice_idx INTEGER NOT NULL,
		created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now')),
		PRIMARY KEY (date_key, sign)
	)
`

// SQLiteLedger implements horoscope.Ledger on a local SQLite file.
type SQLiteLedger struct {
	db *sql.DB
}

// OpenSQLite opens (and creates when needed) the ledger database at path.
// ":memory:" keeps everything in a single in-process connection.
func OpenSQLite(ctx context.Context, path string) (*SQLiteLedger, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite ledger: empty path")
	}
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create ledger directory: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite ledger: %w", err)
	}
	// one writer avoids SQLITE_BUSY and keeps an in-memory database alive
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite ledger: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create reading_selections: %w", err)
	}
	return &SQLiteLedger{db: db}, nil
}

// Close releases the database handle.
func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}

// Reconcile implements horoscope.Ledger.
func (l *SQLiteLedger) Reconcile(ctx context.Context, entries []horoscope.LedgerEntry) ([]horoscope.LedgerEntry, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	out := make([]horoscope.LedgerEntry, len(entries))
	for i, entry := range entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO reading_selections (date_key, sign, lead_idx, health_idx, advice_idx)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (date_key, sign) DO NOTHING
		`, entry.DateKey, entry.Sign, entry.Selection.Lead, entry.Selection.Health, entry.Selection.Advice); err != nil {
			return nil, fmt.Errorf("insert selection %s/%s: %w", entry.DateKey, entry.Sign, err)
		}
		stored := horoscope.LedgerEntry{DateKey: entry.DateKey, Sign: entry.Sign}
		if err := tx.QueryRowContext(ctx, `
			SELECT lead_idx, health_idx, advice_idx
			FROM reading_selections
			WHERE date_key = ? AND sign = ?
		`, entry.DateKey, entry.Sign).Scan(&stored.Selection.Lead, &stored.Selection.Health, &stored.Selection.Advice); err != nil {
			return nil, fmt.Errorf("load selection %s/%s: %w", entry.DateKey, entry.Sign, err)
		}
		out[i] = stored
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

var _ horoscope.Ledger = (*SQLiteLedger)(nil)
