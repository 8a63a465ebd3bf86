package ledger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/horoscope/internal/domain/horoscope"
)

func entries(date string, lead int) []horoscope.LedgerEntry {
	return []horoscope.LedgerEntry{
		{DateKey: date, Sign: "মেষ", Selection: horoscope.Selection{Lead: lead, Health: 1, Advice: 2}},
		{DateKey: date, Sign: "বৃষ", Selection: horoscope.Selection{Lead: 4, Health: 0, Advice: 3}},
	}
}

// exerciseFirstWriteWins runs the shared contract against any backend.
func exerciseFirstWriteWins(t *testing.T, l horoscope.Ledger) {
	t.Helper()
	ctx := context.Background()

	first, err := l.Reconcile(ctx, entries("2025-10-16", 0))
	require.NoError(t, err)
	require.Equal(t, entries("2025-10-16", 0), first)

	// a diverging later run gets the original selection back
	second, err := l.Reconcile(ctx, entries("2025-10-16", 3))
	require.NoError(t, err)
	require.Equal(t, entries("2025-10-16", 0), second)

	other, err := l.Reconcile(ctx, entries("2025-10-17", 3))
	require.NoError(t, err)
	require.Equal(t, entries("2025-10-17", 3), other)

	empty, err := l.Reconcile(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestMemoryLedgerFirstWriteWins(t *testing.T) {
	l := NewMemoryLedger()
	exerciseFirstWriteWins(t, l)
	require.Equal(t, 4, l.Len())
}

func TestSQLiteLedgerFirstWriteWins(t *testing.T) {
	l, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	exerciseFirstWriteWins(t, l)
}

func TestSQLiteLedgerPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")
	ctx := context.Background()

	l, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	_, err = l.Reconcile(ctx, entries("2025-10-16", 2))
	require.NoError(t, err)
	require.NoError(t, l.Close())

	reopened, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })
	stored, err := reopened.Reconcile(ctx, entries("2025-10-16", 0))
	require.NoError(t, err)
	require.Equal(t, 2, stored[0].Selection.Lead)
}

func TestOpenSQLiteRejectsEmptyPath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), " ")
	require.Error(t, err)
}
