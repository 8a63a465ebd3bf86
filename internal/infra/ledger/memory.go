package ledger

import (
	"context"
	"sync"

	"github.com/yanqian/horoscope/internal/domain/horoscope"
)

type entryKey struct {
	date string
	sign string
}

// MemoryLedger keeps first selections in process memory for tests/dev.
type MemoryLedger struct {
	mu      sync.Mutex
	entries map[entryKey]horoscope.Selection
}

// NewMemoryLedger constructs an empty ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{entries: make(map[entryKey]horoscope.Selection)}
}

// Reconcile implements horoscope.Ledger.
func (l *MemoryLedger) Reconcile(_ context.Context, entries []horoscope.LedgerEntry) ([]horoscope.LedgerEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]horoscope.LedgerEntry, len(entries))
	for i, entry := range entries {
		key := entryKey{date: entry.DateKey, sign: entry.Sign}
		stored, ok := l.entries[key]
		if !ok {
			stored = entry.Selection
			l.entries[key] = stored
		}
		out[i] = horoscope.LedgerEntry{DateKey: entry.DateKey, Sign: entry.Sign, Selection: stored}
	}
	return out, nil
}

// Len reports how many (date, sign) pairs are recorded.
func (l *MemoryLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

var _ horoscope.Ledger = (*MemoryLedger)(nil)
