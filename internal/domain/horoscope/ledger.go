package horoscope

import "context"

// LedgerEntry is the selection drawn for one sign on one date.
type LedgerEntry struct {
	DateKey   string
	Sign      string
	Selection Selection
}

// Ledger keeps the first selection ever produced for a (date, sign) pair.
// Reconcile stores entries not seen before and returns the stored entry for
// every key in the input, in input order.
type Ledger interface {
	Reconcile(ctx context.Context, entries []LedgerEntry) ([]LedgerEntry, error)
}

func ledgerEntries(dateKey string, readings Readings) []LedgerEntry {
	entries := make([]LedgerEntry, 0, len(readings))
	for _, r := range readings {
		entries = append(entries, LedgerEntry{DateKey: dateKey, Sign: r.Sign, Selection: r.Selection})
	}
	return entries
}
