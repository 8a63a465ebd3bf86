package geostore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/horoscope/internal/domain/geo"
)

// sweepInterval bounds how often Save scans for expired records.
const sweepInterval = time.Minute

type locationRecord struct {
	payload   geo.Location
	expiresAt time.Time
}

// MemoryStore is an in-memory geolocation cache for tests/dev.
type MemoryStore struct {
	mu      sync.RWMutex
	entries   map[string]locationRecord
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]locationRecord),
		now:     time.Now,
	}
}

// Get implements geo.Store.
func (s *MemoryStore) Get(_ context.Context, ip string) (geo.Location, bool, error) {
	if ip == "" {
		return geo.Location{}, false, nil
	}
	s.mu.RLock()
	record, ok := s.entries[ip]
	s.mu.RUnlock()
	if !ok {
		return geo.Location{}, false, nil
	}
	if s.hasExpired(record.expiresAt) {
		s.mu.Lock()
		delete(s.entries, ip)
		s.mu.Unlock()
		return geo.Location{}, false, nil
	}
	return record.payload, true, nil
}

// Save caches the location with optional TTL.
func (s *MemoryStore) Save(_ context.Context, ip string, loc geo.Location, ttl time.Duration) error {
	if ip == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	exp := time.Time{}
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	s.entries[ip] = locationRecord{payload: loc, expiresAt: exp}
	s.sweepLocked(now)
	return nil
}

// sweepLocked drops expired records; visitor addresses are unbounded.
func (s *MemoryStore) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) < sweepInterval {
		return
	}
	s.lastSweep = now
	for ip, record := range s.entries {
		if !record.expiresAt.IsZero() && record.expiresAt.Before(now) {
			delete(s.entries, ip)
		}
	}
}

func (s *MemoryStore) hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(s.now())
}

var _ geo.Store = (*MemoryStore)(nil)
