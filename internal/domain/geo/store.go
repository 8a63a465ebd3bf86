package geo

import (
	"context"
	"time"
)

// Provider performs the network lookup for an address.
type Provider interface {
	Lookup(ctx context.Context, ip string) (Location, error)
}

// Store caches provider answers per address.
type Store interface {
	Get(ctx context.Context, ip string) (Location, bool, error)
	Save(ctx context.Context, ip string, loc Location, ttl time.Duration) error
}
