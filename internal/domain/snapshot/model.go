package snapshot

import (
	"context"
	"io"

	"github.com/yanqian/horoscope/internal/domain/horoscope"
)

// StoredObject describes an uploaded snapshot.
type StoredObject struct {
	Key         string
	Size        int64
	ContentType string
	ETag        string
}

// ObjectStorage abstracts the bucket snapshots are written to.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (StoredObject, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// Config controls what gets published.
type Config struct {
	// Prefix is prepended to every object key.
	Prefix string
	// Locations are rendered on every run; empty falls back to the horoscope fallback location.
	Locations []horoscope.Location
}
