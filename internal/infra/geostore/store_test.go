package geostore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/horoscope/internal/domain/geo"
)

func TestMemoryStoreRoundTripAndExpiry(t *testing.T) {
	store := NewMemoryStore()
	current := time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }
	ctx := context.Background()
	loc := geo.Location{City: "Kolkata", TimeZone: "Asia/Kolkata", Latitude: 22.57}

	_, ok, err := store.Get(ctx, "203.0.113.9")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Save(ctx, "203.0.113.9", loc, time.Minute))
	got, ok, err := store.Get(ctx, "203.0.113.9")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, loc, got)

	current = current.Add(2 * time.Minute)
	_, ok, err = store.Get(ctx, "203.0.113.9")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreWithoutTTLKeepsEntry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "198.51.100.4", geo.Location{City: "Pune"}, 0))
	store.now = func() time.Time { return time.Now().Add(24 * 365 * time.Hour) }

	got, ok, err := store.Get(ctx, "198.51.100.4")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Pune", got.City)
}

func TestMemoryStoreSaveSweepsExpiredEntries(t *testing.T) {
	store := NewMemoryStore()
	current := time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }
	ctx := context.Background()

	for i := 0; i < 10000; i++ {
		ip := fmt.Sprintf("10.%d.%d.%d", i>>16&0xff, i>>8&0xff, i&0xff)
		require.NoError(t, store.Save(ctx, ip, geo.Location{City: "Pune"}, time.Minute))
	}
	require.NoError(t, store.Save(ctx, "198.51.100.4", geo.Location{City: "Goa"}, 0))
	require.Len(t, store.entries, 10001)

	current = current.Add(24 * time.Hour)
	require.NoError(t, store.Save(ctx, "203.0.113.9", geo.Location{City: "Dhaka"}, time.Minute))
	require.Len(t, store.entries, 2)
	require.Contains(t, store.entries, "198.51.100.4")
	require.Contains(t, store.entries, "203.0.113.9")
}

func TestMemoryStoreIgnoresEmptyIP(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), "", geo.Location{City: "x"}, 0))
	require.Empty(t, store.entries)
}

func TestLocationCodec(t *testing.T) {
	loc := geo.Location{
		Latitude: 28.6139, Longitude: 77.2090,
		City: "New Delhi", Region: "Delhi", Country: "India", TimeZone: "Asia/Kolkata",
	}
	payload, err := encodeLocation(loc)
	require.NoError(t, err)

	got, err := decodeLocation(payload)
	require.NoError(t, err)
	require.Equal(t, loc, got)

	_, err = decodeLocation([]byte{0xc1})
	require.Error(t, err)
}

func TestValkeyEntryKey(t *testing.T) {
	require.Equal(t, "geo:ip:203.0.113.9", NewValkeyStore(nil, "").entryKey("203.0.113.9"))
	require.Equal(t, "hz:ip:::1", NewValkeyStore(nil, "hz").entryKey("::1"))
}
