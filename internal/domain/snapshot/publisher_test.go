package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/horoscope/internal/domain/horoscope"
)

func TestPublishWritesDatedAndLatestKeys(t *testing.T) {
	svc := &stubService{}
	store := newStubStorage()
	pub := NewPublisher(Config{
		Prefix: "/snapshots/",
		Locations: []horoscope.Location{
			{City: "New Delhi", TimeZone: "Asia/Kolkata"},
			{City: "Dhaka", TimeZone: "Asia/Dhaka"},
		},
	}, svc, store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	objects, err := pub.Publish(context.Background(), "2025-10-16")
	require.NoError(t, err)
	require.Len(t, objects, 4)
	require.Equal(t, "snapshots/2025-10-16/asia-kolkata.json", objects[0].Key)
	require.Equal(t, "snapshots/latest/asia-kolkata.json", objects[1].Key)
	require.Equal(t, "snapshots/2025-10-16/asia-dhaka.json", objects[2].Key)
	require.Equal(t, []string{"2025-10-16", "2025-10-16"}, svc.dates)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(store.blobs["snapshots/latest/asia-dhaka.json"], &decoded))
	require.Equal(t, "16/10/2025", decoded["date"])
}

func TestRunUsesFallbackWhenNoLocations(t *testing.T) {
	svc := &stubService{}
	store := newStubStorage()
	pub := NewPublisher(Config{}, svc, store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.Equal(t, "daily-snapshot", pub.Name())
	require.NoError(t, pub.Run(context.Background()))
	require.Equal(t, []horoscope.Location{{}}, svc.locations)
	require.Contains(t, store.blobs, "latest/utc.json")
}

func TestPublishContinuesAfterFailure(t *testing.T) {
	var logs bytes.Buffer
	svc := &stubService{failZone: "Bad/Zone"}
	store := newStubStorage()
	pub := NewPublisher(Config{Locations: []horoscope.Location{
		{TimeZone: "Bad/Zone"},
		{TimeZone: "Asia/Kolkata"},
	}}, svc, store, slog.New(slog.NewTextHandler(&logs, nil)))

	objects, err := pub.Publish(context.Background(), "")
	require.Error(t, err)
	require.Len(t, objects, 2)
	require.Contains(t, logs.String(), "snapshot publish failed")
}

func TestZoneSlugAndObjectKey(t *testing.T) {
	require.Equal(t, "america-argentina-buenos-aires", zoneSlug("America/Argentina/Buenos_Aires"))
	require.Equal(t, "etc-gmt-5", zoneSlug("Etc/GMT+5"))
	require.Equal(t, "utc", zoneSlug(""))
	require.Equal(t, "a/b/c.json", ObjectKey("", "/a/", "b", " ", "c.json"))
}

type stubService struct {
	failZone  string
	dates     []string
	locations []horoscope.Location
}

func (s *stubService) Daily(context.Context, horoscope.Request) (horoscope.Response, error) {
	return horoscope.Response{}, errors.New("not used")
}

func (s *stubService) Generate(horoscope.Input) (horoscope.Response, error) {
	return horoscope.Response{}, errors.New("not used")
}

func (s *stubService) ForLocation(_ context.Context, loc horoscope.Location, date string) (horoscope.Response, error) {
	s.dates = append(s.dates, date)
	s.locations = append(s.locations, loc)
	if loc.TimeZone == s.failZone && s.failZone != "" {
		return horoscope.Response{}, errors.New("unknown zone")
	}
	if loc.TimeZone == "" {
		loc.TimeZone = "UTC"
	}
	return horoscope.Response{Date: "16/10/2025", Location: loc, Meta: horoscope.Meta{RequestID: "req-1"}}, nil
}

type stubStorage struct {
	blobs map[string][]byte
}

func newStubStorage() *stubStorage {
	return &stubStorage{blobs: map[string][]byte{}}
}

func (s *stubStorage) Put(_ context.Context, key string, data []byte, contentType string) (StoredObject, error) {
	s.blobs[key] = data
	return StoredObject{Key: key, Size: int64(len(data)), ContentType: contentType}, nil
}

func (s *stubStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.blobs[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
