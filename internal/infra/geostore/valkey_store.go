package geostore

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/yanqian/horoscope/internal/domain/geo"
)

// ValkeyStore persists geolocation answers in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "geo"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// cachedLocation is the msgpack wire form; short keys keep entries small.
type cachedLocation struct {
	Latitude  float64 `msgpack:"lat"`
	Longitude float64 `msgpack:"lon"`
	City      string  `msgpack:"c"`
	Region    string  `msgpack:"r"`
	Country   string  `msgpack:"n"`
	TimeZone  string  `msgpack:"tz"`
}

func (s *ValkeyStore) Get(ctx context.Context, ip string) (geo.Location, bool, error) {
	if ip == "" {
		return geo.Location{}, false, nil
	}
	result := s.client.Do(ctx, s.client.B().Get().Key(s.entryKey(ip)).Build())
	payload, err := result.AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return geo.Location{}, false, nil
		}
		return geo.Location{}, false, err
	}
	loc, err := decodeLocation(payload)
	if err != nil {
		return geo.Location{}, false, err
	}
	return loc, true, nil
}

func (s *ValkeyStore) Save(ctx context.Context, ip string, loc geo.Location, ttl time.Duration) error {
	if ip == "" {
		return nil
	}
	payload, err := encodeLocation(loc)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.entryKey(ip)).Value(valkey.BinaryString(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) entryKey(ip string) string {
	return fmt.Sprintf("%s:ip:%s", s.prefix, ip)
}

func encodeLocation(loc geo.Location) ([]byte, error) {
	return msgpack.Marshal(cachedLocation{
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		City:      loc.City,
		Region:    loc.Region,
		Country:   loc.Country,
		TimeZone:  loc.TimeZone,
	})
}

func decodeLocation(payload []byte) (geo.Location, error) {
	var wire cachedLocation
	if err := msgpack.Unmarshal(payload, &wire); err != nil {
		return geo.Location{}, fmt.Errorf("decode cached location: %w", err)
	}
	return geo.Location{
		Latitude:  wire.Latitude,
		Longitude: wire.Longitude,
		City:      wire.City,
		Region:    wire.Region,
		Country:   wire.Country,
		TimeZone:  wire.TimeZone,
	}, nil
}

var _ geo.Store = (*ValkeyStore)(nil)
