package bootstrap

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/horoscope/internal/domain/geo"
	"github.com/yanqian/horoscope/internal/domain/horoscope"
	"github.com/yanqian/horoscope/internal/domain/snapshot"
	"github.com/yanqian/horoscope/internal/infra/config"
	"github.com/yanqian/horoscope/internal/infra/geostore"
	"github.com/yanqian/horoscope/internal/infra/ledger"
	snapshotstore "github.com/yanqian/horoscope/internal/infra/snapshot"
)

// HoroscopeConfig maps the file config onto the domain config.
func HoroscopeConfig(cfg *config.Config) horoscope.Config {
	return horoscope.Config{
		Method:   cfg.Horoscope.Method,
		Fallback: HoroscopeLocation(cfg.Geo.Fallback),
	}
}

// HoroscopeLocation converts a configured place.
func HoroscopeLocation(loc config.LocationConfig) horoscope.Location {
	return horoscope.Location{
		City:     loc.City,
		Region:   loc.Region,
		Country:  loc.Country,
		Lat:      loc.Latitude,
		Lon:      loc.Longitude,
		TimeZone: loc.TimeZone,
	}
}

// GeoConfig maps the file config onto the locator config.
func GeoConfig(cfg *config.Config) geo.Config {
	fb := cfg.Geo.Fallback
	return geo.Config{
		Fallback: geo.Location{
			Latitude:  fb.Latitude,
			Longitude: fb.Longitude,
			City:      fb.City,
			Region:    fb.Region,
			Country:   fb.Country,
			TimeZone:  fb.TimeZone,
		},
		DefaultIP: cfg.Geo.DefaultIP,
		CacheTTL:  cfg.Geo.CacheTTL,
	}
}

// SnapshotConfig maps the file config onto the publisher config.
func SnapshotConfig(cfg *config.Config) snapshot.Config {
	locations := make([]horoscope.Location, 0, len(cfg.Snapshot.Locations))
	for _, loc := range cfg.Snapshot.Locations {
		locations = append(locations, HoroscopeLocation(loc))
	}
	if len(locations) == 0 {
		locations = append(locations, HoroscopeLocation(cfg.Geo.Fallback))
	}
	return snapshot.Config{Prefix: cfg.Snapshot.Prefix, Locations: locations}
}

// OpenLedger builds the configured reading ledger. A nil ledger disables
// drift detection; unreachable databases degrade to the memory ledger.
func OpenLedger(ctx context.Context, cfg *config.Config, logger *slog.Logger) (horoscope.Ledger, func(), error) {
	noop := func() {}
	switch strings.ToLower(strings.TrimSpace(cfg.Ledger.Driver)) {
	case "none":
		logger.Info("reading ledger disabled")
		return nil, noop, nil
	case "postgres":
		pool, err := openPostgres(ctx, cfg.Ledger.Postgres, logger)
		if err != nil {
			logger.Error("postgres ledger unavailable, using memory ledger", "error", err)
			return ledger.NewMemoryLedger(), noop, nil
		}
		l := ledger.NewPostgresLedger(pool)
		if err := l.EnsureSchema(ctx); err != nil {
			pool.Close()
			logger.Error("postgres ledger schema failed, using memory ledger", "error", err)
			return ledger.NewMemoryLedger(), noop, nil
		}
		logger.Info("postgres reading ledger enabled")
		return l, pool.Close, nil
	case "sqlite":
		l, err := ledger.OpenSQLite(ctx, cfg.Ledger.SQLite.Path)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("sqlite reading ledger enabled", "path", cfg.Ledger.SQLite.Path)
		return l, func() { _ = l.Close() }, nil
	default:
		return ledger.NewMemoryLedger(), noop, nil
	}
}

func openPostgres(ctx context.Context, pg config.PostgresConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(pg.DSN))
	if err != nil {
		return nil, err
	}
	if pg.MaxConns > 0 {
		poolConfig.MaxConns = pg.MaxConns
	}
	if pg.MinConns > 0 {
		poolConfig.MinConns = pg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Debug("postgres pool ready", "max_conns", poolConfig.MaxConns)
	return pool, nil
}

// NewGeoStore returns the Valkey cache when enabled and reachable, memory otherwise.
func NewGeoStore(cfg *config.Config, logger *slog.Logger) (geo.Store, func()) {
	noop := func() {}
	if !cfg.Geo.Valkey.Enabled {
		return geostore.NewMemoryStore(), noop
	}
	opt, err := buildValkeyOptions(cfg.Geo.Valkey.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
		return geostore.NewMemoryStore(), noop
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory store", "error", err)
		return geostore.NewMemoryStore(), noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory store", "error", err)
		client.Close()
		return geostore.NewMemoryStore(), noop
	}
	logger.Info("geo valkey store enabled", "addr", cfg.Geo.Valkey.Addr)
	return geostore.NewValkeyStore(client, cfg.Geo.Valkey.Prefix), client.Close
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

// NewSnapshotStorage returns the S3-compatible bucket when configured, memory otherwise.
func NewSnapshotStorage(cfg *config.Config, logger *slog.Logger) snapshot.ObjectStorage {
	st := cfg.Snapshot.Storage
	if !st.Configured() {
		if cfg.Snapshot.Enabled {
			logger.Warn("snapshot storage not configured, keeping snapshots in memory")
		}
		return snapshotstore.NewMemoryStorage()
	}
	storage, err := snapshotstore.NewMinioStorage(st.Endpoint, st.AccessKey, st.SecretKey, st.Bucket, st.Region, logger)
	if err != nil {
		logger.Error("failed to init snapshot storage, keeping snapshots in memory", "error", err)
		return snapshotstore.NewMemoryStorage()
	}
	return storage
}
