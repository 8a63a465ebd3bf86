package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile("")
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTP.Address)
	require.Equal(t, "Asia/Kolkata", cfg.Geo.Fallback.TimeZone)
	require.Equal(t, "New Delhi", cfg.Geo.Fallback.City)
	require.Equal(t, "8.8.8.8", cfg.Geo.DefaultIP)
	require.Equal(t, 15*time.Minute, cfg.HTTP.Cache.MaxAge)
	require.Equal(t, time.Hour, cfg.HTTP.Cache.StaleWhileRevalidate)
	require.Equal(t, "memory", cfg.Ledger.Driver)
	require.False(t, cfg.Snapshot.Enabled)
}

func TestLoadFileYAMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9090"
  cache:
    maxAge: 5m
geo:
  cacheTtl: 30m
  fallback:
    city: Dhaka
    timeZone: Asia/Dhaka
ledger:
  driver: sqlite
  sqlite:
    path: /tmp/ledger.db
snapshot:
  enabled: true
  schedule: "0 5 0 * * *"
  locations:
    - city: Kolkata
      timeZone: Asia/Kolkata
`), 0o600))
	t.Setenv("HTTP_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("GEO_DEFAULT_IP", "1.1.1.1")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, 5*time.Minute, cfg.HTTP.Cache.MaxAge)
	require.Equal(t, 30*time.Minute, cfg.Geo.CacheTTL)
	require.Equal(t, "Dhaka", cfg.Geo.Fallback.City)
	require.Equal(t, "Asia/Dhaka", cfg.Geo.Fallback.TimeZone)
	require.Equal(t, "sqlite", cfg.Ledger.Driver)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORS.AllowedOrigins)
	require.Equal(t, "1.1.1.1", cfg.Geo.DefaultIP)
	require.Len(t, cfg.Snapshot.Locations, 1)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"empty address":       func(c *Config) { c.HTTP.Address = "" },
		"bad fallback zone":   func(c *Config) { c.Geo.Fallback.TimeZone = "Mars/Olympus" },
		"empty fallback":      func(c *Config) { c.Geo.Fallback.TimeZone = "" },
		"valkey without addr": func(c *Config) { c.Geo.Valkey.Enabled = true },
		"unknown driver":      func(c *Config) { c.Ledger.Driver = "mongo" },
		"postgres no dsn":     func(c *Config) { c.Ledger.Driver = "postgres" },
		"bad schedule": func(c *Config) {
			c.Snapshot.Enabled = true
			c.Snapshot.Schedule = "every day"
		},
		"bad snapshot zone": func(c *Config) {
			c.Snapshot.Locations = []LocationConfig{{TimeZone: "Nope/Nope"}}
		},
		"rate limit":    func(c *Config) { c.HTTP.RateLimit.Burst = 0 },
		"trusted proxy": func(c *Config) { c.HTTP.TrustedProxies = []string{"10.0.0.0/8", "proxy.internal"} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := defaultConfig()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestValidateAcceptsTrustedProxies(t *testing.T) {
	cfg := defaultConfig()
	cfg.HTTP.TrustedProxies = []string{"10.0.0.0/8", "192.0.2.1", "2001:db8::/32"}
	require.NoError(t, cfg.Validate())
}

func TestStorageConfigured(t *testing.T) {
	require.False(t, StorageConfig{}.Configured())
	require.True(t, StorageConfig{Endpoint: "http://localhost:9000", Bucket: "snapshots"}.Configured())
}
