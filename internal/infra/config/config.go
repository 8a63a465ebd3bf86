package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zone validation must not depend on host zoneinfo

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "configs/config.yaml"

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Geo       GeoConfig       `yaml:"geo"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
	Horoscope HoroscopeConfig `yaml:"horoscope"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address         string          `yaml:"address"`
	ReadTimeout     time.Duration   `yaml:"readTimeout"`
	WriteTimeout    time.Duration   `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration   `yaml:"shutdownTimeout"`
	RateLimit       RateLimitConfig `yaml:"rateLimit"`
	CORS            CORSConfig      `yaml:"cors"`
	Cache           CacheConfig     `yaml:"cache"`
	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For the rate limiter
	// believes. Empty trusts none, so limiting keys on the socket peer.
	TrustedProxies []string `yaml:"trustedProxies"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// CORSConfig lists the origins allowed to call the API from a browser; "*" allows any.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// CacheConfig shapes the shared cache headers of the horoscope endpoint.
type CacheConfig struct {
	MaxAge               time.Duration `yaml:"maxAge"`
	StaleWhileRevalidate time.Duration `yaml:"staleWhileRevalidate"`
}

// GeoConfig controls IP geolocation.
type GeoConfig struct {
	BaseURL   string         `yaml:"baseUrl"`
	Timeout   time.Duration  `yaml:"timeout"`
	CacheTTL  time.Duration  `yaml:"cacheTtl"`
	DefaultIP string         `yaml:"defaultIp"`
	Fallback  LocationConfig `yaml:"fallback"`
	Valkey    ValkeyConfig   `yaml:"valkey"`
}

// LocationConfig is a named place with its zone.
type LocationConfig struct {
	City      string  `yaml:"city"`
	Region    string  `yaml:"region"`
	Country   string  `yaml:"country"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	TimeZone  string  `yaml:"timeZone"`
}

// ValkeyConfig contains connection information for the geolocation cache.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// LedgerConfig selects where reading selections are recorded.
type LedgerConfig struct {
	// Driver is one of memory, postgres, sqlite or none.
	Driver   string         `yaml:"driver"`
	Postgres PostgresConfig `yaml:"postgres"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// SQLiteConfig points at the ledger database file.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// SnapshotConfig drives the scheduled snapshot publisher.
type SnapshotConfig struct {
	Enabled   bool             `yaml:"enabled"`
	Schedule  string           `yaml:"schedule"`
	Timeout   time.Duration    `yaml:"timeout"`
	Prefix    string           `yaml:"prefix"`
	Locations []LocationConfig `yaml:"locations"`
	Storage   StorageConfig    `yaml:"storage"`
}

// StorageConfig contains S3-compatible object storage credentials.
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// Configured reports whether enough is set to reach a real bucket.
func (s StorageConfig) Configured() bool {
	return strings.TrimSpace(s.Endpoint) != "" && strings.TrimSpace(s.Bucket) != ""
}

// HoroscopeConfig holds generation settings.
type HoroscopeConfig struct {
	Method string `yaml:"method"`
}

// Load reads configuration from .env, a YAML file and environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			path = defaultConfigPath
		}
	}
	return LoadFile(path)
}

// LoadFile is Load with an explicit YAML path; an empty path uses defaults and env only.
func LoadFile(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.HTTP.Address, "HTTP_ADDRESS")
	setBool(&cfg.HTTP.RateLimit.Enabled, "HTTP_RATE_LIMIT_ENABLED")
	setInt(&cfg.HTTP.RateLimit.RequestsPerMinute, "HTTP_RATE_LIMIT_RPM")
	setInt(&cfg.HTTP.RateLimit.Burst, "HTTP_RATE_LIMIT_BURST")
	if v := os.Getenv("HTTP_CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORS.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_TRUSTED_PROXIES"); v != "" {
		cfg.HTTP.TrustedProxies = splitList(v)
	}
	setDuration(&cfg.HTTP.Cache.MaxAge, "HTTP_CACHE_MAX_AGE")
	setDuration(&cfg.HTTP.Cache.StaleWhileRevalidate, "HTTP_CACHE_SWR")

	setString(&cfg.Geo.BaseURL, "GEO_BASE_URL")
	setDuration(&cfg.Geo.Timeout, "GEO_TIMEOUT")
	setDuration(&cfg.Geo.CacheTTL, "GEO_CACHE_TTL")
	setString(&cfg.Geo.DefaultIP, "GEO_DEFAULT_IP")
	setString(&cfg.Geo.Fallback.TimeZone, "GEO_FALLBACK_TIMEZONE")
	setBool(&cfg.Geo.Valkey.Enabled, "GEO_VALKEY_ENABLED")
	setString(&cfg.Geo.Valkey.Addr, "GEO_VALKEY_ADDR")

	setString(&cfg.Ledger.Driver, "LEDGER_DRIVER")
	setString(&cfg.Ledger.Postgres.DSN, "LEDGER_POSTGRES_DSN")
	if v := os.Getenv("LEDGER_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Ledger.Postgres.MaxConns = int32(parsed)
		}
	}
	setString(&cfg.Ledger.SQLite.Path, "LEDGER_SQLITE_PATH")

	setBool(&cfg.Snapshot.Enabled, "SNAPSHOT_ENABLED")
	setString(&cfg.Snapshot.Schedule, "SNAPSHOT_SCHEDULE")
	setString(&cfg.Snapshot.Prefix, "SNAPSHOT_PREFIX")
	setString(&cfg.Snapshot.Storage.Endpoint, "SNAPSHOT_STORAGE_ENDPOINT")
	setString(&cfg.Snapshot.Storage.AccessKey, "SNAPSHOT_STORAGE_ACCESS_KEY")
	setString(&cfg.Snapshot.Storage.SecretKey, "SNAPSHOT_STORAGE_SECRET_KEY")
	setString(&cfg.Snapshot.Storage.Bucket, "SNAPSHOT_STORAGE_BUCKET")
	setString(&cfg.Snapshot.Storage.Region, "SNAPSHOT_STORAGE_REGION")

	setString(&cfg.Horoscope.Method, "HOROSCOPE_METHOD")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:         ":8080",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
			CORS: CORSConfig{AllowedOrigins: []string{"*"}},
			Cache: CacheConfig{
				MaxAge:               15 * time.Minute,
				StaleWhileRevalidate: time.Hour,
			},
		},
		Geo: GeoConfig{
			BaseURL:   "https://ipapi.co",
			Timeout:   3 * time.Second,
			CacheTTL:  12 * time.Hour,
			DefaultIP: "8.8.8.8",
			Fallback: LocationConfig{
				City:      "New Delhi",
				Region:    "Delhi",
				Country:   "India",
				Latitude:  28.6139,
				Longitude: 77.2090,
				TimeZone:  "Asia/Kolkata",
			},
			Valkey: ValkeyConfig{Prefix: "horoscope:geo"},
		},
		Ledger: LedgerConfig{
			Driver: "memory",
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
			SQLite: SQLiteConfig{Path: "data/ledger.db"},
		},
		Snapshot: SnapshotConfig{
			Enabled:  false,
			Schedule: "0 5 0 * * *",
			Timeout:  time.Minute,
			Prefix:   "snapshots",
			Storage:  StorageConfig{Region: "auto"},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	for _, proxy := range c.HTTP.TrustedProxies {
		if !validProxy(proxy) {
			return fmt.Errorf("http.trustedProxies: %q is not an IP or CIDR", proxy)
		}
	}
	if c.HTTP.Cache.MaxAge < 0 || c.HTTP.Cache.StaleWhileRevalidate < 0 {
		return errors.New("http.cache durations cannot be negative")
	}
	if c.Geo.CacheTTL < 0 {
		return errors.New("geo.cacheTtl cannot be negative")
	}
	if _, err := time.LoadLocation(c.Geo.Fallback.TimeZone); err != nil || strings.TrimSpace(c.Geo.Fallback.TimeZone) == "" {
		return fmt.Errorf("geo.fallback.timeZone %q is not a known zone", c.Geo.Fallback.TimeZone)
	}
	if c.Geo.Valkey.Enabled && strings.TrimSpace(c.Geo.Valkey.Addr) == "" {
		return errors.New("geo.valkey.addr cannot be empty when the valkey cache is enabled")
	}
	switch strings.ToLower(c.Ledger.Driver) {
	case "", "none", "memory":
	case "postgres":
		if strings.TrimSpace(c.Ledger.Postgres.DSN) == "" {
			return errors.New("ledger.postgres.dsn cannot be empty for the postgres driver")
		}
	case "sqlite":
		if strings.TrimSpace(c.Ledger.SQLite.Path) == "" {
			return errors.New("ledger.sqlite.path cannot be empty for the sqlite driver")
		}
	default:
		return fmt.Errorf("ledger.driver %q is not one of memory, postgres, sqlite, none", c.Ledger.Driver)
	}
	if c.Snapshot.Enabled {
		if _, err := scheduleParser.Parse(strings.TrimSpace(c.Snapshot.Schedule)); err != nil {
			return fmt.Errorf("snapshot.schedule: %w", err)
		}
	}
	for i, loc := range c.Snapshot.Locations {
		if _, err := time.LoadLocation(loc.TimeZone); err != nil {
			return fmt.Errorf("snapshot.locations[%d].timeZone: %w", i, err)
		}
	}
	return nil
}

func validProxy(value string) bool {
	if strings.Contains(value, "/") {
		_, _, err := net.ParseCIDR(value)
		return err == nil
	}
	return net.ParseIP(value) != nil
}

// scheduleParser matches the scheduler, which runs cron with a seconds field.
var scheduleParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
