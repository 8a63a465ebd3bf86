package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/yanqian/horoscope/internal/domain/horoscope"
)

const jobName = "daily-snapshot"

// Publisher renders the day's payload for a set of locations and uploads it.
type Publisher struct {
	cfg     Config
	service horoscope.Service
	storage ObjectStorage
	logger  *slog.Logger
}

// NewPublisher wires the snapshot job.
func NewPublisher(cfg Config, service horoscope.Service, storage ObjectStorage, logger *slog.Logger) *Publisher {
	return &Publisher{
		cfg:     cfg,
		service: service,
		storage: storage,
		logger:  logger.With("component", "snapshot.publisher"),
	}
}

// Name identifies the job in scheduler logs.
func (p *Publisher) Name() string {
	return jobName
}

// Run publishes today's snapshot for every configured location.
func (p *Publisher) Run(ctx context.Context) error {
	_, err := p.Publish(ctx, "")
	return err
}

// Publish renders date (empty for today in each location's zone) and returns the written objects.
// Every location is attempted; the first failure is returned after the rest ran.
func (p *Publisher) Publish(ctx context.Context, date string) ([]StoredObject, error) {
	locations := p.cfg.Locations
	if len(locations) == 0 {
		locations = []horoscope.Location{{}}
	}
	var (
		written  []StoredObject
		firstErr error
	)
	for _, loc := range locations {
		objects, err := p.publishOne(ctx, loc, date)
		if err != nil {
			p.logger.Error("snapshot publish failed", "zone", loc.TimeZone, "city", loc.City, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		written = append(written, objects...)
	}
	return written, firstErr
}

func (p *Publisher) publishOne(ctx context.Context, loc horoscope.Location, date string) ([]StoredObject, error) {
	resp, err := p.service.ForLocation(ctx, loc, date)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	day, err := time.Parse("02/01/2006", resp.Date)
	if err != nil {
		return nil, fmt.Errorf("snapshot date %q: %w", resp.Date, err)
	}

	name := zoneSlug(resp.Location.TimeZone) + ".json"
	keys := []string{
		ObjectKey(p.cfg.Prefix, day.Format("2006-01-02"), name),
		ObjectKey(p.cfg.Prefix, "latest", name),
	}
	objects := make([]StoredObject, 0, len(keys))
	for _, key := range keys {
		obj, err := p.storage.Put(ctx, key, body, "application/json; charset=utf-8")
		if err != nil {
			return objects, fmt.Errorf("upload %s: %w", key, err)
		}
		objects = append(objects, obj)
	}
	p.logger.Info("snapshot published", "key", keys[0], "bytes", len(body), "request_id", resp.Meta.RequestID)
	return objects, nil
}

// ObjectKey joins key segments, skipping empty ones.
func ObjectKey(parts ...string) string {
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.Trim(part, "/ ")
		if part != "" {
			cleaned = append(cleaned, part)
		}
	}
	return path.Join(cleaned...)
}

// zoneSlug turns "America/Argentina/Buenos_Aires" into "america-argentina-buenos-aires".
func zoneSlug(zone string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(zone) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "utc"
	}
	return slug
}
