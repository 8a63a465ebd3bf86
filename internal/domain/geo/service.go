package geo

import (
	"context"
	"log/slog"
	"net"
	"strings"
)

// Locator resolves client addresses; it never fails and falls back to a configured place.
type Locator interface {
	Locate(ctx context.Context, ip string) Result
}

type service struct {
	cfg      Config
	provider Provider
	store    Store
	logger   *slog.Logger
}

// NewService wires up the geolocation domain.
func NewService(cfg Config, provider Provider, store Store, logger *slog.Logger) Locator {
	return &service{
		cfg:      cfg,
		provider: provider,
		store:    store,
		logger:   logger.With("component", "geo.service"),
	}
}

func (s *service) Locate(ctx context.Context, ip string) Result {
	ip = s.normalizeIP(ip)

	if cached, ok, err := s.store.Get(ctx, ip); err != nil {
		s.logger.Warn("geo cache lookup failed", "ip", ip, "error", err)
	} else if ok {
		return Result{IP: ip, Location: s.fillGaps(cached), Source: SourceCache}
	}

	found, err := s.provider.Lookup(ctx, ip)
	if err != nil {
		s.logger.Warn("geo lookup failed, using fallback location", "ip", ip, "error", err)
		return Result{IP: ip, Location: s.cfg.Fallback, Source: SourceFallback}
	}
	if err := s.store.Save(ctx, ip, found, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("geo cache save failed", "ip", ip, "error", err)
	}
	return Result{IP: ip, Location: s.fillGaps(found), Source: SourceProvider}
}

// fillGaps applies the fallback per field, as an upstream payload may omit any of them.
func (s *service) fillGaps(loc Location) Location {
	fb := s.cfg.Fallback
	if loc.Latitude == 0 {
		loc.Latitude = fb.Latitude
	}
	if loc.Longitude == 0 {
		loc.Longitude = fb.Longitude
	}
	loc.City = firstNonEmpty(loc.City, fb.City)
	loc.Region = firstNonEmpty(loc.Region, fb.Region)
	loc.Country = firstNonEmpty(loc.Country, fb.Country)
	loc.TimeZone = firstNonEmpty(loc.TimeZone, fb.TimeZone)
	return loc
}

// normalizeIP takes the first hop of a forwarded list and drops any port.
func (s *service) normalizeIP(raw string) string {
	first, _, _ := strings.Cut(raw, ",")
	first = strings.TrimSpace(first)
	if host, _, err := net.SplitHostPort(first); err == nil {
		first = host
	}
	if first == "" {
		return s.cfg.DefaultIP
	}
	return first
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
