package horoscope

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	_ "time/tzdata" // zone names must resolve on images without zoneinfo

	"github.com/yanqian/horoscope/internal/domain/geo"
	apperrors "github.com/yanqian/horoscope/pkg/errors"
)

// Service exposes daily horoscope generation.
type Service interface {
	// Daily resolves location, local date and sky for a visitor and generates the payload.
	Daily(ctx context.Context, req Request) (Response, error)
	// ForLocation skips geolocation; an empty zone uses the fallback zone.
	ForLocation(ctx context.Context, loc Location, date string) (Response, error)
	// Generate runs the pure pipeline on already resolved input.
	Generate(input Input) (Response, error)
}

// Ephemeris supplies ecliptic longitudes in degrees for an instant.
type Ephemeris interface {
	Longitudes(ctx context.Context, at time.Time) (sun, moon float64, err error)
}

type service struct {
	cfg       Config
	engine    *Engine
	locator   geo.Locator
	ephemeris Ephemeris
	ledger    Ledger
	logger    *slog.Logger
	now       func() time.Time

	// dates whose selections already matched the ledger in this process
	reconciledMu sync.Mutex
	reconciled   map[string]struct{}
}

// maxReconciledDates caps the in-process memo; ?date= makes dates unbounded.
const maxReconciledDates = 64

// NewService wires up the horoscope domain.
func NewService(cfg Config, engine *Engine, locator geo.Locator, ephemeris Ephemeris, ledger Ledger, logger *slog.Logger) Service {
	return &service{
		cfg:        cfg,
		engine:     engine,
		locator:    locator,
		ephemeris:  ephemeris,
		ledger:     ledger,
		logger:     logger.With("component", "horoscope.service"),
		now:        time.Now,
		reconciled: make(map[string]struct{}),
	}
}

func (s *service) Generate(input Input) (Response, error) {
	return s.engine.Generate(input)
}

func (s *service) Daily(ctx context.Context, req Request) (Response, error) {
	located := s.locator.Locate(ctx, req.ClientIP)

	zone, err := s.resolveZone(req.TimeZone, located.Location.TimeZone)
	if err != nil {
		return Response{}, err
	}
	loc := Location{
		City:    located.Location.City,
		Region:  located.Location.Region,
		Country: located.Location.Country,
		Lat:     located.Location.Latitude,
		Lon:     located.Location.Longitude,
	}
	return s.render(ctx, loc, zone, req.Date, string(located.Source), req.RequestID)
}

func (s *service) ForLocation(ctx context.Context, loc Location, date string) (Response, error) {
	zone, err := s.resolveZone(loc.TimeZone, "")
	if err != nil {
		return Response{}, err
	}
	return s.render(ctx, loc, zone, date, "", "")
}

func (s *service) render(ctx context.Context, loc Location, zone *time.Location, date, source, requestID string) (Response, error) {
	day, err := s.resolveDate(date, zone)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "date must be formatted as YYYY-MM-DD", err)
	}

	sun, moon, err := s.ephemeris.Longitudes(ctx, day.Instant)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeEphemeris, "failed to compute longitudes", err)
	}

	loc.TimeZone = zone.String()
	resp, err := s.engine.Generate(Input{
		LocalDateKey:     day.Key,
		DisplayDate:      day.Display,
		Location:         loc,
		SunLongitudeDeg:  sun,
		MoonLongitudeDeg: moon,
	})
	if err != nil {
		return Response{}, err
	}
	resp.Meta.LocationSource = source
	if requestID != "" {
		resp.Meta.RequestID = requestID
	}

	s.logger.Info("horoscope generated",
		"date", day.Key, "zone", loc.TimeZone, "source", source,
		"tithi", resp.Tithi, "nakshatra", resp.Nakshatra, "request_id", resp.Meta.RequestID)

	s.reconcile(ctx, day.Key, resp.Horoscope)
	return resp, nil
}

// resolveZone prefers the explicit override, then geolocation, then the fallback zone.
// Only a bad override is the caller's fault.
func (s *service) resolveZone(override, located string) (*time.Location, error) {
	if name := strings.TrimSpace(override); name != "" {
		zone, err := time.LoadLocation(name)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("unknown time zone %q", name), err)
		}
		return zone, nil
	}
	if name := strings.TrimSpace(located); name != "" {
		zone, err := time.LoadLocation(name)
		if err == nil {
			return zone, nil
		}
		s.logger.Warn("located time zone unknown, using fallback", "zone", name, "error", err)
	}
	zone, err := time.LoadLocation(s.cfg.Fallback.TimeZone)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "fallback time zone is invalid", err)
	}
	return zone, nil
}

func (s *service) resolveDate(input string, zone *time.Location) (LocalDate, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return newLocalDate(s.now().In(zone)), nil
	}
	parsed, err := time.ParseInLocation(dateKeyLayout, trimmed, zone)
	if err != nil {
		return LocalDate{}, err
	}
	return newLocalDate(parsed.Add(12 * time.Hour)), nil
}

// reconcile is best effort: the payload is already complete, so ledger
// failures are logged and never returned. A date that matched once is not
// checked again by this process.
func (s *service) reconcile(ctx context.Context, dateKey string, readings Readings) {
	if s.ledger == nil || s.alreadyReconciled(dateKey) {
		return
	}
	entries := ledgerEntries(dateKey, readings)
	stored, err := s.ledger.Reconcile(ctx, entries)
	if err != nil {
		s.logger.Warn("reading ledger reconcile failed", "date", dateKey, "error", err)
		return
	}
	drift := false
	for i, entry := range entries {
		if i >= len(stored) {
			break
		}
		if stored[i].Selection != entry.Selection {
			drift = true
			s.logger.Error("reading ledger drift",
				"date", dateKey, "sign", entry.Sign,
				"stored", stored[i].Selection, "generated", entry.Selection)
		}
	}
	if !drift && len(stored) == len(entries) {
		s.markReconciled(dateKey)
	}
}

func (s *service) alreadyReconciled(dateKey string) bool {
	s.reconciledMu.Lock()
	defer s.reconciledMu.Unlock()
	_, ok := s.reconciled[dateKey]
	return ok
}

func (s *service) markReconciled(dateKey string) {
	s.reconciledMu.Lock()
	defer s.reconciledMu.Unlock()
	if len(s.reconciled) >= maxReconciledDates {
		clear(s.reconciled)
	}
	s.reconciled[dateKey] = struct{}{}
}
