package horoscope

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/yanqian/horoscope/pkg/errors"
	"github.com/yanqian/horoscope/pkg/util"
)

// DefaultMethod tags payloads produced by this engine.
const DefaultMethod = "meeus ephemeris + deterministic templates"

// Engine runs the pure generation pipeline: facts, per sign composition, assembly.
// It is safe for concurrent use; nothing mutable is shared between calls.
type Engine struct {
	catalog Catalog
	method  string
	now     func() time.Time
	newID   func() string
}

// NewEngine validates the catalog and returns a ready engine.
func NewEngine(catalog Catalog, method string) (*Engine, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(method) == "" {
		method = DefaultMethod
	}
	return &Engine{
		catalog: catalog,
		method:  method,
		now:     util.NowUTC,
		newID:   uuid.NewString,
	}, nil
}

// Catalog exposes the reference data the engine composes from.
func (e *Engine) Catalog() Catalog {
	return e.catalog
}

// Generate builds the full payload for a resolved input. It fails as a whole:
// there is never a payload with fewer than every sign.
func (e *Engine) Generate(input Input) (Response, error) {
	if err := validateInput(input); err != nil {
		return Response{}, err
	}

	facts, err := deriveFacts(input.SunLongitudeDeg, input.MoonLongitudeDeg, e.catalog)
	if err != nil {
		return Response{}, err
	}

	readings := make(Readings, len(e.catalog.Signs))
	var g errgroup.Group
	for i, sign := range e.catalog.Signs {
		g.Go(func() error {
			readings[i] = compose(input.LocalDateKey, sign, facts, e.catalog)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeInternal, "compose readings", err)
	}

	meta := Meta{
		GeneratedAt: util.ISOTimestamp(e.now()),
		Method:      e.method,
		RequestID:   e.newID(),
	}
	return assemble(input, facts, readings, e.catalog, meta)
}

func validateInput(input Input) error {
	key := strings.TrimSpace(input.LocalDateKey)
	if key == "" {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "local date key cannot be empty", nil)
	}
	if _, err := time.Parse(dateKeyLayout, key); err != nil || key != input.LocalDateKey {
		return apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("local date key %q must be formatted as YYYY-MM-DD", input.LocalDateKey), err)
	}
	if strings.TrimSpace(input.DisplayDate) == "" {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "display date cannot be empty", nil)
	}
	return nil
}
