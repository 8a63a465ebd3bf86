package horoscope

import (
	"fmt"

	apperrors "github.com/yanqian/horoscope/pkg/errors"
)

// assemble packages the readings into the final payload. Every canonical sign
// must be present exactly once.
func assemble(input Input, facts CelestialFacts, readings Readings, catalog Catalog, meta Meta) (Response, error) {
	if len(readings) != len(catalog.Signs) {
		return Response{}, apperrors.Wrap(apperrors.CodeInvariantViolation,
			fmt.Sprintf("expected %d sign readings, got %d", len(catalog.Signs), len(readings)), nil)
	}
	for i, sign := range catalog.Signs {
		r := readings[i]
		if r.Sign != sign {
			return Response{}, apperrors.Wrap(apperrors.CodeInvariantViolation,
				fmt.Sprintf("reading %d is for %q, want %q", i, r.Sign, sign), nil)
		}
		if r.Text == "" || r.Health == "" || r.Advice == "" {
			return Response{}, apperrors.Wrap(apperrors.CodeInvariantViolation,
				fmt.Sprintf("reading for %q is incomplete", sign), nil)
		}
	}

	return Response{
		Date:          input.DisplayDate,
		Location:      input.Location,
		SunLongitude:  Degrees(roundTo(input.SunLongitudeDeg, 6)),
		MoonLongitude: Degrees(roundTo(input.MoonLongitudeDeg, 6)),
		Tithi:         facts.TithiIndex,
		Nakshatra:     facts.NakshatraName,
		Horoscope:     readings,
		Meta:          meta,
	}, nil
}
