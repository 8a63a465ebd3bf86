package horoscope

import (
	"fmt"
	"math"

	apperrors "github.com/yanqian/horoscope/pkg/errors"
)

const (
	fullCircle     = 360.0
	tithiSpan      = 12.0
	nakshatraSpan  = fullCircle / nakshatraCount
	largestInRange = 359.99999999999994 // math.Nextafter(360, 0)
)

// deriveFacts converts solar and lunar longitudes into the shared celestial facts.
func deriveFacts(sunDeg, moonDeg float64, catalog Catalog) (CelestialFacts, error) {
	if !isFinite(sunDeg) || !isFinite(moonDeg) {
		return CelestialFacts{}, apperrors.Wrap(apperrors.CodeInvalidInput,
			fmt.Sprintf("longitudes must be finite (sun=%v moon=%v)", sunDeg, moonDeg), nil)
	}

	elongation := normalizeDegrees(moonDeg - sunDeg)
	tithi := int(math.Floor(elongation/tithiSpan)) + 1
	if tithi < 1 || tithi > tithiCount {
		return CelestialFacts{}, apperrors.Wrap(apperrors.CodeInvariantViolation,
			fmt.Sprintf("tithi index %d outside 1..%d (sun=%v moon=%v elongation=%v)", tithi, tithiCount, sunDeg, moonDeg, elongation), nil)
	}

	moon := normalizeDegrees(moonDeg)
	nak := int(math.Floor(moon / nakshatraSpan))
	if nak < 0 || nak >= len(catalog.Nakshatras) {
		return CelestialFacts{}, apperrors.Wrap(apperrors.CodeInvariantViolation,
			fmt.Sprintf("nakshatra index %d outside 0..%d (moon=%v normalized=%v)", nak, len(catalog.Nakshatras)-1, moonDeg, moon), nil)
	}

	name := catalog.Nakshatras[nak]
	return CelestialFacts{
		TithiIndex:     tithi,
		NakshatraIndex: nak,
		NakshatraName:  name,
		FlavorPhrase:   catalog.flavorFor(name),
	}, nil
}

// normalizeDegrees maps a finite angle into [0,360).
func normalizeDegrees(deg float64) float64 {
	v := math.Mod(deg, fullCircle)
	if v < 0 {
		v += fullCircle
	}
	// tiny negative inputs round up to exactly 360 after the shift
	if v >= fullCircle {
		v = largestInRange
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
