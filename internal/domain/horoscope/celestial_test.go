package horoscope

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/horoscope/pkg/errors"
)

func TestDeriveFactsExample(t *testing.T) {
	catalog := DefaultCatalog()
	facts, err := deriveFacts(30, 42, catalog)
	require.NoError(t, err)
	require.Equal(t, 2, facts.TithiIndex)
	require.Equal(t, 3, facts.NakshatraIndex)
	require.Equal(t, catalog.Nakshatras[3], facts.NakshatraName)
	require.Equal(t, catalog.Flavor[catalog.Nakshatras[3]], facts.FlavorPhrase)
}

func TestDeriveFactsBoundaries(t *testing.T) {
	catalog := DefaultCatalog()
	tests := []struct {
		name      string
		sun, moon float64
		tithi     int
		nakshatra int
	}{
		{"conjunction", 100, 100, 1, 7},
		{"just before next conjunction", 10, 10 + 359.999999, 30, 0},
		{"moon at zero", 200, 0, 14, 0},
		{"moon just below 360", 0, 359.999999, 30, 26},
		{"negative elongation", 350, 5, 2, 0},
		{"moon negative", 0, -1, 30, 26},
		{"tiny negative rounds into range", 0, -1e-20, 30, 26},
		{"large representations", 720 + 30, 360*5 + 42, 2, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			facts, err := deriveFacts(tc.sun, tc.moon, catalog)
			require.NoError(t, err)
			require.Equal(t, tc.tithi, facts.TithiIndex)
			require.Equal(t, tc.nakshatra, facts.NakshatraIndex)
		})
	}
}

func TestDeriveFactsRanges(t *testing.T) {
	catalog := DefaultCatalog()
	for sun := -720.0; sun <= 720; sun += 7.3 {
		for moon := -720.0; moon <= 720; moon += 3.1 {
			facts, err := deriveFacts(sun, moon, catalog)
			require.NoError(t, err)
			require.GreaterOrEqual(t, facts.TithiIndex, 1)
			require.LessOrEqual(t, facts.TithiIndex, 30)
			require.GreaterOrEqual(t, facts.NakshatraIndex, 0)
			require.LessOrEqual(t, facts.NakshatraIndex, 26)
		}
	}
}

func TestDeriveFactsFlavorAbsent(t *testing.T) {
	catalog := DefaultCatalog()
	// index 10 has no flavor line
	facts, err := deriveFacts(0, 10*nakshatraSpan+1, catalog)
	require.NoError(t, err)
	require.Equal(t, 10, facts.NakshatraIndex)
	require.Empty(t, facts.FlavorPhrase)
}

func TestDeriveFactsRejectsNonFinite(t *testing.T) {
	catalog := DefaultCatalog()
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := deriveFacts(v, 10, catalog)
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
		_, err = deriveFacts(10, v, catalog)
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	}
}

func TestDeriveFactsInvariantViolation(t *testing.T) {
	catalog := DefaultCatalog()
	catalog.Nakshatras = catalog.Nakshatras[:20]
	_, err := deriveFacts(0, 350, catalog)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvariantViolation))
	require.Contains(t, err.Error(), "nakshatra index 26")
}

func TestNormalizeDegrees(t *testing.T) {
	require.Equal(t, 0.0, normalizeDegrees(0))
	require.Equal(t, 0.0, normalizeDegrees(360))
	require.Equal(t, 350.0, normalizeDegrees(-10))
	require.Equal(t, math.Nextafter(360, 0), normalizeDegrees(-1e-20))
	require.InDelta(t, 42.0, normalizeDegrees(360*3+42), 1e-9)
}
