package horoscope

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestComposeGoldenSelections(t *testing.T) {
	catalog := DefaultCatalog()
	facts := CelestialFacts{TithiIndex: 2, NakshatraIndex: 3, NakshatraName: catalog.Nakshatras[3], FlavorPhrase: catalog.Flavor[catalog.Nakshatras[3]]}

	want := map[string]Selection{
		"মেষ":     {0, 0, 0},
		"বৃষ":     {4, 0, 3},
		"মিথুন":   {3, 3, 1},
		"কর্কট":   {0, 2, 3},
		"সিংহ":    {0, 1, 2},
		"কন্যা":   {4, 2, 3},
		"তুলা":    {2, 3, 3},
		"বৃশ্চিক": {2, 4, 2},
		"ধনু":     {3, 4, 3},
		"মকর":     {1, 4, 2},
		"কুম্ভ":   {3, 4, 3},
		"মীন":     {1, 2, 0},
	}
	for _, sign := range catalog.Signs {
		reading := compose("2025-10-16", sign, facts, catalog)
		sel, ok := want[sign]
		require.True(t, ok, "sign %s missing from golden table", sign)
		require.Equal(t, sel, reading.Selection, "sign %s", sign)
		require.Equal(t, catalog.Lead[sel.Lead]+" "+facts.FlavorPhrase, reading.Text)
		require.Equal(t, catalog.Health[sel.Health], reading.Health)
		require.Equal(t, catalog.Advice[sel.Advice], reading.Advice)
		require.Equal(t, "তিথি 2", reading.Tithi)
		require.Equal(t, facts.NakshatraName, reading.Nakshatra)
	}
}

func TestComposeWithoutFlavorHasNoTrailingSpace(t *testing.T) {
	catalog := DefaultCatalog()
	facts := CelestialFacts{TithiIndex: 17, NakshatraName: catalog.Nakshatras[12]}

	reading := compose("2025-10-16", "মেষ", facts, catalog)
	require.Equal(t, catalog.Lead[0], reading.Text)
	require.Equal(t, "তিথি 17", reading.Tithi)
}

func TestComposeDeterministic(t *testing.T) {
	catalog := DefaultCatalog()
	facts := CelestialFacts{TithiIndex: 5, NakshatraName: catalog.Nakshatras[0], FlavorPhrase: catalog.Flavor[catalog.Nakshatras[0]]}
	for _, sign := range catalog.Signs {
		require.Equal(t, compose("2024-02-29", sign, facts, catalog), compose("2024-02-29", sign, facts, catalog))
	}
}

func TestSeedSensitivity(t *testing.T) {
	catalog := DefaultCatalog()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	seeds := make(map[string]struct{})
	firstDraws := make(map[float64]string)
	for day := 0; day < 84; day++ {
		dateKey := start.AddDate(0, 0, day).Format(dateKeyLayout)
		for _, sign := range catalog.Signs {
			seed := signSeed(dateKey, sign)
			_, dup := seeds[seed]
			require.False(t, dup, "duplicate seed %s", seed)
			seeds[seed] = struct{}{}

			v := newGenerator(seed).next()
			prev, clash := firstDraws[v]
			require.False(t, clash, "seeds %s and %s share a first draw", prev, seed)
			firstDraws[v] = seed
		}
	}
	require.Len(t, seeds, 1008)

	// the same sign sees many different combinations over the sample
	variety := make(map[Selection]struct{})
	for day := 0; day < 84; day++ {
		dateKey := start.AddDate(0, 0, day).Format(dateKeyLayout)
		variety[compose(dateKey, catalog.Signs[0], CelestialFacts{TithiIndex: 1}, catalog).Selection] = struct{}{}
	}
	require.Greater(t, len(variety), 20, fmt.Sprintf("only %d combinations", len(variety)))
}
