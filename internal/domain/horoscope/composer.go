package horoscope

import (
	"strconv"
	"strings"
)

// seedSeparator joins date key and sign. Changing it invalidates every published reading.
const seedSeparator = "|"

func signSeed(dateKey, sign string) string {
	return dateKey + seedSeparator + sign
}

// compose draws lead, health and advice (in that order) from one generator
// seeded by date and sign, then merges the shared celestial facts.
func compose(dateKey, sign string, facts CelestialFacts, catalog Catalog) SignReading {
	g := newGenerator(signSeed(dateKey, sign))

	leadIdx, lead := pick(g, catalog.Lead)
	healthIdx, health := pick(g, catalog.Health)
	adviceIdx, advice := pick(g, catalog.Advice)

	return SignReading{
		Sign:      sign,
		Text:      strings.TrimSpace(lead + " " + facts.FlavorPhrase),
		Health:    health,
		Advice:    advice,
		Tithi:     tithiLabel(facts.TithiIndex),
		Nakshatra: facts.NakshatraName,
		Selection: Selection{Lead: leadIdx, Health: healthIdx, Advice: adviceIdx},
	}
}

func tithiLabel(index int) string {
	return TithiPrefix + " " + strconv.Itoa(index)
}
