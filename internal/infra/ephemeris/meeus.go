package ephemeris

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"
)

// deltaT approximates TT-UT for the current decades. The error it leaves is
// far below what tithi and nakshatra boundaries can resolve.
const deltaT = 69 * time.Second

// Meeus computes geocentric ecliptic longitudes with the series from
// Meeus, Astronomical Algorithms (chapters 25 and 47).
type Meeus struct{}

// NewMeeus returns the ephemeris.
func NewMeeus() *Meeus {
	return &Meeus{}
}

// Longitudes returns the apparent solar and the lunar longitude in degrees for at.
func (m *Meeus) Longitudes(ctx context.Context, at time.Time) (float64, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	if at.IsZero() {
		return 0, 0, fmt.Errorf("ephemeris: zero instant")
	}
	jde := julian.TimeToJD(at.UTC().Add(deltaT))
	sun, moon := longitudesAt(jde)
	if math.IsNaN(sun) || math.IsNaN(moon) {
		return 0, 0, fmt.Errorf("ephemeris: no solution for %s", at.UTC().Format(time.RFC3339))
	}
	return sun, moon, nil
}

func longitudesAt(jde float64) (float64, float64) {
	sun := solar.ApparentLongitude(base.J2000Century(jde))
	moon, _, _ := moonposition.Position(jde)
	return degrees(sun), degrees(moon)
}

func degrees(a unit.Angle) float64 {
	d := math.Mod(a.Deg(), 360)
	if d < 0 {
		d += 360
	}
	return d
}
