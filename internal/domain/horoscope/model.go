package horoscope

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Location describes where the reading was resolved for.
type Location struct {
	City     string  `json:"city"`
	Region   string  `json:"region"`
	Country  string  `json:"country"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	TimeZone string  `json:"timeZone"`
}

// Input is the fully resolved payload accepted by Generate.
type Input struct {
	LocalDateKey     string
	DisplayDate      string
	Location         Location
	SunLongitudeDeg  float64
	MoonLongitudeDeg float64
}

// Request is what the transport hands to the daily service.
type Request struct {
	ClientIP string
	// TimeZone overrides the zone reported by geolocation when set.
	TimeZone string
	// Date evaluates the sky at local noon of the given YYYY-MM-DD instead of now.
	Date string
	// RequestID replaces the generated meta.requestId when set.
	RequestID string
}

// Response is serialized back to API consumers.
type Response struct {
	Date          string   `json:"date"`
	Location      Location `json:"location"`
	SunLongitude  Degrees  `json:"sun_longitude"`
	MoonLongitude Degrees  `json:"moon_longitude"`
	Tithi         int      `json:"tithi"`
	Nakshatra     string   `json:"nakshatra"`
	Horoscope     Readings `json:"horoscope"`
	Meta          Meta     `json:"meta"`
}

// Meta carries generation bookkeeping; GeneratedAt and RequestID vary between runs.
type Meta struct {
	GeneratedAt    string `json:"generatedAt"`
	Method         string `json:"method"`
	RequestID      string `json:"requestId,omitempty"`
	LocationSource string `json:"locationSource,omitempty"`
}

// SignReading is the per sign record.
type SignReading struct {
	Sign      string    `json:"-"`
	Text      string    `json:"text"`
	Health    string    `json:"health"`
	Advice    string    `json:"advice"`
	Tithi     string    `json:"tithi"`
	Nakshatra string    `json:"nakshatra"`
	Selection Selection `json:"-"`
}

// Selection records the pool indices drawn for a sign.
type Selection struct {
	Lead   int
	Health int
	Advice int
}

// CelestialFacts are derived once per request and shared by every sign.
type CelestialFacts struct {
	TithiIndex     int
	NakshatraIndex int
	NakshatraName  string
	FlavorPhrase   string
}

// Readings keeps sign order stable when encoded as a JSON object.
type Readings []SignReading

// Get returns the reading for sign.
func (r Readings) Get(sign string) (SignReading, bool) {
	for _, reading := range r {
		if reading.Sign == sign {
			return reading, true
		}
	}
	return SignReading{}, false
}

// MarshalJSON implements json.Marshaler.
func (r Readings) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, reading := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(reading.Sign)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(reading)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler, preserving the document order.
func (r *Readings) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("horoscope readings: expected object")
	}
	out := make(Readings, 0, 12)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		sign, ok := tok.(string)
		if !ok {
			return fmt.Errorf("horoscope readings: expected sign key")
		}
		var reading SignReading
		if err := dec.Decode(&reading); err != nil {
			return err
		}
		reading.Sign = sign
		out = append(out, reading)
	}
	*r = out
	return nil
}

// Degrees is an angle rendered with exactly six fractional digits.
type Degrees float64

// MarshalJSON implements json.Marshaler.
func (d Degrees) MarshalJSON() ([]byte, error) {
	v := float64(d)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("degrees: non-finite value %v", v)
	}
	v = roundTo(v, 6)
	if v == 0 {
		v = 0 // drop the sign of negative zero
	}
	return []byte(strconv.FormatFloat(v, 'f', 6, 64)), nil
}

// exactAbove is where float64 spacing exceeds a microdegree; rounding there is a no-op
// and scaling first could overflow.
const exactAbove = 1e15

func roundTo(v float64, digits int) float64 {
	if math.Abs(v) > exactAbove {
		return v
	}
	scale := math.Pow(10, float64(digits))
	return math.Round(v*scale) / scale
}

// Config wires runtime knobs for the horoscope domain.
type Config struct {
	Method string
	// Fallback is used whenever geolocation yields nothing usable.
	Fallback Location
}

// LocalDate is a calendar date resolved in the visitor's zone.
type LocalDate struct {
	Key     string
	Display string
	Instant time.Time
}

const (
	dateKeyLayout     = "2006-01-02"
	displayDateLayout = "02/01/2006"
)

func newLocalDate(t time.Time) LocalDate {
	return LocalDate{
		Key:     t.Format(dateKeyLayout),
		Display: t.Format(displayDateLayout),
		Instant: t,
	}
}
