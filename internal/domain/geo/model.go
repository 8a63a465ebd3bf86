package geo

import "time"

// Source reports where a location came from.
type Source string

const (
	SourceCache    Source = "cache"
	SourceProvider Source = "ipapi"
	SourceFallback Source = "fallback"
)

// Location is a best-effort position for a client address.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	Region    string  `json:"region"`
	Country   string  `json:"country_name"`
	TimeZone  string  `json:"timezone"`
}

// Result pairs a resolved location with its provenance.
type Result struct {
	IP       string
	Location Location
	Source   Source
}

// Config wires runtime dependencies for the locator.
type Config struct {
	Fallback  Location
	DefaultIP string
	CacheTTL  time.Duration
}
