package util

import "time"

// ISOMillis mirrors the millisecond precision RFC 3339 layout used in payload metadata.
const ISOMillis = "2006-01-02T15:04:05.000Z07:00"

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ISOTimestamp formats t in UTC with millisecond precision.
func ISOTimestamp(t time.Time) string {
	return t.UTC().Format(ISOMillis)
}
