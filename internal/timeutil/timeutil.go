package timeutil

import (
	"time"
)

// Layouts used across exports.
const (
	APILayout      = "2006-01-02T15:04:05"
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	FileNameLayout = "2006-01-02T15:04:05"
)

// ParseAPI parses a timestamp in the platform API's wire format. The API
// emits naive ISO timestamps which are documented to be UTC.
func ParseAPI(value string) (time.Time, error) {
	return time.ParseInLocation(APILayout, value, time.UTC)
}

// LoadZone resolves a timezone name, falling back to UTC when the name is
// empty or unknown.
func LoadZone(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// FormatIn formats t in the given zone using the given layout.
func FormatIn(t time.Time, loc *time.Location, layout string) string {
	return t.In(loc).Format(layout)
}
