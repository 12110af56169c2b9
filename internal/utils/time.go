package utils

import (
	"fmt"
	"strings"
	"time"
)

// Layouts accepted for a reading date, most specific first. The short ones
// are what an HTML datetime-local or date input submits.
var readingDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseReadingDate parses a client supplied reading date. Values without a
// zone are taken in loc.
func ParseReadingDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range readingDateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", value)
}
