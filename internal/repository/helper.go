package repository

import (
	"fmt"
	"time"
)

// sqliteTimeFormat matches the CURRENT_TIMESTAMP default of the schema.
const sqliteTimeFormat = "2006-01-02 15:04:05"

// ParseTime parses a timestamp string in sqlite, date-only or RFC3339 format.
func ParseTime(str string) (time.Time, error) {
	for _, layout := range []string{sqliteTimeFormat, "2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, str); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse time %q", str)
}

// FormatTime renders a timestamp the way the schema stores it.
func FormatTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeFormat)
}
