// Package timezone resolves IANA time zones for reference times and places
// instants in them.
package timezone

import (
	"time"

	"github.com/pkg/errors"
)

// UTC is the default location.
var UTC = time.UTC

// TimezoneUTC is the UTC timezone identifier.
const TimezoneUTC = "UTC"

// ParseTimezone parses an IANA timezone identifier (e.g., "Asia/Shanghai").
// If the timezone is invalid, returns UTC and an error.
func ParseTimezone(tz string) (*time.Location, error) {
	if tz == "" || tz == TimezoneUTC {
		return UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return UTC, errors.Wrapf(err, "invalid timezone %q", tz)
	}
	return loc, nil
}

// IsValidTimezone checks if a timezone identifier is valid.
func IsValidTimezone(tz string) bool {
	_, err := ParseTimezone(tz)
	return err == nil
}

// StartOfDay returns the start of the day (00:00:00) in the given timezone.
func StartOfDay(t time.Time, tz *time.Location) time.Time {
	if tz == nil {
		tz = UTC
	}
	t = t.In(tz)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, tz)
}

// EndOfDay returns the last millisecond of the day in the given timezone,
// the finest step temporal values distinguish.
func EndOfDay(t time.Time, tz *time.Location) time.Time {
	if tz == nil {
		tz = UTC
	}
	t = t.In(tz)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), tz)
}
