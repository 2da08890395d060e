// Package dates holds the date conventions used at the service boundaries:
// canonical ISO timestamps for stored records, YYYY-MM-DD keys for production
// plans and DD/MM/YYYY days for the planning reference file.
//
// Planning dates are civil calendar days. They are carried as time.Time values at
// UTC midnight so the key, the display date and the weekday always agree.
package dates

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	// CanonicalLayout is the stored timestamp format (UTC, millisecond precision)
	CanonicalLayout = "2006-01-02T15:04:05.000Z"
	// KeyLayout is the plan date key format
	KeyLayout = "2006-01-02"
	// DayMonthYearLayout is the date format of the planning reference file
	DayMonthYearLayout = "02/01/2006"
)

// ErrInvalidDate is returned when a date input cannot be parsed
var ErrInvalidDate = errors.New("invalid date")

var weekdayKeys = [...]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// Layouts without an offset are read in local time
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTimestamp parses an ISO timestamp or a YYYY-MM-DD date. A bare date is read
// as UTC midnight, a date-time without offset as local time.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if len(s) == len(KeyLayout) {
		if t, err := time.Parse(KeyLayout, s); err == nil {
			return t, true
		}
		return time.Time{}, false
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Canonical formats t as a stored timestamp
func Canonical(t time.Time) string {
	return t.UTC().Format(CanonicalLayout)
}

// NormalizeTimestamp re-serializes s in canonical form when it parses and returns
// it verbatim otherwise.
func NormalizeTimestamp(s string) string {
	if t, ok := ParseTimestamp(s); ok {
		return Canonical(t)
	}
	return s
}

// Key returns the YYYY-MM-DD key of t's canonical timestamp
func Key(t time.Time) string {
	return t.UTC().Format(KeyLayout)
}

// NormalizeKey turns a timestamp or date-only input into a plan date key
func NormalizeKey(s string) (string, error) {
	t, ok := ParseTimestamp(s)
	if !ok {
		return "", errors.Wrapf(ErrInvalidDate, "cannot parse %q", s)
	}
	return Key(t), nil
}

// ParseDay parses a timestamp or date-only input into the civil day it falls on
func ParseDay(s string) (time.Time, error) {
	key, err := NormalizeKey(s)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(KeyLayout, key)
	if err != nil {
		return time.Time{}, errors.Wrapf(ErrInvalidDate, "cannot parse %q", s)
	}
	return t, nil
}

// ToDayMonthYear converts a planning day to the DD/MM/YYYY convention of the
// planning reference file. Keys inside the service always use Key.
func ToDayMonthYear(t time.Time) string {
	return t.UTC().Format(DayMonthYearLayout)
}

// WeekdayKey returns the lower-case English weekday name used by the default
// planning table
func WeekdayKey(t time.Time) string {
	return weekdayKeys[t.UTC().Weekday()]
}

// Days returns every calendar day from start to end inclusive. It returns nil when
// start is after end.
func Days(start, end time.Time) []time.Time {
	start = truncateDay(start)
	end = truncateDay(end)
	if start.After(end) {
		return nil
	}
	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// DaysBetween counts the days in the inclusive range
func DaysBetween(start, end time.Time) int {
	return int(truncateDay(end).Sub(truncateDay(start)).Hours()/24) + 1
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
