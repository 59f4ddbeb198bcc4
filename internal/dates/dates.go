// Package dates provides calendar-day arithmetic for streak and decay logic.
//
// All streak continuity, daily XP rollover, and memory decay decisions are
// keyed by calendar day, never by elapsed wall-clock duration. A session at
// 23:59 followed by one at 00:01 counts as two consecutive study days.
//
// The Clock interface is the single source of "now" for the whole system.
// Production code uses SystemClock; tests use a fixed, advanceable clock so
// day arithmetic is deterministic.
package dates

import (
	"fmt"
	"time"
)

// Clock supplies the current time. Exactly one Clock instance is injected
// per session; no package in this module calls time.Now directly outside
// of SystemClock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time { return time.Now() }

// Date is a calendar day. The zero Date means "absent" (no date recorded).
//
// Internally a Date is midnight UTC of the named day, which makes
// day-difference arithmetic exact regardless of the zone the source
// time.Time carried.
type Date struct {
	t time.Time
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar day according to c.
func Today(c Clock) Date {
	return DateOf(c.Now())
}

// Parse parses a Date in "2006-01-02" form. The empty string parses to the
// zero Date.
func Parse(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// MustParse is Parse for static test fixtures; panics on malformed input.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero reports whether the date is absent.
func (d Date) IsZero() bool { return d.t.IsZero() }

// String renders the date as "2006-01-02", or "" for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format("2006-01-02")
}

// AddDays returns the date n calendar days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	if d.IsZero() {
		return Date{}
	}
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// Equal reports whether d and other name the same calendar day.
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// Time returns midnight UTC of the day, for storage layers that persist a
// timestamp column.
func (d Date) Time() time.Time { return d.t }

// DaysBetween returns the number of calendar days from a to b (positive when
// b is after a). Both dates must be non-zero; the result for absent dates is
// unspecified and callers are expected to branch on IsZero first.
func DaysBetween(a, b Date) int {
	return int(b.t.Sub(a.t) / (24 * time.Hour))
}

// MarshalText implements encoding.TextMarshaler. The zero Date marshals to
// the empty string, which UnmarshalText round-trips back to zero. Date is
// used both as a struct field and as a JSON map key, so text (not object)
// encoding is required.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
