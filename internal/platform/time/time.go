// Package time holds calendar helpers shared by the resolver and the exports.
// Dates here are civil days: midnight in a given location
package time

import (
	"fmt"
	"time"

	// embedded zone database so Asia/Shanghai resolves in slim containers
	_ "time/tzdata"
)

// DefaultZone is the reference zone for release dates
const DefaultZone = "Asia/Shanghai"

// LoadLocation resolves an IANA name; "" means DefaultZone
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", name, err)
	}
	return loc, nil
}

// MustLocation is LoadLocation for values known at compile time
func MustLocation(name string) *time.Location {
	loc, err := LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// Date builds midnight of y-m-d in loc. Out of range parts normalize like time.Date
func Date(y int, m time.Month, d int, loc *time.Location) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Day truncates t to midnight of its calendar day in loc
func Day(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return Date(t.Year(), t.Month(), t.Day(), loc)
}

// DaysIn returns the number of days in month m of year y
func DaysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// EndOfMonth returns the last day of month m of year y in loc
func EndOfMonth(y int, m time.Month, loc *time.Location) time.Time {
	return Date(y, m+1, 0, loc)
}

// AddMonthsEnd moves the month-end t forward by n months and lands on that month's last day
func AddMonthsEnd(t time.Time, n int) time.Time {
	first := Date(t.Year(), t.Month(), 1, t.Location()).AddDate(0, n, 0)
	return EndOfMonth(first.Year(), first.Month(), t.Location())
}

// ValidDate reports whether y-m-d names a real calendar day
func ValidDate(y int, m time.Month, d int) bool {
	if m < time.January || m > time.December || d < 1 {
		return false
	}
	return d <= DaysIn(y, m)
}

// ParseDay accepts RFC3339 or YYYY-MM-DD, the latter as midnight in loc
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("want RFC3339 or YYYY-MM-DD, got %q", s)
	}
	return t, nil
}

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
