// Package partial models a release date that may be missing its month or day
package partial

import (
	"fmt"
	"strconv"
	"strings"

	perr "cngalcal/internal/platform/errors"
)

// Shape tags how much of the date is known
type Shape uint8

const (
	// Unresolved carries no date at all
	Unresolved Shape = iota
	// Year is YYYY
	Year
	// YearMonth is YYYY-MM
	YearMonth
	// YearMonthDay is YYYY-MM-DD
	YearMonthDay
)

// String returns the shape name used in API responses
func (s Shape) String() string {
	switch s {
	case Year:
		return "year"
	case YearMonth:
		return "year_month"
	case YearMonthDay:
		return "year_month_day"
	default:
		return "unresolved"
	}
}

// ErrMalformed is the sentinel for strings that are not a canonical partial date
var ErrMalformed = perr.New(perr.ErrorCodeInvalidArgument, "malformed partial date")

// Date is a tagged partial date. The zero value is Unresolved
type Date struct {
	shape Shape
	year  int
	month int
	day   int
}

// YearOnly returns a Year date
func YearOnly(y int) Date { return Date{shape: Year, year: y} }

// Month returns a YearMonth date
func Month(y, m int) Date { return Date{shape: YearMonth, year: y, month: m} }

// Day returns a YearMonthDay date. Calendar validity is the resolver's concern
func Day(y, m, d int) Date { return Date{shape: YearMonthDay, year: y, month: m, day: d} }

// Shape returns the tag
func (d Date) Shape() Shape { return d.shape }

// Year returns the year, 0 when Unresolved
func (d Date) Year() int { return d.year }

// Month returns the month, 0 when unknown
func (d Date) Month() int { return d.month }

// Day returns the day of month, 0 when unknown
func (d Date) Day() int { return d.day }

// IsZero reports whether d is Unresolved
func (d Date) IsZero() bool { return d.shape == Unresolved }

// String renders the canonical zero padded form, "" when Unresolved
func (d Date) String() string {
	switch d.shape {
	case Year:
		return fmt.Sprintf("%04d", d.year)
	case YearMonth:
		return fmt.Sprintf("%04d-%02d", d.year, d.month)
	case YearMonthDay:
		return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
	default:
		return ""
	}
}

// MarshalText lets a Date sit directly in JSON and CSV records
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText is the inverse of MarshalText
func (d *Date) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Parse reads "", YYYY, YYYY-M[M] or YYYY-M[M]-D[D].
// The year must have exactly four digits, the month 1..12 and the day 1..31
func Parse(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	parts := strings.Split(s, "-")
	if len(parts) > 3 {
		return Date{}, perr.Wrapf(ErrMalformed, perr.ErrorCodeInvalidArgument, "%q has %d components", s, len(parts))
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		n, ok := digits(p)
		if !ok {
			return Date{}, perr.Wrapf(ErrMalformed, perr.ErrorCodeInvalidArgument, "%q component %d is not numeric", s, i+1)
		}
		nums[i] = n
	}

	if len(parts[0]) != 4 {
		return Date{}, perr.Wrapf(ErrMalformed, perr.ErrorCodeInvalidArgument, "%q year must have four digits", s)
	}
	if len(nums) >= 2 && (nums[1] < 1 || nums[1] > 12) {
		return Date{}, perr.Wrapf(ErrMalformed, perr.ErrorCodeInvalidArgument, "%q month out of range", s)
	}
	if len(nums) == 3 && (nums[2] < 1 || nums[2] > 31) {
		return Date{}, perr.Wrapf(ErrMalformed, perr.ErrorCodeInvalidArgument, "%q day out of range", s)
	}

	switch len(nums) {
	case 1:
		return YearOnly(nums[0]), nil
	case 2:
		return Month(nums[0], nums[1]), nil
	default:
		return Day(nums[0], nums[1], nums[2]), nil
	}
}

// digits accepts one to four ASCII digits; strconv alone would let "+1" through
func digits(s string) (int, bool) {
	if s == "" || len(s) > 4 {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}
