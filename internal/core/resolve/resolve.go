// Package resolve completes partial release dates into full calendar days.
// Every incomplete date is pushed to its nearest plausible future occurrence:
//
//	Year          mid-year day if still ahead, else Dec 31, rolled forward if that passed too
//	YearMonth     last day of the month, rolled forward by Stride months while in the past
//	YearMonthDay  taken as is
//
// Comparisons happen on civil days in Options.Location
package resolve

import (
	"time"

	"cngalcal/internal/core/partial"
	perr "cngalcal/internal/platform/errors"
	ptime "cngalcal/internal/platform/time"
)

var (
	// ErrUnresolved is returned for an Unresolved partial date; callers drop those records first
	ErrUnresolved = perr.New(perr.ErrorCodeInvalidArgument, "unresolved partial date")

	// ErrInvalidDate is returned for components that name no real calendar day
	ErrInvalidDate = perr.New(perr.ErrorCodeValidation, "impossible calendar date")
)

// Options tunes the heuristics. Zero fields take the defaults
type Options struct {
	// Location is the reference zone, default Asia/Shanghai
	Location *time.Location

	// StrideMonths is how far each rollover advances, default 2.
	// Two skips the month in between on every pass
	StrideMonths int

	// MidMonth and MidDay place the guess for a bare year, default Sep 15
	MidMonth time.Month
	MidDay   int
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = ptime.MustLocation(ptime.DefaultZone)
	}
	if o.StrideMonths <= 0 {
		o.StrideMonths = 2
	}
	if o.MidMonth < time.January || o.MidMonth > time.December {
		o.MidMonth = time.September
	}
	if o.MidDay <= 0 || o.MidDay > ptime.DaysIn(2001, o.MidMonth) {
		o.MidDay = 15
	}
	return o
}

// Result is a resolved release day
type Result struct {
	// Date is midnight of the release day in the resolver location
	Date time.Time
	// Estimated is set when the day was inferred rather than read from the phrase
	Estimated bool
	// Rollovers counts how many stride steps were needed to reach the future
	Rollovers int
}

// Resolver is a pure function of (partial date, now) and safe for concurrent use
type Resolver struct {
	opt Options
}

// New builds a Resolver
func New(opts Options) *Resolver { return &Resolver{opt: opts.withDefaults()} }

// Options returns the effective options, defaults applied
func (r *Resolver) Options() Options { return r.opt }

// Resolve completes p relative to now. For Year and YearMonth input the result is never
// before the civil day of now
func (r *Resolver) Resolve(p partial.Date, now time.Time) (Result, error) {
	loc := r.opt.Location
	today := ptime.Day(now, loc)

	y, m, d := p.Year(), time.Month(p.Month()), p.Day()
	if p.Shape() != partial.Unresolved && (y < 1 || y > 9999) {
		return Result{}, perr.Wrapf(ErrInvalidDate, perr.ErrorCodeValidation, "year %d", y)
	}

	switch p.Shape() {
	case partial.Year:
		mid := ptime.Date(y, r.opt.MidMonth, r.opt.MidDay, loc)
		if mid.After(today) {
			return Result{Date: mid, Estimated: true}, nil
		}
		end, n := r.rollover(ptime.Date(y, time.December, 31, loc), today)
		return Result{Date: end, Estimated: true, Rollovers: n}, nil

	case partial.YearMonth:
		if m < time.January || m > time.December {
			return Result{}, perr.Wrapf(ErrInvalidDate, perr.ErrorCodeValidation, "%s: month %d", p, m)
		}
		end, n := r.rollover(ptime.EndOfMonth(y, m, loc), today)
		return Result{Date: end, Estimated: n > 0, Rollovers: n}, nil

	case partial.YearMonthDay:
		if !ptime.ValidDate(y, m, d) {
			return Result{}, perr.Wrapf(ErrInvalidDate, perr.ErrorCodeValidation, "%s", p)
		}
		return Result{Date: ptime.Date(y, m, d, loc)}, nil
	}

	return Result{}, ErrUnresolved
}

// rollover advances the month-end seed by the stride until it is on or after today
func (r *Resolver) rollover(seed, today time.Time) (time.Time, int) {
	n := 0
	for seed.Before(today) {
		seed = ptime.AddMonthsEnd(seed, r.opt.StrideMonths)
		n++
	}
	return seed, n
}
