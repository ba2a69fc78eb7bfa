// Package service keeps the last completed release batch for the API and refreshes it
package service

import (
	"context"
	"sync/atomic"
	"time"

	perr "cngalcal/internal/platform/errors"
	"cngalcal/internal/platform/logger"
	"cngalcal/internal/services/releases/domain"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"
)

// ErrNoBatch is returned before the first successful refresh
var ErrNoBatch = perr.New(perr.ErrorCodeUnavailable, "no release batch yet")

// Runner produces one batch; the releases pipeline satisfies it
type Runner interface {
	Run(ctx context.Context) (domain.Batch, error)
}

// Feed serves the last good batch. A failed refresh keeps the previous one
type Feed struct {
	run   Runner
	clock clockwork.Clock
	every time.Duration
	log   logger.Logger

	cur     atomic.Pointer[domain.Batch]
	lastErr atomic.Pointer[error]
	sf      singleflight.Group
}

// NewFeed builds a Feed; every <= 0 disables the periodic loop in Start
func NewFeed(run Runner, clock clockwork.Clock, every time.Duration, log *logger.Logger) *Feed {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = logger.Named("feed")
	}
	return &Feed{run: run, clock: clock, every: every, log: *log}
}

// Current returns the last good batch
func (f *Feed) Current() (domain.Batch, error) {
	b := f.cur.Load()
	if b == nil {
		return domain.Batch{}, ErrNoBatch
	}
	return *b, nil
}

// LastError is the error of the most recent refresh, nil after a success
func (f *Feed) LastError() error {
	if p := f.lastErr.Load(); p != nil {
		return *p
	}
	return nil
}

// Refresh runs the pipeline once. Concurrent callers share a single run, which is
// detached from the caller's cancellation so one dropped request does not abort it
func (f *Feed) Refresh(ctx context.Context) (domain.Batch, error) {
	v, err, _ := f.sf.Do("refresh", func() (any, error) {
		b, err := f.run.Run(context.WithoutCancel(ctx))
		if err != nil {
			f.lastErr.Store(&err)
			f.log.Warn().Err(err).Bool("has_previous", f.cur.Load() != nil).Msg("refresh failed, keeping previous batch")
			return nil, err
		}
		f.cur.Store(&b)
		f.lastErr.Store(nil)
		return b, nil
	})
	if err != nil {
		return domain.Batch{}, err
	}
	return v.(domain.Batch), nil
}

// Start refreshes immediately, then on every tick until ctx is done
func (f *Feed) Start(ctx context.Context) {
	_, _ = f.Refresh(ctx)
	if f.every <= 0 {
		return
	}
	t := f.clock.NewTicker(f.every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.Chan():
			_, _ = f.Refresh(ctx)
		}
	}
}
