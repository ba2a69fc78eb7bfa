package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	perr "cngalcal/internal/platform/errors"
	"cngalcal/internal/platform/logger"
	"cngalcal/internal/services/releases/domain"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptRunner struct {
	mu    sync.Mutex
	calls atomic.Int32
	errs  []error
	gate  chan struct{}
}

func (s *scriptRunner) Run(context.Context) (domain.Batch, error) {
	n := int(s.calls.Add(1))
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= len(s.errs) && s.errs[n-1] != nil {
		return domain.Batch{}, s.errs[n-1]
	}
	return domain.Batch{RunID: "run", Fetched: n}, nil
}

func TestFeed_KeepsPreviousOnFailure(t *testing.T) {
	boom := perr.Unavailablef("upstream down")
	r := &scriptRunner{errs: []error{nil, boom}}
	f := NewFeed(r, clockwork.NewFakeClock(), 0, logger.Nop())

	_, err := f.Current()
	assert.ErrorIs(t, err, ErrNoBatch)

	b, err := f.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, b.Fetched)
	assert.NoError(t, f.LastError())

	_, err = f.Refresh(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, f.LastError(), boom)

	cur, err := f.Current()
	require.NoError(t, err)
	assert.Equal(t, 1, cur.Fetched, "failed refresh keeps the previous batch")
}

func TestFeed_ConcurrentRefreshShareOneRun(t *testing.T) {
	r := &scriptRunner{gate: make(chan struct{})}
	f := NewFeed(r, clockwork.NewFakeClock(), 0, logger.Nop())

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.Refresh(context.Background())
		}()
	}
	require.Eventually(t, func() bool { return r.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	close(r.gate)
	wg.Wait()

	assert.LessOrEqual(t, r.calls.Load(), int32(4))
	_, err := f.Current()
	assert.NoError(t, err)
}

func TestFeed_CanceledCallerDoesNotAbortRun(t *testing.T) {
	r := &scriptRunner{}
	f := NewFeed(r, clockwork.NewFakeClock(), 0, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Refresh(ctx)
	require.NoError(t, err)
}

func TestFeed_StartTicks(t *testing.T) {
	clock := clockwork.NewFakeClock()
	r := &scriptRunner{errs: []error{errors.New("first run fails")}}
	f := NewFeed(r, clock, time.Hour, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.Start(ctx)
		close(done)
	}()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	assert.EqualValues(t, 1, r.calls.Load())
	_, err := f.Current()
	assert.ErrorIs(t, err, ErrNoBatch)

	clock.Advance(time.Hour)
	require.Eventually(t, func() bool { return r.calls.Load() == 2 }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool {
		_, err := f.Current()
		return err == nil
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func TestFeed_StartWithoutInterval(t *testing.T) {
	r := &scriptRunner{}
	f := NewFeed(r, clockwork.NewFakeClock(), 0, logger.Nop())
	f.Start(context.Background())
	assert.EqualValues(t, 1, r.calls.Load())
}
