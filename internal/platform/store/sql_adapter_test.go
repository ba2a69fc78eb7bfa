package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"cngalcal/internal/platform/store/pg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recTracer struct{ events []pg.QueryEvent }

func (r *recTracer) OnQuery(_ context.Context, ev pg.QueryEvent) { r.events = append(r.events, ev) }

func TestNewTrace(t *testing.T) {
	rec := &recTracer{}
	tr := newTrace(rec, 0)
	boom := errors.New("boom")

	tr(context.Background(), "SELECT 1", []any{1}, time.Now(), boom)
	require.Len(t, rec.events, 1)
	assert.Equal(t, "SELECT 1", rec.events[0].SQL)
	assert.ErrorIs(t, rec.events[0].Err, boom)
	assert.True(t, rec.events[0].Slow, "0ms threshold marks everything slow")

	rec.events = nil
	newTrace(rec, -1)(context.Background(), "SELECT 1", nil, time.Now().Add(-time.Hour), nil)
	assert.False(t, rec.events[0].Slow, "negative threshold disables slow marking")

	// nil tracer is a no-op
	newTrace(nil, 0)(context.Background(), "SELECT 1", nil, time.Now(), nil)
}

type fakeRow struct{ err error }

func (f fakeRow) Scan(...any) error { return f.err }

func TestRowEmitsAfterScan(t *testing.T) {
	var got error
	called := false
	boom := errors.New("no rows")
	r := row{r: fakeRow{err: boom}, after: func(err error) { called = true; got = err }}

	assert.ErrorIs(t, r.Scan(), boom)
	assert.True(t, called)
	assert.ErrorIs(t, got, boom)
}
