package store

import (
	"context"
	"errors"
	"time"

	"cngalcal/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgAdapter wraps pg.PG as a TxRunner and traces every statement when a tracer is set
type pgAdapter struct {
	p *pg.PG
	t traceFn
}

func newPGAdapter(p *pg.PG) *pgAdapter {
	return &pgAdapter{p: p, t: newTrace(p.Tracer, p.SlowMs)}
}

func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil || a.p == nil {
		return errors.New("pg: nil adapter")
	}
	return a.p.Ping(ctx)
}

func (a *pgAdapter) Close() error { a.p.Close(); return nil }

func (a *pgAdapter) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return execTraced(ctx, a.p.Pool, a.t, sql, args)
}

func (a *pgAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return queryTraced(ctx, a.p.Pool, a.t, sql, args)
}

func (a *pgAdapter) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return queryRowTraced(ctx, a.p.Pool, a.t, sql, args)
}

func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.p.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(txQuerier{tx: tx, t: a.t}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// txQuerier is the RowQuerier handed to Tx callbacks
type txQuerier struct {
	tx pgx.Tx
	t  traceFn
}

func (q txQuerier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return execTraced(ctx, q.tx, q.t, sql, args)
}

func (q txQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return queryTraced(ctx, q.tx, q.t, sql, args)
}

func (q txQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return queryRowTraced(ctx, q.tx, q.t, sql, args)
}

// pgxQuerier is what pgxpool.Pool and pgx.Tx have in common
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type traceFn func(ctx context.Context, sql string, args []any, start time.Time, err error)

// newTrace returns a no-op when tracer is nil. slowMs < 0 disables slow marking
func newTrace(tracer pg.QueryTracer, slowMs int) traceFn {
	if tracer == nil {
		return func(context.Context, string, []any, time.Time, error) {}
	}
	slowUS := int64(slowMs) * 1000
	return func(ctx context.Context, sql string, args []any, start time.Time, err error) {
		elapsedUS := time.Since(start).Microseconds()
		tracer.OnQuery(ctx, pg.QueryEvent{
			SQL:       sql,
			Args:      args,
			ElapsedUS: elapsedUS,
			Err:       err,
			Slow:      slowUS >= 0 && elapsedUS >= slowUS,
		})
	}
}

func execTraced(ctx context.Context, q pgxQuerier, t traceFn, sql string, args []any) (CommandTag, error) {
	start := time.Now()
	ct, err := q.Exec(ctx, sql, args...)
	t(ctx, sql, args, start, err)
	return tag{ct}, err
}

func queryTraced(ctx context.Context, q pgxQuerier, t traceFn, sql string, args []any) (Rows, error) {
	start := time.Now()
	rs, err := q.Query(ctx, sql, args...)
	t(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

// queryRowTraced emits after Scan so the event carries the scan error
func queryRowTraced(ctx context.Context, q pgxQuerier, t traceFn, sql string, args []any) Row {
	start := time.Now()
	return row{
		r:     q.QueryRow(ctx, sql, args...),
		after: func(err error) { t(ctx, sql, args, start, err) },
	}
}

type row struct {
	r     pgx.Row
	after func(error)
}

func (x row) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	if x.after != nil {
		x.after(err)
	}
	return err
}

// tag wraps pgconn.CommandTag, which is a struct, behind CommandTag
type tag struct{ t pgconn.CommandTag }

func (t tag) String() string      { return t.t.String() }
func (t tag) RowsAffected() int64 { return t.t.RowsAffected() }
