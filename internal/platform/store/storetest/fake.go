// Package storetest provides an in-memory store.TxRunner for repository tests
package storetest

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"cngalcal/internal/platform/store"
)

// Call records one statement
type Call struct {
	SQL  string
	Args []any
}

// DB is a scripted TxRunner. Queued results are consumed in order by Query and QueryRow;
// Exec always succeeds unless ExecErr is set
type DB struct {
	mu       sync.Mutex
	Calls    []Call
	Results  [][][]any
	ExecErr  error
	QueryErr error
	TxCount  int
	affected int64
}

var _ store.TxRunner = (*DB)(nil)

// Push queues the rows returned by the next Query or QueryRow
func (d *DB) Push(rows ...[]any) *DB {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Results = append(d.Results, rows)
	return d
}

// Affect sets the RowsAffected reported by Exec
func (d *DB) Affect(n int64) *DB {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.affected = n
	return d
}

func (d *DB) record(sql string, args []any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls = append(d.Calls, Call{SQL: sql, Args: args})
}

func (d *DB) next() [][]any {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.Results) == 0 {
		return nil
	}
	r := d.Results[0]
	d.Results = d.Results[1:]
	return r
}

// Exec records the statement
func (d *DB) Exec(_ context.Context, sql string, args ...any) (store.CommandTag, error) {
	d.record(sql, args)
	if d.ExecErr != nil {
		return nil, d.ExecErr
	}
	return Tag{N: d.affected}, nil
}

// Query returns the next queued result set
func (d *DB) Query(_ context.Context, sql string, args ...any) (store.Rows, error) {
	d.record(sql, args)
	if d.QueryErr != nil {
		return nil, d.QueryErr
	}
	return &Rows{data: d.next(), pos: -1}, nil
}

// QueryRow returns the first row of the next queued result set
func (d *DB) QueryRow(ctx context.Context, sql string, args ...any) store.Row {
	rs, err := d.Query(ctx, sql, args...)
	if err != nil {
		return errRow{err}
	}
	r := rs.(*Rows)
	if !r.Next() {
		return errRow{store.ErrNotFound}
	}
	return r
}

// Tx runs fn against the same fake
func (d *DB) Tx(_ context.Context, fn func(q store.RowQuerier) error) error {
	d.mu.Lock()
	d.TxCount++
	d.mu.Unlock()
	return fn(d)
}

// Tag is a fixed CommandTag
type Tag struct{ N int64 }

func (t Tag) String() string      { return fmt.Sprintf("FAKE %d", t.N) }
func (t Tag) RowsAffected() int64 { return t.N }

// Rows iterates queued values and assigns them into Scan targets by reflection
type Rows struct {
	data [][]any
	pos  int
}

func (r *Rows) Next() bool {
	r.pos++
	return r.pos < len(r.data)
}

func (r *Rows) Scan(dest ...any) error {
	if r.pos < 0 || r.pos >= len(r.data) {
		return fmt.Errorf("storetest: scan out of range")
	}
	row := r.data[r.pos]
	if len(row) != len(dest) {
		return fmt.Errorf("storetest: %d values for %d targets", len(row), len(dest))
	}
	for i, v := range row {
		dv := reflect.ValueOf(dest[i])
		if dv.Kind() != reflect.Pointer || dv.IsNil() {
			return fmt.Errorf("storetest: target %d is not a pointer", i)
		}
		if v == nil {
			dv.Elem().Set(reflect.Zero(dv.Elem().Type()))
			continue
		}
		sv := reflect.ValueOf(v)
		if !sv.Type().AssignableTo(dv.Elem().Type()) {
			return fmt.Errorf("storetest: cannot assign %T to %s", v, dv.Elem().Type())
		}
		dv.Elem().Set(sv)
	}
	return nil
}

func (r *Rows) Err() error { return nil }
func (r *Rows) Close()     {}

type errRow struct{ err error }

func (e errRow) Scan(...any) error { return e.err }
