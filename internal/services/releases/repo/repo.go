// Package repo persists release snapshots in Postgres
package repo

import (
	"context"
	"time"

	"cngalcal/internal/modkit/repokit"
	"cngalcal/internal/platform/store"
	"cngalcal/internal/services/releases/domain"
)

// Storage is the snapshot surface the service binds per transaction
type Storage interface {
	// EnsureSchema creates the snapshot table when missing
	EnsureSchema(ctx context.Context) error
	// Phrases returns the last stored raw phrase for each known index
	Phrases(ctx context.Context, indices []int) (map[int]string, error)
	// Upsert stores one row per event, replacing older rows for the same index
	Upsert(ctx context.Context, events []domain.Event, seenAt time.Time) (int64, error)
}

type pgRepo struct{ q repokit.Queryer }

// NewPG returns a binder for the postgres implementation
func NewPG() repokit.Binder[Storage] {
	return repokit.BindFunc[Storage](func(q repokit.Queryer) Storage { return &pgRepo{q: q} })
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS release_snapshots (
	release_index integer     PRIMARY KEY,
	title         text        NOT NULL,
	raw_phrase    text        NOT NULL,
	partial_date  text        NOT NULL,
	resolved_date date        NOT NULL,
	estimated     boolean     NOT NULL,
	seen_at       timestamptz NOT NULL
)`

func (r *pgRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.q.Exec(ctx, schemaSQL)
	return err
}

const phrasesSQL = `
SELECT release_index, raw_phrase
FROM release_snapshots
WHERE release_index = ANY($1::int[])`

func (r *pgRepo) Phrases(ctx context.Context, indices []int) (map[int]string, error) {
	out := make(map[int]string, len(indices))
	if len(indices) == 0 {
		return out, nil
	}
	ids := make([]int32, len(indices))
	for i, v := range indices {
		ids[i] = int32(v)
	}
	type pair struct {
		idx int32
		raw string
	}
	rows, err := store.Many(ctx, r.q, func(row store.Row) (pair, error) {
		var p pair
		err := row.Scan(&p.idx, &p.raw)
		return p, err
	}, phrasesSQL, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[int(p.idx)] = p.raw
	}
	return out, nil
}

const upsertSQL = `
INSERT INTO release_snapshots
	(release_index, title, raw_phrase, partial_date, resolved_date, estimated, seen_at)
SELECT u.idx, u.title, u.raw, u.part, u.resolved, u.est, $7
FROM unnest($1::int[], $2::text[], $3::text[], $4::text[], $5::date[], $6::bool[])
	AS u(idx, title, raw, part, resolved, est)
ON CONFLICT (release_index) DO UPDATE SET
	title         = EXCLUDED.title,
	raw_phrase    = EXCLUDED.raw_phrase,
	partial_date  = EXCLUDED.partial_date,
	resolved_date = EXCLUDED.resolved_date,
	estimated     = EXCLUDED.estimated,
	seen_at       = EXCLUDED.seen_at`

func (r *pgRepo) Upsert(ctx context.Context, events []domain.Event, seenAt time.Time) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}
	n := len(events)
	var (
		idx      = make([]int32, n)
		titles   = make([]string, n)
		raws     = make([]string, n)
		partials = make([]string, n)
		dates    = make([]time.Time, n)
		est      = make([]bool, n)
	)
	for i, e := range events {
		idx[i] = int32(e.Index)
		titles[i] = e.Title
		raws[i] = e.Raw
		partials[i] = e.Partial.String()
		dates[i] = e.Date
		est[i] = e.Estimated
	}
	tag, err := r.q.Exec(ctx, upsertSQL, idx, titles, raws, partials, dates, est, seenAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
