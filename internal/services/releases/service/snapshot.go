package service

import (
	"context"

	"cngalcal/internal/modkit/repokit"
	perr "cngalcal/internal/platform/errors"
	"cngalcal/internal/services/releases/domain"
	"cngalcal/internal/services/releases/repo"
)

// ErrNoStore is returned by store operations when postgres is disabled
var ErrNoStore = perr.New(perr.ErrorCodeUnavailable, "snapshot store disabled")

// Migrate creates the snapshot table. It is a no-op without a store
func (s *Service) Migrate(ctx context.Context) error {
	if s.DB == nil {
		return nil
	}
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).EnsureSchema(ctx)
	})
	return perr.FromPostgres(err, "ensure release_snapshots")
}

// Changed returns the releases whose raw phrase differs from the stored one.
// Releases never stored before are not slips
func (s *Service) Changed(ctx context.Context, rels []domain.Release) ([]domain.Slip, error) {
	if s.DB == nil {
		return nil, ErrNoStore
	}
	var out []domain.Slip
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = slips(ctx, s.Binder.Bind(q), rels)
		return err
	})
	return out, perr.FromPostgres(err, "compare release phrases")
}

// snapshot compares then upserts in one transaction so the comparison sees the prior run
func (s *Service) snapshot(ctx context.Context, b domain.Batch) ([]domain.Slip, error) {
	var out []domain.Slip
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		st := s.Binder.Bind(q)
		var err error
		if out, err = slips(ctx, st, b.Releases); err != nil {
			return err
		}
		_, err = st.Upsert(ctx, b.Events, b.Now)
		return err
	})
	if err != nil {
		return nil, perr.FromPostgres(err, "snapshot releases")
	}
	return out, nil
}

func slips(ctx context.Context, st repo.Storage, rels []domain.Release) ([]domain.Slip, error) {
	if len(rels) == 0 {
		return nil, nil
	}
	ids := make([]int, len(rels))
	for i, r := range rels {
		ids[i] = r.Index
	}
	stored, err := st.Phrases(ctx, ids)
	if err != nil {
		return nil, err
	}
	var out []domain.Slip
	for _, r := range rels {
		before, ok := stored[r.Index]
		if !ok || before == r.Raw {
			continue
		}
		out = append(out, domain.Slip{Index: r.Index, Title: r.Title, Before: before, After: r.Raw})
	}
	return out, nil
}
