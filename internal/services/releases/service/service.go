// Package service runs the release pipeline: fetch, normalize, resolve, export and snapshot
package service

import (
	"context"
	stderrs "errors"
	"time"

	"cngalcal/internal/adapters/ingest/cngal"
	"cngalcal/internal/core/normalize"
	"cngalcal/internal/core/resolve"
	"cngalcal/internal/modkit/repokit"
	perr "cngalcal/internal/platform/errors"
	"cngalcal/internal/platform/logger"
	ptime "cngalcal/internal/platform/time"
	"cngalcal/internal/services/releases/domain"
	"cngalcal/internal/services/releases/repo"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Deps wires the service. Sink and DB are optional
type Deps struct {
	Norm   *normalize.Normalizer
	Res    *resolve.Resolver
	Source domain.Source
	Sink   domain.Sink

	// DB enables snapshots; nil keeps the run file only
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]

	Clock clockwork.Clock
	Log   *logger.Logger
}

// Service implements domain.PipelinePort
type Service struct {
	Norm   *normalize.Normalizer
	Res    *resolve.Resolver
	Source domain.Source
	Sink   domain.Sink
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
	Clock  clockwork.Clock

	log      logger.Logger
	validate *validator.Validate
}

var _ domain.PipelinePort = (*Service)(nil)

// New constructs the service. A nil Binder falls back to the postgres repo
func New(d Deps) *Service {
	if d.Clock == nil {
		d.Clock = clockwork.NewRealClock()
	}
	if d.Log == nil {
		d.Log = logger.Named("releases")
	}
	if d.Binder == nil {
		d.Binder = repo.NewPG()
	}
	if d.Res == nil {
		d.Res = resolve.New(resolve.Options{})
	}
	return &Service{
		Norm:     d.Norm,
		Res:      d.Res,
		Source:   d.Source,
		Sink:     d.Sink,
		DB:       d.DB,
		Binder:   d.Binder,
		Clock:    d.Clock,
		log:      *d.Log,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *Service) runLog(ctx context.Context) *logger.Logger {
	l := s.log
	if id := logger.RunID(ctx); id != "" {
		l = l.With().Str("run_id", id).Logger()
	}
	return &l
}

// Process runs every record through denylist, uniqueness, validation, normalize and resolve.
// Records fail alone; the batch always completes
func (s *Service) Process(ctx context.Context, now time.Time, in []domain.Input) domain.Batch {
	log := s.runLog(ctx)
	pack := s.Norm.Pack()

	b := domain.Batch{RunID: logger.RunID(ctx), Now: now, Fetched: len(in)}
	seen := make(map[int]struct{}, len(in))

	drop := func(x domain.Input, idx int, stage domain.Stage, err error) {
		b.Diagnostics = append(b.Diagnostics, domain.Diagnostic{
			Index: idx, Title: x.Title, Raw: x.Raw, Stage: stage, Err: err,
		})
		ev := log.Warn()
		if stage == domain.StageDenylist || stage == domain.StageDuplicate {
			ev = log.Debug()
		}
		ev.Err(err).Int("index", idx).Str("title", x.Title).Str("stage", string(stage)).Msg("release dropped")
	}

	for _, x := range in {
		idx := cngal.IndexFromURL(x.URL)

		if pack.Denied(idx) {
			drop(x, idx, domain.StageDenylist, perr.Newf(perr.ErrorCodeConflict, "index %d is denylisted", idx))
			continue
		}
		if _, dup := seen[idx]; dup {
			drop(x, idx, domain.StageDuplicate, perr.Newf(perr.ErrorCodeDuplicateKey, "index %d already seen", idx))
			continue
		}
		seen[idx] = struct{}{}

		rel := domain.Release{
			Index:       idx,
			Title:       x.Title,
			Raw:         x.Raw,
			Description: x.Description,
			URL:         x.URL,
		}
		if err := s.validate.Struct(rel); err != nil {
			drop(x, idx, domain.StageValidate, validationErr(err))
			continue
		}

		p, err := s.Norm.Normalize(x.Raw)
		if err != nil {
			drop(x, idx, domain.StageNormalize, err)
			continue
		}
		rel.Partial = p
		b.Releases = append(b.Releases, rel)
		if p.IsZero() {
			continue
		}

		res, err := s.Res.Resolve(p, now)
		if err != nil {
			drop(x, idx, domain.StageResolve, err)
			continue
		}

		desc := rel.Description
		if res.Estimated {
			desc = resolve.Annotate(desc, rel.Raw)
		}
		b.Events = append(b.Events, domain.Event{
			Index:       rel.Index,
			Title:       rel.Title,
			Raw:         rel.Raw,
			Partial:     p,
			Description: desc,
			URL:         rel.URL,
			Date:        res.Date,
			AllDay:      true,
			Estimated:   res.Estimated,
			Rollovers:   res.Rollovers,
		})
	}
	return b
}

func validationErr(err error) error {
	var ve validator.ValidationErrors
	if stderrs.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		return perr.WithField(
			perr.Wrapf(err, perr.ErrorCodeValidation, "%s failed %s", fe.Field(), fe.Tag()),
			fe.Field(),
		)
	}
	return perr.Wrap(err, perr.ErrorCodeValidation, "invalid release")
}

// Run fetches the listing once and carries the batch through exports and the snapshot store.
// A fetch or export failure fails the run; a snapshot failure is logged only
func (s *Service) Run(ctx context.Context) (domain.Batch, error) {
	runID := uuid.NewString()
	ctx = logger.WithRun(ctx, runID)
	log := s.runLog(ctx)
	now := s.Clock.Now()
	start := s.Clock.Now()

	in, err := s.Source.Fetch(ctx)
	if err != nil {
		log.Error().Err(err).Msg("fetch failed, run aborted")
		return domain.Batch{RunID: runID, Now: now}, perr.Wrap(err, perr.CodeOf(err), "fetch listing")
	}

	b := s.Process(ctx, now, in)
	b.RunID = runID

	if s.Sink != nil {
		files, err := s.Sink.Write(ctx, b)
		if err != nil {
			log.Error().Err(err).Msg("export failed")
			return b, err
		}
		log.Info().Strs("files", files).Msg("exports written")
	}

	if s.DB != nil {
		slips, err := s.snapshot(ctx, b)
		if err != nil {
			log.Warn().Err(err).Msg("snapshot skipped")
		}
		for _, sl := range slips {
			log.Info().
				Int("index", sl.Index).
				Str("title", sl.Title).
				Str("before", sl.Before).
				Str("after", sl.After).
				Msg("date slipped")
		}
	}

	sum := b.Summary()
	log.Info().
		Int("fetched", sum.Fetched).
		Int("releases", sum.Releases).
		Int("events", sum.Events).
		Int("estimated", sum.Estimated).
		Int("unresolved", sum.Unresolved).
		Int("dropped", len(b.Diagnostics)).
		Dur("took", s.Clock.Since(start)).
		Msg("run complete")
	return b, nil
}

// Preview interprets one phrase the way Process would, without a record around it
func (s *Service) Preview(phrase string, now time.Time) (domain.Preview, error) {
	p, err := s.Norm.Normalize(phrase)
	if err != nil {
		return domain.Preview{}, err
	}
	pv := domain.Preview{Raw: phrase, Partial: p.String(), Shape: p.Shape().String()}
	if p.IsZero() {
		return pv, nil
	}
	res, err := s.Res.Resolve(p, now)
	if err != nil {
		return domain.Preview{}, err
	}
	pv.Resolved = ptime.Ptr(res.Date)
	pv.Estimated = res.Estimated
	pv.Rollovers = res.Rollovers
	if res.Estimated {
		pv.Note = resolve.Note(phrase)
	}
	return pv, nil
}
