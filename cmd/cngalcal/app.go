package main

import (
	"context"
	"io"
	"time"

	"cngalcal/internal/modkit"
	"cngalcal/internal/platform/config"
	"cngalcal/internal/platform/logger"
	"cngalcal/internal/platform/net/http/bind"
	"cngalcal/internal/platform/store"
	relmod "cngalcal/internal/services/releases/module"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
)

// app carries the global flags and the seams tests replace
type app struct {
	cfg config.Conf
	fs  afero.Fs
	log io.Writer

	now   string
	rules string
	out   string
}

func newApp() *app {
	return &app{cfg: config.New().Prefix("CNGAL_"), fs: afero.NewOsFs()}
}

// initLogger runs once per process; LOG_* keys apply
func (a *app) initLogger() {
	opt := logger.FromEnv()
	if a.log != nil {
		opt.Writer = a.log
	}
	logger.Init(opt)
}

// clock is pinned to --now when given so a run can be reproduced
func (a *app) clock(loc *time.Location) (clockwork.Clock, error) {
	if a.now == "" {
		return clockwork.NewRealClock(), nil
	}
	t, err := bind.ParseInstant(a.now, loc)
	if err != nil {
		return nil, err
	}
	return clockwork.NewFakeClockAt(t), nil
}

// env is everything a command needs; Close releases the store
type env struct {
	deps     modkit.Deps
	releases *relmod.Module
	store    *store.Store
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.deps.Log.Error().Err(err).Msg("failed to close store")
	}
}

// build opens the optional store and wires the pipeline. withStore false skips postgres
func (a *app) build(ctx context.Context, withStore bool) (*env, error) {
	log := logger.Get()

	opts := relmod.FromConfig(a.cfg)
	if a.rules != "" {
		opts.RulesFile = a.rules
	}
	if a.out != "" {
		opts.OutputDir = a.out
	}
	clock, err := a.clock(opts.Location)
	if err != nil {
		return nil, err
	}

	st := &store.Store{}
	if withStore {
		st, err = store.Open(ctx, store.ConfigFromEnv(a.cfg), store.WithLogger(*log))
		if err != nil {
			return nil, err
		}
	}

	deps := modkit.Deps{Log: logger.Named("releases"), Cfg: a.cfg, Fs: a.fs, Clock: clock}
	if st.Enabled() {
		deps.PG = st.PG
	}

	rel, err := relmod.New(deps, opts)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	if err := rel.Service().Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return &env{deps: deps, releases: rel, store: st}, nil
}
