// Package module wires the release pipeline from config
package module

import (
	"cngalcal/internal/adapters/export"
	"cngalcal/internal/adapters/ingest/cngal"
	"cngalcal/internal/core/datepack"
	"cngalcal/internal/core/normalize"
	"cngalcal/internal/core/resolve"
	"cngalcal/internal/modkit"
	"cngalcal/internal/modkit/httpkit"
	perr "cngalcal/internal/platform/errors"
	"cngalcal/internal/services/releases/domain"
	"cngalcal/internal/services/releases/repo"
	"cngalcal/internal/services/releases/service"
)

// Ports exposed by the releases module
type Ports struct {
	Pipeline domain.PipelinePort
	Service  *service.Service
}

// Module implements the releases module. It mounts no routes of its own;
// the API module serves its batches
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports Ports
}

// New builds the pipeline. It fails when the rules override or a format name is bad
func New(deps modkit.Deps, opts Options) (*Module, error) {
	deps = deps.WithDefaults()

	pack, err := loadPack(deps, opts)
	if err != nil {
		return nil, err
	}
	formats, err := opts.formats()
	if err != nil {
		return nil, err
	}

	client := cngal.NewClient(cngal.Options{
		BaseURL:    opts.SourceURL,
		SiteURL:    opts.SiteURL,
		Timeout:    opts.SourceTimeout,
		MaxRetries: opts.SourceRetries,
		Clock:      deps.Clock,
	})

	svc := service.New(service.Deps{
		Norm:   normalize.New(pack),
		Res:    resolve.New(resolve.Options{Location: opts.Location, StrideMonths: opts.StrideMonths}),
		Source: service.CnGalSource{Client: client},
		Sink: service.FileSink{
			Exporter: export.New(deps.Fs, opts.OutputDir, formats...),
			Site:     opts.SiteURL,
		},
		DB:     deps.PG,
		Binder: repo.NewPG(),
		Clock:  deps.Clock,
		Log:    deps.Log,
	})

	deps.Log.Debug().
		Int("rules", pack.RuleCount()).
		Ints("denylist", pack.DenylistSorted()).
		Str("out", opts.OutputDir).
		Bool("snapshots", deps.PG != nil).
		Msg("releases module ready")

	return &Module{
		deps:  deps,
		opts:  opts,
		ports: Ports{Pipeline: svc, Service: svc},
	}, nil
}

func loadPack(deps modkit.Deps, opts Options) (*datepack.Pack, error) {
	var (
		pack *datepack.Pack
		err  error
	)
	if opts.RulesFile != "" {
		pack, err = datepack.LoadFile(deps.Fs, opts.RulesFile)
	} else {
		pack, err = datepack.Load()
	}
	if err != nil {
		return nil, perr.Wrap(err, perr.CodeOf(err), "load rule pack")
	}
	return pack.WithDenylist(opts.Denylist...), nil
}

// Options returns the effective options
func (m *Module) Options() Options { return m.opts }

// Service returns the pipeline service
func (m *Module) Service() *service.Service { return m.ports.Service }

// Name satisfies modkit.Module
func (m *Module) Name() string { return "releases" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(httpkit.Router) {}
