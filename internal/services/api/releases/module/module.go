// Package module mounts the release routes and owns the refreshing feed
package module

import (
	"time"

	"cngalcal/internal/modkit"
	"cngalcal/internal/modkit/httpkit"
	"cngalcal/internal/platform/config"
	relhttp "cngalcal/internal/services/api/releases/http"
	"cngalcal/internal/services/api/releases/service"
	reldomain "cngalcal/internal/services/releases/domain"
)

// Ports exposed by the release API module
type Ports struct {
	Feed *service.Feed
}

// Options holds configuration settings for the release API
type Options struct {
	Refresh time.Duration
}

// FromConfig reads API_REFRESH under cfg; zero disables the periodic refresh
func FromConfig(cfg config.Conf) Options {
	return Options{Refresh: cfg.MayDuration("API_REFRESH", 6*time.Hour)}
}

// Module implements modkit.Module
type Module struct {
	b     modkit.Built
	ports Ports
	deps  relhttp.Deps
}

// New builds the module around the pipeline; site and loc shape exports and previews
func New(deps modkit.Deps, pipeline reldomain.PipelinePort, site string, loc *time.Location, opts Options, mo ...modkit.Option) *Module {
	deps = deps.WithDefaults()
	b := modkit.Build(append([]modkit.Option{modkit.WithName("releases-api")}, mo...)...)

	feed := service.NewFeed(pipeline, deps.Clock, opts.Refresh, deps.Log)
	return &Module{
		b:     b,
		ports: Ports{Feed: feed},
		deps: relhttp.Deps{
			Feed:      feed,
			Previewer: pipeline,
			Site:      site,
			Clock:     deps.Clock,
			Location:  loc,
		},
	}
}

// Feed returns the batch cache
func (m *Module) Feed() *service.Feed { return m.ports.Feed }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { relhttp.Register(rr, m.deps) })
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.b.Name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }
