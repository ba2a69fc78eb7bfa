// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"cngalcal/internal/core/version"
	"cngalcal/internal/modkit"
	"cngalcal/internal/modkit/httpkit"
	metahttp "cngalcal/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New constructs a meta module mounted under /meta unless opts say otherwise
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	deps = deps.WithDefaults()
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	// a typed nil TxRunner must stay an untyped nil so ready reports skipped
	var pg any
	if deps.PG != nil {
		pg = deps.PG
	}
	return &Module{
		b: b,
		deps: metahttp.Deps{
			ServiceName: version.Service,
			StartedAt:   deps.Clock.Now(),
			Clock:       deps.Clock,
			PG:          pg,
		},
	}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.Name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
