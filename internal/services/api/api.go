// Package api provides the HTTP API for the application
package api

import (
	"cngalcal/internal/platform/config"
	phttp "cngalcal/internal/platform/net/http"

	"cngalcal/internal/modkit"
	"cngalcal/internal/modkit/httpkit"
	"cngalcal/internal/modkit/module"

	metamod "cngalcal/internal/services/api/meta/module"
	relapi "cngalcal/internal/services/api/releases/module"
	relmod "cngalcal/internal/services/releases/module"
)

// Options are the API options
type Options struct {
	Config   config.Conf
	Deps     modkit.Deps
	Releases *relmod.Module
}

// Mount installs the common stack on r, then every module under /api/v1.
// It returns the release API module so the caller can start its refresh loop
func Mount(r phttp.Router, opt Options) *relapi.Module {
	deps := opt.Deps.WithDefaults()
	ro := opt.Releases.Options()

	releases := relapi.New(deps, opt.Releases.Service(), ro.SiteURL, ro.Location, relapi.FromConfig(opt.Config))
	mods := []module.Module{
		metamod.New(deps),
		releases,
		opt.Releases,
	}

	r.Use(httpkit.CommonStack(httpkit.StackFromConfig(opt.Config))...)
	httpkit.MountAPIV1(r, nil, func(api httpkit.Router) {
		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})
	return releases
}
