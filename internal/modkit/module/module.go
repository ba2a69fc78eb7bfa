// Package module holds the minimal module contract plus port lookup helpers
package module

import "cngalcal/internal/modkit/httpkit"

// Module mirrors modkit.Module; kept here so port helpers avoid an import knot
type Module interface {
	MountRoutes(r httpkit.Router)
	Ports() any
	Name() string
}
