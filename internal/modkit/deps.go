// Package modkit wires shared dependencies into feature modules
package modkit

import (
	"cngalcal/internal/modkit/repokit"
	"cngalcal/internal/platform/config"
	"cngalcal/internal/platform/logger"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
)

// Deps holds the dependencies every module may draw from. It is wiring only
type Deps struct {
	Log   *logger.Logger
	Cfg   config.Conf
	PG    repokit.TxRunner // nil when postgres is disabled
	Fs    afero.Fs
	Clock clockwork.Clock
}

// WithDefaults fills zero fields so modules built in tests need no setup
func (d Deps) WithDefaults() Deps {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Fs == nil {
		d.Fs = afero.NewOsFs()
	}
	if d.Clock == nil {
		d.Clock = clockwork.NewRealClock()
	}
	return d
}
