// Package http provides meta endpoints
package http

import (
	"context"
	"net/http"
	"time"

	"cngalcal/internal/core/version"
	"cngalcal/internal/modkit/httpkit"

	"github.com/jonboulle/clockwork"
)

// Pinger is satisfied by stores that expose Ping
type Pinger interface {
	Ping(context.Context) error
}

// Deps are the handler dependencies. PG is nil when snapshots are disabled
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Clock       clockwork.Clock
	PG          any
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Clock == nil {
		d.Clock = clockwork.NewRealClock()
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // ok fail skipped unknown
	Error  string `json:"error,omitempty"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status"` // ok fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string            `json:"name"`
	Started string            `json:"started"`
	Uptime  int64             `json:"uptime"`
	Build   version.BuildInfo `json:"build"`
}

func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	pg := ReadyCheck{Name: "pg", Status: "skipped"}
	switch p := h.deps.PG.(type) {
	case nil:
	case Pinger:
		pg.Status = "ok"
		if err := p.Ping(ctx); err != nil {
			pg.Status, pg.Error = "fail", err.Error()
		}
	default:
		pg.Status = "unknown"
	}

	overall := "ok"
	if pg.Status == "fail" {
		overall = "fail"
	}
	return ReadyResponse{
		Status: overall,
		Checks: []ReadyCheck{pg},
		Now:    h.deps.Clock.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

func (h *handlers) service(_ *http.Request) (any, error) {
	uptime := h.deps.Clock.Since(h.deps.StartedAt)
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(uptime / time.Second),
		Build:   version.Info(),
	}, nil
}
