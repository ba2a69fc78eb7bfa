// Package http serves the release batch, its exports and the phrase preview
package http

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"cngalcal/internal/adapters/export"
	"cngalcal/internal/modkit/httpkit"
	"cngalcal/internal/platform/net/http/bind"
	"cngalcal/internal/services/releases/domain"
	relsvc "cngalcal/internal/services/releases/service"

	"github.com/jonboulle/clockwork"
)

// BatchSource is the batch cache the handlers read from
type BatchSource interface {
	Current() (domain.Batch, error)
	Refresh(ctx context.Context) (domain.Batch, error)
}

// Previewer interprets a single phrase
type Previewer interface {
	Preview(phrase string, now time.Time) (domain.Preview, error)
}

// Deps are the handler dependencies
type Deps struct {
	Feed      BatchSource
	Previewer Previewer
	Site      string
	Clock     clockwork.Clock
	Location  *time.Location
}

type handlers struct {
	deps Deps
}

// Register mounts the release routes
func Register(r httpkit.Router, d Deps) {
	if d.Clock == nil {
		d.Clock = clockwork.NewRealClock()
	}
	if d.Location == nil {
		d.Location = time.UTC
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/releases", h.list)
	httpkit.Post(r, "/releases/refresh", h.refresh)
	httpkit.GetRaw(r, "/releases/calendar.ics", h.document(export.FormatICS))
	httpkit.GetRaw(r, "/releases/feed.atom", h.document(export.FormatAtom))
	for _, f := range export.AllFormats {
		httpkit.GetRaw(r, "/releases/files/"+f.Filename(), h.document(f))
	}
	httpkit.PostJSON(r, "/dates/normalize", h.normalize)
}

// EventDTO is one resolved release on the wire
type EventDTO struct {
	Index        int    `json:"index"`
	Title        string `json:"title"`
	RawDate      string `json:"raw_date"`
	PartialDate  string `json:"partial_date"`
	ResolvedDate string `json:"resolved_date"`
	Estimated    bool   `json:"estimated"`
	Rollovers    int    `json:"rollovers"`
	URL          string `json:"url"`
	Description  string `json:"description"`
}

// DiagnosticDTO is one dropped record on the wire
type DiagnosticDTO struct {
	Index   int    `json:"index"`
	Title   string `json:"title"`
	RawDate string `json:"raw_date"`
	Stage   string `json:"stage"`
	Error   string `json:"error"`
}

// ListResponse is the current batch
type ListResponse struct {
	Summary     domain.Summary  `json:"summary"`
	Events      []EventDTO      `json:"events"`
	Diagnostics []DiagnosticDTO `json:"diagnostics"`
}

func (h *handlers) list(_ *http.Request) (any, error) {
	b, err := h.deps.Feed.Current()
	if err != nil {
		return nil, err
	}
	out := ListResponse{
		Summary:     b.Summary(),
		Events:      make([]EventDTO, len(b.Events)),
		Diagnostics: make([]DiagnosticDTO, len(b.Diagnostics)),
	}
	for i, e := range b.Events {
		out.Events[i] = EventDTO{
			Index:        e.Index,
			Title:        e.Title,
			RawDate:      e.Raw,
			PartialDate:  e.Partial.String(),
			ResolvedDate: e.Date.Format(time.DateOnly),
			Estimated:    e.Estimated,
			Rollovers:    e.Rollovers,
			URL:          e.URL,
			Description:  e.Description,
		}
	}
	for i, d := range b.Diagnostics {
		out.Diagnostics[i] = DiagnosticDTO{
			Index:   d.Index,
			Title:   d.Title,
			RawDate: d.Raw,
			Stage:   string(d.Stage),
			Error:   d.Message(),
		}
	}
	return out, nil
}

func (h *handlers) refresh(r *http.Request) (any, error) {
	b, err := h.deps.Feed.Refresh(r.Context())
	if err != nil {
		return nil, err
	}
	return b.Summary(), nil
}

func (h *handlers) document(f export.Format) func(*http.Request) (httpkit.Raw, error) {
	return func(*http.Request) (httpkit.Raw, error) {
		b, err := h.deps.Feed.Current()
		if err != nil {
			return httpkit.Raw{}, err
		}
		var buf bytes.Buffer
		if err := export.Encode(&buf, f, relsvc.ToSnapshot(b, h.deps.Site)); err != nil {
			return httpkit.Raw{}, err
		}
		return httpkit.Raw{ContentType: f.ContentType(), Filename: f.Filename(), Body: buf.Bytes()}, nil
	}
}

// NormalizeRequest asks for the interpretation of one phrase; Now defaults to the server clock
type NormalizeRequest struct {
	Phrase string `json:"phrase" validate:"required,max=200"`
	Now    string `json:"now,omitempty" validate:"omitempty,instant"`
}

func (h *handlers) normalize(_ *http.Request, in NormalizeRequest) (any, error) {
	now := h.deps.Clock.Now()
	if in.Now != "" {
		t, err := bind.ParseInstant(in.Now, h.deps.Location)
		if err != nil {
			return nil, err
		}
		now = t
	}
	return h.deps.Previewer.Preview(in.Phrase, now)
}
