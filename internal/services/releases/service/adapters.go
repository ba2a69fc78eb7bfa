package service

import (
	"context"
	"time"

	"cngalcal/internal/adapters/export"
	"cngalcal/internal/adapters/ingest/cngal"
	"cngalcal/internal/services/releases/domain"
)

// Lister is the part of the cngal client the source needs
type Lister interface {
	ListUpcoming(ctx context.Context) ([]cngal.Game, error)
}

// CnGalSource adapts the listing client to domain.Source
type CnGalSource struct {
	Client Lister
}

// Fetch implements domain.Source
func (c CnGalSource) Fetch(ctx context.Context) ([]domain.Input, error) {
	games, err := c.Client.ListUpcoming(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Input, len(games))
	for i, g := range games {
		u := g.Link
		if u == "" {
			u = g.URL
		}
		out[i] = domain.Input{
			URL:         u,
			Title:       g.Name,
			Raw:         g.PublishTime,
			Description: g.BriefIntroduction,
		}
	}
	return out, nil
}

// ToSnapshot maps the events of a batch into the export model
func ToSnapshot(b domain.Batch, site string) export.Snapshot {
	entries := make([]export.Entry, len(b.Events))
	for i, e := range b.Events {
		entries[i] = export.Entry{
			Index:       e.Index,
			Title:       e.Title,
			Raw:         e.Raw,
			Partial:     e.Partial.String(),
			URL:         e.URL,
			Description: e.Description,
			Date:        e.Date,
			Estimated:   e.Estimated,
		}
	}
	now := b.Now
	if now.IsZero() {
		now = time.Now()
	}
	return export.Snapshot{Now: now, Site: site, Entries: entries}
}

// FileSink writes every batch through an export.Exporter
type FileSink struct {
	Exporter *export.Exporter
	Site     string
}

// Write implements domain.Sink
func (f FileSink) Write(ctx context.Context, b domain.Batch) ([]string, error) {
	return f.Exporter.Export(ctx, ToSnapshot(b, f.Site))
}
