package domain

import (
	"context"
	"time"
)

// Source fetches the raw listing
type Source interface {
	Fetch(ctx context.Context) ([]Input, error)
}

// Sink persists a processed batch, e.g. as files. It returns what it wrote
type Sink interface {
	Write(ctx context.Context, b Batch) ([]string, error)
}

// PipelinePort is what transports and the CLI drive
type PipelinePort interface {
	// Process runs the per record pipeline on already fetched inputs
	Process(ctx context.Context, now time.Time, in []Input) Batch
	// Run fetches, processes, writes and snapshots once
	Run(ctx context.Context) (Batch, error)
	// Preview interprets one phrase against now
	Preview(phrase string, now time.Time) (Preview, error)
}
