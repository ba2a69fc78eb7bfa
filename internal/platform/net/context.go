// Package net carries request scoped ids shared by the transports
package net

import (
	"context"

	"cngalcal/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// WithRequest annotates ctx with a request id visible to chi helpers and the logger
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	return logger.WithRequest(ctx, reqID)
}

// RequestID returns the request id on ctx if present
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// RunID returns the id of the pipeline run that produced the served batch, if any
func RunID(ctx context.Context) string {
	return logger.RunID(ctx)
}
