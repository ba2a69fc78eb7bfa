package store

import (
	"cngalcal/internal/platform/logger"

	"github.com/jonboulle/clockwork"
)

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger sets the logger used by subclients
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// WithClock sets the clock that paces connect retries
func WithClock(c clockwork.Clock) Option {
	return func(s *Store) error {
		s.clock = c
		return nil
	}
}
