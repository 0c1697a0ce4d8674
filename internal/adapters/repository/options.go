package repository

import (
	"time"

	"github.com/okian/scoreboard/pkg/logger"
)

// Option applies a configuration option to the Repository.
type Option func(*Repository)

// WithClock sets the time source used to stamp new records.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// OpenOption configures the store built by Open.
type OpenOption func(*openSettings)

type openSettings struct {
	logger      logger.Logger
	dialTimeout time.Duration
}

// WithLogger sets the logger handed to the store connector.
func WithLogger(l logger.Logger) OpenOption {
	return func(s *openSettings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDialTimeout bounds a single connection establishment attempt.
func WithDialTimeout(d time.Duration) OpenOption {
	return func(s *openSettings) {
		if d > 0 {
			s.dialTimeout = d
		}
	}
}
