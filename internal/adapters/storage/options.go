package storage

import (
	"time"

	"github.com/okian/scoreboard/pkg/logger"
)

const defaultDialTimeout = 10 * time.Second

type settings struct {
	dialTimeout time.Duration
	logger      logger.Logger
}

// Option configures a Connector.
type Option func(*settings)

// WithDialTimeout bounds a single connection establishment attempt.
func WithDialTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.dialTimeout = d
		}
	}
}

// WithLogger sets the logger used to report connection attempts.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}
