// Package service wires the leaderboard repository to its backing store and
// implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/okian/scoreboard/internal/adapters/repository"
	"github.com/okian/scoreboard/internal/config"
	"github.com/okian/scoreboard/internal/domain/model"
	"github.com/okian/scoreboard/pkg/logger"
)

// ErrNotStarted is returned by store operations before Start.
var ErrNotStarted = errors.New("leaderboard service not started")

// Service implements the API dependencies for the leaderboard.
type Service struct {
	mu sync.RWMutex

	repo  *repository.Repository
	store repository.Store

	// Configuration
	databaseURL  string
	storeTimeout time.Duration
	dialTimeout  time.Duration
	now          func() time.Time

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDatabaseURL sets the backing store connection string.
func WithDatabaseURL(url string) Option {
	return func(s *Service) {
		if url != "" {
			s.databaseURL = url
		}
	}
}

// WithStoreTimeout bounds every store read and write.
func WithStoreTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.storeTimeout = d
		}
	}
}

// WithDialTimeout bounds a single connection establishment attempt.
func WithDialTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.dialTimeout = d
		}
	}
}

// WithClock sets the time source used to stamp new records.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStore uses store instead of opening one from the database URL.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		databaseURL:  config.DefaultDatabaseURL,
		storeTimeout: 5 * time.Second,
		dialTimeout:  10 * time.Second,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the repository. The store connects lazily on first use, so
// Start succeeds even while the backing store is unreachable.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	store := s.store
	if store == nil {
		var err error
		store, err = repository.Open(s.databaseURL,
			repository.WithLogger(s.logger.Named("store")),
			repository.WithDialTimeout(s.dialTimeout),
		)
		if err != nil {
			return err
		}
		s.store = store
	}
	s.repo = repository.New(store, repository.WithClock(s.now))
	s.started = true

	s.logger.Info(ctx, "leaderboard service started",
		logger.String("backend", store.Backend()),
		logger.Duration("storeTimeout", s.storeTimeout),
		logger.Int("topLimit", repository.TopLimit),
	)
	return nil
}

// Stop closes the backing store.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if err := s.repo.Close(ctx); err != nil {
		s.logger.Warn(ctx, "closing store failed", logger.Error(err))
	}
	s.started = false
	s.store = nil
	s.logger.Info(ctx, "leaderboard service stopped")
}

func (s *Service) repository() (*repository.Repository, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.repo, nil
}

// ListTop returns the leaderboard: the TopLimit highest scores.
func (s *Service) ListTop(ctx context.Context) ([]model.ScoreRecord, error) {
	repo, err := s.repository()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return repo.ListTop(ctx, repository.TopLimit)
}

// Submit persists a validated score and returns the stored record.
func (s *Service) Submit(ctx context.Context, name string, score float64) (model.ScoreRecord, error) {
	repo, err := s.repository()
	if err != nil {
		return model.ScoreRecord{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return repo.Append(ctx, name, score)
}

// Ready reports whether the backing store connection is established.
func (s *Service) Ready() bool {
	repo, err := s.repository()
	if err != nil {
		return false
	}
	return repo.Ready()
}

// GetStats returns service statistics for monitoring. The record count is
// only queried once the store is connected so /stats never triggers a dial.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	stats := map[string]any{
		"started":  false,
		"topLimit": repository.TopLimit,
	}
	repo, err := s.repository()
	if err != nil {
		return stats
	}
	stats["started"] = true
	stats["backend"] = repo.Backend()
	stats["storeReady"] = repo.Ready()

	if repo.Ready() {
		ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		defer cancel()
		if n, err := repo.Count(ctx); err == nil {
			stats["totalScores"] = n
		} else {
			s.logger.Warn(ctx, "counting scores failed", logger.Error(err))
		}
	}
	return stats
}
