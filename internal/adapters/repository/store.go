// Package repository owns the leaderboard query shape for every backing store.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/scoreboard/internal/adapters/storage"
	"github.com/okian/scoreboard/internal/domain/model"
	"github.com/okian/scoreboard/pkg/metrics"
)

// TopLimit is the fixed size of the leaderboard view.
const TopLimit = 1000

// Store is a backend specific persistence of score records.
type Store interface {
	// Backend names the backing store, e.g. "mongodb".
	Backend() string
	// Insert persists rec as a new record.
	Insert(ctx context.Context, rec model.ScoreRecord) error
	// Top returns up to n records ordered by score descending.
	Top(ctx context.Context, n int) ([]model.ScoreRecord, error)
	// Count returns the number of persisted records.
	Count(ctx context.Context) (int, error)
	// Ready reports whether the store holds an established connection.
	Ready() bool
	// Close releases the store connection.
	Close(ctx context.Context) error
}

// Repository appends score records and reads the ranked leaderboard.
// It performs no validation and no retries.
type Repository struct {
	store Store
	now   func() time.Time
}

// New wraps store in a Repository.
func New(store Store, opts ...Option) *Repository {
	r := &Repository{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Backend names the backing store.
func (r *Repository) Backend() string { return r.store.Backend() }

// Ready reports whether the backing store connection is established.
func (r *Repository) Ready() bool { return r.store.Ready() }

// ListTop returns up to n records ordered by score descending. An empty
// store yields an empty, non-nil slice.
func (r *Repository) ListTop(ctx context.Context, n int) ([]model.ScoreRecord, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}

	start := time.Now()
	records, err := r.store.Top(ctx, n)
	r.observe("top", start, err)
	if err != nil {
		return nil, wrapStoreError(err)
	}
	if records == nil {
		records = []model.ScoreRecord{}
	}
	metrics.UpdateLeaderboardSize(len(records))
	return records, nil
}

// Append stamps a new record with the current time, persists it and returns
// the persisted record.
func (r *Repository) Append(ctx context.Context, name string, score float64) (model.ScoreRecord, error) {
	rec := model.NewScoreRecord(name, score, r.now())

	start := time.Now()
	err := r.store.Insert(ctx, rec)
	r.observe("insert", start, err)
	if err != nil {
		return model.ScoreRecord{}, wrapStoreError(err)
	}
	metrics.RecordScoreSubmitted()
	return rec, nil
}

// Count returns the number of persisted records.
func (r *Repository) Count(ctx context.Context) (int, error) {
	start := time.Now()
	n, err := r.store.Count(ctx)
	r.observe("count", start, err)
	if err != nil {
		return 0, wrapStoreError(err)
	}
	return n, nil
}

// Close releases the backing store.
func (r *Repository) Close(ctx context.Context) error {
	return r.store.Close(ctx)
}

func (r *Repository) observe(op string, start time.Time, err error) {
	metrics.RecordStoreOperation(r.store.Backend(), op, float64(time.Since(start).Microseconds())/1000, err != nil)
}

// wrapStoreError tags query and write failures with ErrStorage. Connectivity
// failures already carry their own kind and pass through.
func wrapStoreError(err error) error {
	if errors.Is(err, storage.ErrConnectivity) || errors.Is(err, storage.ErrClosed) || errors.Is(err, ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}
