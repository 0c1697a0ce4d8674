// Package storage manages lazily established, process-lifetime connections
// to the backing store.
package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/okian/scoreboard/pkg/logger"
	"github.com/okian/scoreboard/pkg/metrics"
)

const connectKey = "connect"

// OpenFunc establishes a new handle to the backing store.
type OpenFunc[T any] func(ctx context.Context) (T, error)

// CloseFunc releases a handle produced by an OpenFunc.
type CloseFunc[T any] func(ctx context.Context, handle T) error

// Connector hands out a single shared handle to the backing store. The handle
// is created on first use; concurrent callers during establishment share the
// same attempt. A failed attempt is not cached, so the next Get retries.
type Connector[T any] struct {
	backend string
	open    OpenFunc[T]
	close   CloseFunc[T]
	cfg     settings

	group singleflight.Group

	mu     sync.RWMutex
	handle T
	ready  bool
	closed bool
}

// NewConnector builds a Connector for backend. No connection is made until Get.
func NewConnector[T any](backend string, open OpenFunc[T], closeFn CloseFunc[T], opts ...Option) *Connector[T] {
	cfg := settings{
		dialTimeout: defaultDialTimeout,
		logger:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Connector[T]{
		backend: backend,
		open:    open,
		close:   closeFn,
		cfg:     cfg,
	}
}

// Backend returns the backend name the connector was built for.
func (c *Connector[T]) Backend() string { return c.backend }

// Ready reports whether an established handle is cached.
func (c *Connector[T]) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// Get returns the established handle, connecting first if needed.
// Connection failures are wrapped in ErrConnectivity.
func (c *Connector[T]) Get(ctx context.Context) (T, error) {
	if h, ok, err := c.cached(); ok || err != nil {
		return h, err
	}

	ch := c.group.DoChan(connectKey, func() (any, error) {
		return c.connect(ctx)
	})

	var zero T
	select {
	case <-ctx.Done():
		// The shared attempt keeps running for the other waiters.
		return zero, fmt.Errorf("%w: %w", ErrConnectivity, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		h, _ := res.Val.(T)
		return h, nil
	}
}

func (c *Connector[T]) cached() (T, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var zero T
	if c.closed {
		return zero, false, ErrClosed
	}
	if c.ready {
		return c.handle, true, nil
	}
	return zero, false, nil
}

func (c *Connector[T]) connect(ctx context.Context) (T, error) {
	var zero T

	// A previous flight may have finished between the fast path and Do.
	if h, ok, err := c.cached(); ok || err != nil {
		return h, err
	}

	// Detach from the first caller's cancellation; every waiter shares this attempt.
	dialCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.dialTimeout)
	defer cancel()

	start := time.Now()
	h, err := c.open(dialCtx)
	if err != nil {
		metrics.RecordConnectionAttempt(c.backend, "failure")
		c.cfg.logger.Warn(ctx, "store connection failed",
			logger.String("backend", c.backend),
			logger.Duration("elapsed", time.Since(start)),
			logger.Error(err),
		)
		return zero, fmt.Errorf("%w: %s: %w", ErrConnectivity, c.backend, err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		if c.close != nil {
			_ = c.close(dialCtx, h)
		}
		return zero, ErrClosed
	}
	c.handle = h
	c.ready = true
	c.mu.Unlock()

	metrics.RecordConnectionAttempt(c.backend, "success")
	c.cfg.logger.Info(ctx, "store connection established",
		logger.String("backend", c.backend),
		logger.Duration("elapsed", time.Since(start)),
	)
	return h, nil
}

// Close releases the cached handle. Later Get calls return ErrClosed.
// The handle is released after the lock is dropped so Ready and Get never
// wait on a slow disconnect.
func (c *Connector[T]) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.closed || !c.ready {
		c.closed = true
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	h := c.handle
	var zero T
	c.handle = zero
	c.ready = false
	c.mu.Unlock()

	if c.close == nil {
		return nil
	}
	return c.close(ctx, h)
}
