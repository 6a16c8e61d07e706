package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/brandloop-labs/brandloop-core/internal/core/ports/driven"
	"github.com/brandloop-labs/brandloop-core/internal/core/ports/driving"
)

// Refresher proactively refreshes connections whose access tokens are about
// to expire, so callers on the request path mostly hit the fast path.
// Callers that race the sweep are still safe: the token service performs
// its own expiry check and refresh on demand.
type Refresher struct {
	store  driven.ConnectionStore
	tokens driving.TokenService
	lock   driven.DistributedLock
	logger *slog.Logger

	// Configuration
	interval time.Duration
	window   time.Duration

	// Internal state
	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// sweepLockName guards the sweep across instances. Only one instance
// sweeps per interval; the others skip their tick.
const sweepLockName = "refresh-sweep"

// perConnectionTimeout bounds a single refresh inside the sweep.
const perConnectionTimeout = 30 * time.Second

// RefresherConfig holds configuration for the refresher.
type RefresherConfig struct {
	Store  driven.ConnectionStore
	Tokens driving.TokenService

	// Lock, when set, ensures one sweep per interval across instances.
	Lock driven.DistributedLock

	// Interval between sweeps. Defaults to 5 minutes.
	Interval time.Duration

	// Window is how far ahead of expiry a connection is picked up.
	// Defaults to 10 minutes, comfortably ahead of the on-demand buffer.
	Window time.Duration

	Logger *slog.Logger
}

// NewRefresher creates a background token refresher.
func NewRefresher(cfg RefresherConfig) *Refresher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	window := cfg.Window
	if window <= 0 {
		window = 10 * time.Minute
	}

	return &Refresher{
		store:    cfg.Store,
		tokens:   cfg.Tokens,
		lock:     cfg.Lock,
		logger:   logger,
		interval: interval,
		window:   window,
	}
}

// Start begins the sweep loop.
// It runs until Stop is called or the context is cancelled.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	r.mu.Unlock()

	r.logger.Info("refresher starting",
		"interval", r.interval,
		"window", r.window,
	)

	go func() {
		defer close(r.doneCh)

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				r.logger.Info("refresher context cancelled")
				return
			case <-r.stopCh:
				r.logger.Info("refresher stop signal received")
				return
			case <-ticker.C:
				r.Sweep(ctx)
			}
		}
	}()

	return nil
}

// Stop gracefully stops the refresher.
func (r *Refresher) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	close(r.stopCh)
	r.mu.Unlock()

	<-r.doneCh

	r.mu.Lock()
	r.running = false
	r.mu.Unlock()

	r.logger.Info("refresher stopped")
}

// SweepStats summarizes one sweep.
type SweepStats struct {
	Scanned   int
	Refreshed int
	Skipped   int
	Failed    int
}

// Sweep runs one pass: list connections entering the expiry window and
// refresh each. Exported so a tick can be triggered directly in tests and
// from operational tooling.
func (r *Refresher) Sweep(ctx context.Context) SweepStats {
	var stats SweepStats

	if r.lock != nil {
		acquired, err := r.lock.Acquire(ctx, sweepLockName, r.interval)
		if err != nil {
			r.logger.Warn("sweep lock unavailable, skipping sweep", "error", err)
			return stats
		}
		if !acquired {
			// Another instance is sweeping this interval.
			return stats
		}
		defer func() {
			if err := r.lock.Release(context.WithoutCancel(ctx), sweepLockName); err != nil {
				r.logger.Warn("release sweep lock", "error", err)
			}
		}()
	}

	conns, err := r.store.ListExpiring(ctx, r.window)
	if err != nil {
		r.logger.Error("list expiring connections", "error", err)
		return stats
	}

	stats.Scanned = len(conns)
	if len(conns) == 0 {
		return stats
	}

	for _, conn := range conns {
		select {
		case <-ctx.Done():
			return stats
		default:
		}

		if !conn.HasRefreshToken() {
			// Nothing to do until the user re-authorizes; refreshing
			// would fail without even reaching the provider.
			stats.Skipped++
			continue
		}

		connCtx, cancel := context.WithTimeout(ctx, perConnectionTimeout)
		_, err := r.tokens.RefreshConnection(connCtx, conn.ID)
		cancel()

		if err != nil {
			// The token service has already recorded the failure on the
			// connection; the sweep just moves on.
			stats.Failed++
			r.logger.Warn("proactive refresh failed",
				"connection_id", conn.ID,
				"platform", conn.Platform,
				"error", err,
			)
			continue
		}
		stats.Refreshed++
	}

	r.logger.Info("sweep complete",
		"scanned", stats.Scanned,
		"refreshed", stats.Refreshed,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
	)

	return stats
}

// Health returns health status of the refresher.
type Health struct {
	Running    bool   `json:"running"`
	LockHealth bool   `json:"lock_health"`
	Error      string `json:"error,omitempty"`
}

// Health reports whether the loop is running and the lock backend reachable.
func (r *Refresher) Health(ctx context.Context) Health {
	r.mu.RLock()
	running := r.running
	r.mu.RUnlock()

	health := Health{
		Running:    running,
		LockHealth: true,
	}

	if r.lock != nil {
		if err := r.lock.Ping(ctx); err != nil {
			health.LockHealth = false
			health.Error = err.Error()
		}
	}

	return health
}
