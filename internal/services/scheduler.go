package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Janitor periodically evicts idle sessions from a SessionStore.
type Janitor struct {
	log      *zap.Logger
	store    *SessionStore
	interval time.Duration
	maxIdle  atomic.Int64
}

// NewJanitor fails unless interval is positive.
func NewJanitor(log *zap.Logger, store *SessionStore, interval, maxIdle time.Duration) (*Janitor, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("janitor interval must be positive, got %s", interval)
	}
	j := &Janitor{
		log:      log,
		store:    store,
		interval: interval,
	}
	j.maxIdle.Store(int64(maxIdle))
	return j, nil
}

// SetMaxIdle changes the idle timeout used from the next sweep on.
func (j *Janitor) SetMaxIdle(d time.Duration) {
	j.maxIdle.Store(int64(d))
	j.log.Info("Session idle timeout updated", zap.Duration("max_idle", d))
}

// MaxIdle returns the idle timeout in effect.
func (j *Janitor) MaxIdle() time.Duration {
	return time.Duration(j.maxIdle.Load())
}

// Start runs the janitor in a goroutine until ctx is cancelled.
func (j *Janitor) Start(ctx context.Context) {
	j.log.Info("Starting session janitor...",
		zap.Duration("interval", j.interval),
		zap.Duration("max_idle", j.MaxIdle()),
	)
	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				j.log.Info("Session janitor stopped")
				return
			case <-ticker.C:
				j.sweep()
			}
		}
	}()
}

func (j *Janitor) sweep() {
	evicted := j.store.EvictIdle(j.MaxIdle())
	if evicted > 0 {
		j.log.Info("Evicted idle assessment sessions",
			zap.Int("evicted", evicted),
			zap.Int("remaining", j.store.Len()),
		)
		return
	}
	j.log.Debug("No idle sessions to evict", zap.Int("live", j.store.Len()))
}
