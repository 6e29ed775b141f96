package services

import (
	"context"
	"sync"
	"time"

	"github.com/harborweb/discontent/internal/core/ports/driving"
	"github.com/harborweb/discontent/internal/logger"
)

// Refresher reconciles a set of stores on a fixed interval. Hosts that
// prefer read-time freshness simply never start one.
type Refresher struct {
	interval time.Duration
	syncers  []driving.Syncer

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewRefresher creates a refresher over the given stores.
func NewRefresher(interval time.Duration, syncers ...driving.Syncer) *Refresher {
	return &Refresher{interval: interval, syncers: syncers}
}

// Start launches the refresh loop in the background. Starting a running
// refresher is a no-op.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	if r.running || r.interval <= 0 {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.mu.Unlock()

	r.wg.Add(1)
	go r.run(ctx)
}

// Stop halts the loop and waits for an in-flight round to finish.
func (r *Refresher) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	close(r.stopCh)
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Refresher) run(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	for _, syncer := range r.syncers {
		if err := syncer.Sync(ctx); err != nil {
			logger.Warn("background sync: %v", err)
		}
	}
}
