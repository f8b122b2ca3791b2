// Package latewatch periodically queries the late-order view and
// dispatches overdue alerts to the notification worker pool.
package latewatch

import (
	"context"
	"log"
	"time"

	"repair-order-backend/config"
	"repair-order-backend/internal/notification"
	"repair-order-backend/internal/store"
)

// Watcher drives the overdue-notification cycle.
type Watcher struct {
	cfg        *config.Config
	store      store.Store
	workerPool *notification.WorkerPool

	// Orders already dispatched during their current spell of lateness.
	// An order becomes eligible again once it stops being late.
	dispatched map[string]struct{}
}

// New creates a watcher backed by the given store and worker pool.
func New(cfg *config.Config, s store.Store, wp *notification.WorkerPool) *Watcher {
	return &Watcher{
		cfg:        cfg,
		store:      s,
		workerPool: wp,
		dispatched: make(map[string]struct{}),
	}
}

// Run starts the watch loop. It blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	if !w.cfg.LateWatch.Enabled {
		log.Println("Late-order watcher is disabled. Not starting.")
		return
	}
	log.Println("Starting late-order watcher...")

	w.workerPool.Start(ctx)

	w.CheckOnce(ctx)

	timer := time.NewTimer(w.cfg.LateWatch.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Late-order watcher shutting down.")
			return
		case <-timer.C:
			w.CheckOnce(ctx)
			timer.Reset(w.cfg.LateWatch.Interval)
		}
	}
}

// CheckOnce performs a single late-query cycle and dispatches alerts for
// orders that became late since the previous cycle.
func (w *Watcher) CheckOnce(ctx context.Context) {
	now := time.Now().UTC()

	late, err := w.store.FindLate(ctx, now)
	if err != nil {
		log.Printf("Error querying late orders: %v", err)
		return
	}

	lateIDs := make(map[string]struct{}, len(late))
	for _, o := range late {
		lateIDs[o.ID] = struct{}{}
		if _, seen := w.dispatched[o.ID]; seen {
			continue
		}
		w.dispatched[o.ID] = struct{}{}
		w.workerPool.Dispatch(o.ID)
	}

	// Forget orders that are no longer late so a future spell alerts again.
	for id := range w.dispatched {
		if _, stillLate := lateIDs[id]; !stillLate {
			delete(w.dispatched, id)
		}
	}
}
