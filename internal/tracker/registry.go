package tracker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry owns at most one running tracker per employee. Trackers are
// started on clock-in, resumed lazily from the session store after a
// restart, and stopped on clock-out.
type Registry struct {
	clock  Clock
	store  CheckpointStore
	logger *zap.Logger

	mu       sync.Mutex
	trackers map[string]*Tracker
}

func NewRegistry(clock Clock, store CheckpointStore, logger *zap.Logger) *Registry {
	return &Registry{
		clock:    clock,
		store:    store,
		logger:   logger.Named("tracker"),
		trackers: make(map[string]*Tracker),
	}
}

// Start begins tracking from the given start time. An existing tracker
// with the same start time is kept; a mismatched one is replaced, since
// the session's start time is authoritative.
func (r *Registry) Start(employeeID string, start time.Time) *Tracker {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.trackers[employeeID]; ok {
		if existing.start.Equal(start) {
			return existing
		}
		existing.Stop()
		delete(r.trackers, employeeID)
	}

	t := newTracker(employeeID, start, r.clock, r.store, r.logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	go t.run(ctx)

	r.trackers[employeeID] = t
	return t
}

// Get returns the running tracker for the employee, or nil.
func (r *Registry) Get(employeeID string) *Tracker {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.trackers[employeeID]
}

// Stop halts the tracker and clears its checkpoint.
func (r *Registry) Stop(ctx context.Context, employeeID string) {
	r.mu.Lock()
	t, ok := r.trackers[employeeID]
	if ok {
		delete(r.trackers, employeeID)
	}
	r.mu.Unlock()

	if ok {
		t.Stop()
	}
	if err := r.store.Clear(ctx, employeeID); err != nil {
		r.logger.Warn("clear timer checkpoint failed", zap.String("employee_id", employeeID), zap.Error(err))
	}
}

// StopAll releases every tracker; used on shutdown.
func (r *Registry) StopAll() {
	r.mu.Lock()
	trackers := make([]*Tracker, 0, len(r.trackers))
	for id, t := range r.trackers {
		trackers = append(trackers, t)
		delete(r.trackers, id)
	}
	r.mu.Unlock()

	for _, t := range trackers {
		t.Stop()
	}
}
