package tracker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	tickInterval       = time.Second
	checkpointInterval = 30 * time.Second
)

// Tracker reports the elapsed time of one open session. Every value it
// publishes is recomputed from the absolute start time, never from an
// accumulated counter, so a suspended or restarted process can not drift.
type Tracker struct {
	employeeID string
	start      time.Time
	clock      Clock
	store      CheckpointStore
	logger     *zap.Logger

	elapsed  atomic.Int64
	cancel   context.CancelFunc
	stopOnce sync.Once
	done     chan struct{}
}

func newTracker(employeeID string, start time.Time, clock Clock, store CheckpointStore, logger *zap.Logger) *Tracker {
	t := &Tracker{
		employeeID: employeeID,
		start:      start,
		clock:      clock,
		store:      store,
		logger:     logger,
		done:       make(chan struct{}),
	}
	t.elapsed.Store(t.compute())
	return t
}

func (t *Tracker) compute() int64 {
	secs := int64(t.clock.Now().Sub(t.start) / time.Second)
	if secs < 0 {
		secs = 0
	}
	return secs
}

// Resync forces an immediate recompute from the start time. Called on
// every session read; this is the visibility-regain correction.
func (t *Tracker) Resync() int64 {
	secs := t.compute()
	t.elapsed.Store(secs)
	return secs
}

// Elapsed returns the last published value in whole seconds.
func (t *Tracker) Elapsed() int64 {
	return t.elapsed.Load()
}

func (t *Tracker) StartTime() time.Time {
	return t.start
}

func (t *Tracker) run(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	defer close(t.done)

	lastSaved := t.clock.Now()
	if err := t.store.Save(ctx, t.employeeID, Checkpoint{StartTime: t.start, LastUpdate: lastSaved}); err != nil {
		t.logger.Warn("save timer checkpoint failed", zap.String("employee_id", t.employeeID), zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.elapsed.Store(t.compute())

			now := t.clock.Now()
			if now.Sub(lastSaved) >= checkpointInterval {
				if err := t.store.Save(ctx, t.employeeID, Checkpoint{StartTime: t.start, LastUpdate: now}); err != nil {
					t.logger.Warn("save timer checkpoint failed", zap.String("employee_id", t.employeeID), zap.Error(err))
				}
				lastSaved = now
			}
		}
	}
}

// Stop releases the ticker goroutine. It does not clear the checkpoint;
// only a clock-out does that.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() {
		if t.cancel != nil {
			t.cancel()
			<-t.done
		}
	})
}

// FormatElapsed renders whole seconds as zero-padded HH:MM:SS, unbounded
// on hours.
func FormatElapsed(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}
