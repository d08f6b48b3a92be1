package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

const optimizeStoreQueue = "optimize_store"

// Maintainer runs one round of store housekeeping.
// *scheduler.MaintenanceScheduler satisfies it.
type Maintainer interface {
	RunNow(ctx context.Context) error
}

// OptimizeStoreTask refreshes planner statistics and checkpoints the
// write-ahead log of the inventory store. A failed attempt, typically a store
// busy with another writer, is retried after Backoff.
type OptimizeStoreTask struct {
	Reason string `json:"reason"`
}

// Config returns the queue configuration for store optimization tasks.
func (t OptimizeStoreTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        optimizeStoreQueue,
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// OptimizeStoreProcessor creates a processor function for OptimizeStoreTask.
func OptimizeStoreProcessor(m Maintainer) backlite.QueueProcessor[OptimizeStoreTask] {
	return func(ctx context.Context, task OptimizeStoreTask) error {
		if m == nil {
			return fmt.Errorf("store maintainer not configured")
		}

		if err := m.RunNow(ctx); err != nil {
			return fmt.Errorf("optimize store (%s): %w", task.Reason, err)
		}

		log.Printf("[TASK] Store optimized (%s)", task.Reason)
		return nil
	}
}

// NewOptimizeStoreQueue creates a backlite queue for store optimization tasks.
func NewOptimizeStoreQueue(m Maintainer) backlite.Queue {
	return backlite.NewQueue(OptimizeStoreProcessor(m))
}
