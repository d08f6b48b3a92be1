package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/tasks"
)

var _ Optimizer = (*database.Database)(nil)

type countingOptimizer struct {
	calls atomic.Int32
	err   error
}

func (o *countingOptimizer) Optimize(context.Context) error {
	o.calls.Add(1)
	return o.err
}

func TestValidateCronSchedule(t *testing.T) {
	tests := []struct {
		schedule string
		valid    bool
	}{
		{"0 3 * * *", true},
		{"*/15 * * * *", true},
		{"0 0 3 * * *", false},
		{"every night", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			err := ValidateCronSchedule(tt.schedule)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestMaintenanceScheduler_StartStop(t *testing.T) {
	opt := &countingOptimizer{}
	s := NewMaintenanceScheduler(opt, true, "0 3 * * *")

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	require.NoError(t, s.Start(context.Background()), "starting twice is a no-op")

	next := s.GetNextRunTime()
	require.NotNil(t, next)
	assert.Equal(t, 3, next.Hour())
	assert.True(t, next.After(time.Now()))

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.GetNextRunTime())
	s.Stop()
}

func TestMaintenanceScheduler_StopsWithContext(t *testing.T) {
	s := NewMaintenanceScheduler(&countingOptimizer{}, true, "*/5 * * * *")

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 10*time.Millisecond)
}

func TestMaintenanceScheduler_DisabledAndInvalid(t *testing.T) {
	s := NewMaintenanceScheduler(&countingOptimizer{}, false, "0 3 * * *")
	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())

	s = NewMaintenanceScheduler(&countingOptimizer{}, true, "not a schedule")
	assert.Error(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}

func TestMaintenanceScheduler_RunNow(t *testing.T) {
	opt := &countingOptimizer{}
	s := NewMaintenanceScheduler(opt, true, "0 3 * * *")

	when, err := s.LastRun()
	assert.True(t, when.IsZero())
	assert.NoError(t, err)

	require.NoError(t, s.RunNow(context.Background()))
	assert.Equal(t, int32(1), opt.calls.Load())
	when, err = s.LastRun()
	assert.False(t, when.IsZero())
	assert.NoError(t, err)

	opt.err = errors.New("database is locked")
	assert.ErrorContains(t, s.RunNow(context.Background()), "locked")
	_, err = s.LastRun()
	assert.Error(t, err)
}

func TestMaintenanceScheduler_RunNowOnDatabase(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "maintenance.db"), database.WithLogLevel(logger.Silent))
	require.NoError(t, err)
	defer db.Close()

	s := NewMaintenanceScheduler(db, true, "0 3 * * *")
	assert.NoError(t, s.RunNow(context.Background()))
}

type recordingQueue struct {
	reasons []string
	err     error
}

func (q *recordingQueue) EnqueueOptimize(reason string) (string, error) {
	if q.err != nil {
		return "", q.err
	}
	q.reasons = append(q.reasons, reason)
	return "task-1", nil
}

func TestMaintenanceScheduler_Trigger(t *testing.T) {
	t.Run("inline without a queue", func(t *testing.T) {
		opt := &countingOptimizer{}
		s := NewMaintenanceScheduler(opt, true, "0 3 * * *")

		require.NoError(t, s.Trigger(context.Background()))
		assert.Equal(t, int32(1), opt.calls.Load())
	})

	t.Run("enqueued with a queue", func(t *testing.T) {
		opt := &countingOptimizer{}
		q := &recordingQueue{}
		s := NewMaintenanceScheduler(opt, true, "0 3 * * *")
		s.SetQueue(q)

		require.NoError(t, s.Trigger(context.Background()))
		assert.Equal(t, []string{"scheduled"}, q.reasons)
		assert.Zero(t, opt.calls.Load(), "the queue runs it, not the trigger")
	})

	t.Run("falls back inline when enqueue fails", func(t *testing.T) {
		opt := &countingOptimizer{}
		s := NewMaintenanceScheduler(opt, true, "0 3 * * *")
		s.SetQueue(&recordingQueue{err: errors.New("queue closed")})

		require.NoError(t, s.Trigger(context.Background()))
		assert.Equal(t, int32(1), opt.calls.Load())
	})
}

func TestMaintenanceScheduler_TriggerThroughTaskQueue(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "maintenance.db")
	db, err := database.Open(dbPath, database.WithLogLevel(logger.Silent))
	require.NoError(t, err)
	defer db.Close()

	client, err := tasks.NewClient(dbPath, tasks.DefaultConfig())
	require.NoError(t, err)
	defer client.Close()

	s := NewMaintenanceScheduler(db, true, "0 3 * * *")
	client.Register(tasks.NewOptimizeStoreQueue(s))
	s.SetQueue(client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	require.NoError(t, s.Trigger(context.Background()))

	assert.Eventually(t, func() bool {
		when, err := s.LastRun()
		return !when.IsZero() && err == nil
	}, 5*time.Second, 20*time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	client.Stop(stopCtx)
}
