package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Optimizer is the housekeeping the scheduler runs. *database.Database
// satisfies it.
type Optimizer interface {
	Optimize(ctx context.Context) error
}

// Enqueuer hands a maintenance run to a task queue, which retries it when
// the store is busy. *tasks.Client satisfies it.
type Enqueuer interface {
	EnqueueOptimize(reason string) (string, error)
}

// maintenanceTimeout bounds a single housekeeping run.
const maintenanceTimeout = 5 * time.Minute

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks a 5-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// GetNextRunTime returns the next time schedule fires after now.
func GetNextRunTime(schedule string) (*time.Time, error) {
	sched, err := parser.Parse(schedule)
	if err != nil {
		return nil, err
	}
	next := sched.Next(time.Now())
	return &next, nil
}

// MaintenanceScheduler periodically optimizes the store and checkpoints its
// write-ahead log.
type MaintenanceScheduler struct {
	store    Optimizer
	enabled  bool
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc

	runMu   sync.Mutex
	queue   Enqueuer
	lastRun time.Time
	lastErr error
}

// NewMaintenanceScheduler creates a new scheduler instance
func NewMaintenanceScheduler(store Optimizer, enabled bool, schedule string) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		store:    store,
		enabled:  enabled,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start begins the scheduler if maintenance is enabled
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.enabled {
		log.Printf("Maintenance scheduler: disabled")
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		_ = s.Trigger(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule maintenance job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := GetNextRunTime(s.schedule)
	log.Printf("Maintenance scheduler: started with schedule '%s'. Next run: %v", s.schedule, nextRun)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}
	s.isRunning = false

	log.Printf("Maintenance scheduler: stopped")
}

// SetQueue makes scheduled runs go through q instead of running inline.
func (s *MaintenanceScheduler) SetQueue(q Enqueuer) {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	s.queue = q
}

// Trigger starts one scheduled maintenance round: enqueued when a queue is
// set, inline otherwise.
func (s *MaintenanceScheduler) Trigger(ctx context.Context) error {
	s.runMu.Lock()
	queue := s.queue
	s.runMu.Unlock()

	if queue == nil {
		return s.RunNow(ctx)
	}

	id, err := queue.EnqueueOptimize("scheduled")
	if err != nil {
		log.Printf("Maintenance: failed to enqueue, running inline: %v", err)
		return s.RunNow(ctx)
	}
	log.Printf("Maintenance: enqueued task %s", id)
	return nil
}

// RunNow performs maintenance immediately and returns its error.
func (s *MaintenanceScheduler) RunNow(ctx context.Context) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, maintenanceTimeout)
	defer cancel()

	start := time.Now()
	err := s.store.Optimize(ctx)
	s.lastRun = start
	s.lastErr = err

	if err != nil {
		log.Printf("Maintenance: failed: %v", err)
		return err
	}
	log.Printf("Maintenance: store optimized in %v", time.Since(start).Round(time.Millisecond))
	return nil
}

// LastRun returns when maintenance last ran and how it ended. The time is
// zero when it never ran.
func (s *MaintenanceScheduler) LastRun() (time.Time, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	return s.lastRun, s.lastErr
}

// IsRunning returns whether the scheduler is active
func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next maintenance will occur
func (s *MaintenanceScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}
