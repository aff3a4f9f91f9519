package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ScheduleTime represents a specific time of day when the scheduler should run.
type ScheduleTime struct {
	Hour   int
	Minute int
}

// String returns the time in HH:MM format.
func (st ScheduleTime) String() string {
	return fmt.Sprintf("%02d:%02d", st.Hour, st.Minute)
}

// ParseScheduleTime parses a time string in HH:MM format.
func ParseScheduleTime(s string) (ScheduleTime, error) {
	var hour, minute int
	_, err := fmt.Sscanf(s, "%d:%d", &hour, &minute)
	if err != nil {
		return ScheduleTime{}, fmt.Errorf("invalid time format (expected HH:MM): %w", err)
	}

	if hour < 0 || hour > 23 {
		return ScheduleTime{}, fmt.Errorf("invalid hour: %d (must be 0-23)", hour)
	}
	if minute < 0 || minute > 59 {
		return ScheduleTime{}, fmt.Errorf("invalid minute: %d (must be 0-59)", minute)
	}

	return ScheduleTime{Hour: hour, Minute: minute}, nil
}

// Scheduler runs a job batch at fixed times of day through a worker
// pool.
type Scheduler struct {
	workerPool    *WorkerPool
	scheduleTimes []ScheduleTime
	runOnStartup  bool
	jobProvider   func(context.Context) ([]Job, error)

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	lastRun string
	mu      sync.Mutex
}

// Config holds configuration for the scheduler.
type Config struct {
	ScheduleTimes []string
	WorkerCount   int
	JobDelay      time.Duration
	QueueSize     int
	RunOnStartup  bool
	JobProvider   func(context.Context) ([]Job, error)
}

// New creates a scheduler from the given configuration.
func New(config Config) (*Scheduler, error) {
	scheduleTimes := make([]ScheduleTime, 0, len(config.ScheduleTimes))
	for _, timeStr := range config.ScheduleTimes {
		st, err := ParseScheduleTime(timeStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse schedule time %q: %w", timeStr, err)
		}
		scheduleTimes = append(scheduleTimes, st)
	}

	if len(scheduleTimes) == 0 {
		return nil, fmt.Errorf("at least one schedule time is required")
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		workerPool:    NewWorkerPool(config.WorkerCount, config.JobDelay, config.QueueSize),
		scheduleTimes: scheduleTimes,
		runOnStartup:  config.RunOnStartup,
		jobProvider:   config.JobProvider,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// Start launches the scheduler and worker pool.
func (s *Scheduler) Start() {
	s.workerPool.Start()

	if s.runOnStartup {
		log.Info().Msg("scheduler: running initial job batch on startup")
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runJobs()
		}()
	}

	s.wg.Add(1)
	go s.scheduleLoop()

	times := make([]string, len(s.scheduleTimes))
	for i, st := range s.scheduleTimes {
		times[i] = st.String()
	}
	log.Info().Strs("times", times).Msg("scheduler started")
}

// scheduleLoop wakes up every minute and fires when the wall clock
// matches a configured time.
func (s *Scheduler) scheduleLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return

		case now := <-ticker.C:
			if s.shouldRun(now) {
				log.Info().Str("time", now.Format("15:04")).Msg("scheduler triggered")
				s.runJobs()
			}
		}
	}
}

// shouldRun checks if the current time matches any scheduled time. The
// lastRun key guards against firing twice inside the same minute.
func (s *Scheduler) shouldRun(now time.Time) bool {
	currentKey := now.Format("2006-01-02-15:04")

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastRun == currentKey {
		return false
	}

	for _, st := range s.scheduleTimes {
		if now.Hour() == st.Hour && now.Minute() == st.Minute {
			s.lastRun = currentKey
			return true
		}
	}

	return false
}

// runJobs executes the job provider and submits jobs to the worker pool.
func (s *Scheduler) runJobs() {
	if s.jobProvider == nil {
		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	jobs, err := s.jobProvider(ctx)
	if err != nil {
		log.Error().Err(err).Msg("scheduler: failed to fetch jobs")
		return
	}

	if len(jobs) == 0 {
		return
	}

	s.workerPool.SubmitBatch(jobs)
}

// TriggerNow manually triggers a job run immediately.
func (s *Scheduler) TriggerNow() {
	go s.runJobs()
}

// NextScheduledTime returns the next scheduled run time.
func (s *Scheduler) NextScheduledTime() time.Time {
	now := time.Now()

	for _, st := range s.scheduleTimes {
		scheduled := time.Date(now.Year(), now.Month(), now.Day(), st.Hour, st.Minute, 0, 0, now.Location())
		if scheduled.After(now) {
			return scheduled
		}
	}

	st := s.scheduleTimes[0]
	tomorrow := now.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), st.Hour, st.Minute, 0, 0, now.Location())
}

// Shutdown gracefully stops the scheduler and worker pool.
func (s *Scheduler) Shutdown(timeout time.Duration) {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		log.Warn().Msg("scheduler: timeout waiting for schedule loop to stop")
	}

	s.workerPool.ShutdownWithTimeout(timeout)
	log.Info().Msg("scheduler: shutdown complete")
}
