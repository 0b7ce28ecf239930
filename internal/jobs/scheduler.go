package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"anoa.com/skillnest/pkg/apperror"
	"anoa.com/skillnest/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Scheduler runs registered jobs on their cron schedules.
type Scheduler struct {
	cron    *cron.Cron
	log     *logger.Logger
	timeout time.Duration

	mu   sync.RWMutex
	jobs map[string]Job
}

// cronLogger routes cron's own messages (recovered panics, skipped runs) to the app logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}

// NewScheduler builds a scheduler whose scheduled runs are bounded by timeout.
// A run that is still going when the next tick fires is skipped.
func NewScheduler(log *logger.Logger, timeout time.Duration) *Scheduler {
	cl := cronLogger{log: log}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		log:     log,
		timeout: timeout,
		jobs:    make(map[string]Job),
	}
}

// RegisterJob adds job; jobs with a schedule are also put on the cron.
func (s *Scheduler) RegisterJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.GetName()]; exists {
		return fmt.Errorf("job %q already registered", job.GetName())
	}

	if schedule := job.GetSchedule(); schedule != "" {
		if _, err := s.cron.AddFunc(schedule, func() { s.run(job) }); err != nil {
			return fmt.Errorf("schedule job %q: %w", job.GetName(), err)
		}
		s.log.Info("job scheduled", "job", job.GetName(), "schedule", schedule)
	} else {
		s.log.Info("job registered on demand", "job", job.GetName())
	}

	s.jobs[job.GetName()] = job
	return nil
}

func (s *Scheduler) run(job Job) {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := job.Execute(ctx); err != nil {
		s.log.Error("job failed", "job", job.GetName(), "error", err)
		return
	}
	s.log.Debug("job completed", "job", job.GetName(), "duration", time.Since(start))
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", "jobs", len(s.JobNames()))
}

// Stop stops the cron and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info("scheduler stopped")
	case <-ctx.Done():
		s.log.Warn("scheduler stop timed out with jobs still running")
	}
}

// RunJobByName executes a registered job immediately.
func (s *Scheduler) RunJobByName(ctx context.Context, name string) error {
	s.mu.RLock()
	job, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %q: %w", name, apperror.ErrNotFound)
	}

	s.log.Info("running job on demand", "job", name)
	return job.Execute(ctx)
}

func (s *Scheduler) JobNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}
