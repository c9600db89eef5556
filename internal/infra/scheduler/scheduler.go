// Package scheduler runs recurring background jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	rcron "github.com/robfig/cron/v3"

	"github.com/runoshun/mission-control/internal/domain"
)

// Ensure Service implements domain.Scheduler.
var _ domain.Scheduler = (*Service)(nil)

// stopTimeout bounds how long Stop waits for running jobs.
const stopTimeout = 5 * time.Second

// Service schedules named jobs.
type Service struct {
	logger  domain.Logger
	cron    *rcron.Cron
	entries map[string]rcron.EntryID
	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	running bool
}

// New creates a Service. Overlapping runs of the same job are skipped.
func New(logger domain.Logger) *Service {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Service{
		logger: logger,
		cron: rcron.New(rcron.WithChain(
			rcron.Recover(rcron.DiscardLogger),
			rcron.SkipIfStillRunning(rcron.DiscardLogger),
		)),
		entries: make(map[string]rcron.EntryID),
	}
}

// AddJob registers fn under name with a standard cron spec or descriptor
// such as "@every 1m". Re-adding a name replaces the previous job.
func (s *Service) AddJob(name, spec string, fn func(context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.cron.AddFunc(spec, func() { s.run(name, fn) })
	if err != nil {
		return fmt.Errorf("%w: schedule %q for job %s: %w", domain.ErrValidation, spec, name, err)
	}
	if prev, ok := s.entries[name]; ok {
		s.cron.Remove(prev)
	}
	s.entries[name] = id
	return nil
}

// Jobs returns the registered job names with their next run time.
func (s *Service) Jobs() map[string]time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make(map[string]time.Time, len(s.entries))
	for name, id := range s.entries {
		jobs[name] = s.cron.Entry(id).Next
	}
	return jobs
}

func (s *Service) run(name string, fn func(context.Context) error) {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil {
		return
	}

	s.logger.Debug("", "scheduler", "running job "+name)
	if err := fn(ctx); err != nil {
		s.logger.Warn("", "scheduler", fmt.Sprintf("job %s failed: %v", name, err))
	}
}

// Start runs the scheduler until Stop is called or ctx is done.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.ctx = runCtx
	s.cancel = cancel
	s.running = true
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("", "scheduler", fmt.Sprintf("started with %d jobs", len(s.Jobs())))

	go func() {
		<-runCtx.Done()
		s.Stop()
	}()
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	s.ctx = nil
	s.cancel = nil
	s.running = false
	s.mu.Unlock()

	cancel()
	select {
	case <-s.cron.Stop().Done():
	case <-time.After(stopTimeout):
		s.logger.Warn("", "scheduler", "stop timeout waiting for running jobs")
	}
	s.logger.Info("", "scheduler", "stopped")
}
