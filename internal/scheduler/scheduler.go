// Package scheduler triggers the odds and score runs at fixed local times.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Runner is one schedulable pipeline run. Runs are idempotent, so a slow
// run overlapping the next trigger is safe.
type Runner interface {
	Run(ctx context.Context) error
}

// Scheduler manages the scheduled odds and score jobs. Cron specs fire in
// the configured location, not UTC, so "23 o'clock" means 23:00 local.
type Scheduler struct {
	cron       *cron.Cron
	logger     *logrus.Logger
	mu         sync.RWMutex
	isRunning  bool
	jobIDs     []cron.EntryID
	jobTimeout time.Duration
}

// NewScheduler creates a scheduler firing in the named time zone.
func NewScheduler(timezone string, logger *logrus.Logger) (*Scheduler, error) {
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler timezone %q: %w", timezone, err)
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(location)),
		logger:     logger,
		jobIDs:     make([]cron.EntryID, 0),
		jobTimeout: 10 * time.Minute,
	}, nil
}

// ScheduleOddsFetch registers the odds refresh at each given cron spec.
func (s *Scheduler) ScheduleOddsFetch(cronSpecs []string, runner Runner) error {
	return s.schedule("odds_fetch", cronSpecs, runner)
}

// ScheduleScoreSync registers the score sync at each given cron spec.
func (s *Scheduler) ScheduleScoreSync(cronSpecs []string, runner Runner) error {
	return s.schedule("score_sync", cronSpecs, runner)
}

func (s *Scheduler) schedule(job string, cronSpecs []string, runner Runner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule %s while scheduler is running", job)
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()

		if err := runner.Run(ctx); err != nil {
			s.logger.WithFields(logrus.Fields{
				"job":   job,
				"error": err.Error(),
			}).Error("Scheduled job failed")
		}
	}

	for _, spec := range cronSpecs {
		entryID, err := s.cron.AddFunc(spec, jobFunc)
		if err != nil {
			return fmt.Errorf("failed to add %s job %q: %w", job, spec, err)
		}
		s.jobIDs = append(s.jobIDs, entryID)
	}

	s.logger.WithFields(logrus.Fields{
		"job":   job,
		"specs": cronSpecs,
	}).Info("Scheduled job")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler and waits for any running job to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the time of the earliest upcoming trigger.
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if !entry.Valid() {
			continue
		}
		if nextRun.IsZero() || entry.Next.Before(nextRun) {
			nextRun = entry.Next
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}
