// Package scheduler runs periodic cache maintenance and dependency checks.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

var (
	// ErrRunning is returned when jobs are changed while the scheduler runs
	ErrRunning = errors.New("scheduler is running")
	// ErrNoJobs is returned when starting a scheduler without jobs
	ErrNoJobs = errors.New("no jobs scheduled")
)

// Purger removes expired entries and reports how many remain
type Purger interface {
	DeleteExpired() int
}

// Pinger checks a dependency's connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

// Scheduler manages scheduled maintenance jobs
type Scheduler struct {
	cron            *cron.Cron
	logger          *logrus.Entry
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
	checkTimeout    time.Duration
}

// NewScheduler creates a new scheduler running in UTC
func NewScheduler(logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(logger))),
		),
		logger:          logger.WithField("component", "scheduler"),
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
		checkTimeout:    5 * time.Second,
	}
}

// ScheduleCachePurge purges expired cache entries on the given cron schedule
func (s *Scheduler) ScheduleCachePurge(cronExpression string, purger Purger) error {
	return s.addJob(cronExpression, "cache_purge", func() {
		remaining := purger.DeleteExpired()
		s.logger.WithField("remaining_items", remaining).Debug("Cache purge completed")
	})
}

// ScheduleDependencyCheck pings a dependency on the given cron schedule and logs failures
func (s *Scheduler) ScheduleDependencyCheck(cronExpression, name string, pinger Pinger) error {
	return s.addJob(cronExpression, "check_"+name, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.checkTimeout)
		defer cancel()

		if err := pinger.Ping(ctx); err != nil {
			s.logger.WithError(err).WithField("dependency", name).Warn("Dependency check failed")
		}
	})
}

func (s *Scheduler) addJob(cronExpression, name string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule %s: %w", name, ErrRunning)
	}

	entryID, err := s.cron.AddFunc(cronExpression, job)
	if err != nil {
		return fmt.Errorf("failed to add job %s: %w", name, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"job":      name,
		"schedule": cronExpression,
	}).Info("Scheduled job")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return ErrRunning
	}
	if len(s.jobIDs) == 0 {
		return ErrNoJobs
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler and waits for running jobs up to the graceful timeout
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.isRunning = false
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler jobs did not finish within %s", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (nextRun.IsZero() || entry.Next.Before(nextRun)) {
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
		if entry := s.cron.Entry(jobID); entry.Valid() {
			entries = append(entries, entry)
		}
	}
	return entries
}
