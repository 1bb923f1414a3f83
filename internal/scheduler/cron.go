package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CatalogWarmer refreshes cached catalog lists
type CatalogWarmer interface {
	Warm(ctx context.Context) error
}

// SessionReaper ends idle user sessions
type SessionReaper interface {
	ReapIdle() int
}

// Pinger checks a backing store
type Pinger interface {
	Ping(ctx context.Context) error
}

// Scheduler manages scheduled tasks
type Scheduler struct {
	cron     *cron.Cron
	warmer   CatalogWarmer
	sessions SessionReaper
	db       Pinger
	logger   *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(warmer CatalogWarmer, sessions SessionReaper, db Pinger, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		warmer:   warmer,
		sessions: sessions,
		db:       db,
		logger:   logger,
	}
}

// Start registers the jobs and starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	// Every hour, just after the cache window rolls over: warm landing catalogs
	_, err := s.cron.AddFunc("5 * * * *", func() {
		s.runWarmup()
	})
	if err != nil {
		return fmt.Errorf("failed to add warmup job: %w", err)
	}

	// Every 5 minutes: end idle sessions
	_, err = s.cron.AddFunc("*/5 * * * *", func() {
		s.runReap()
	})
	if err != nil {
		return fmt.Errorf("failed to add session reaper job: %w", err)
	}

	// Every 10 minutes: check the database connection
	_, err = s.cron.AddFunc("*/10 * * * *", func() {
		s.runHealthCheck()
	})
	if err != nil {
		return fmt.Errorf("failed to add health check job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")

	// Warm the cache immediately so the first visitor is served from it
	go s.runWarmup()

	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runWarmup() {
	s.logger.Debug("Running catalog warmup")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.warmer.Warm(ctx); err != nil {
		s.logger.WithError(err).Warn("Catalog warmup failed")
	} else {
		s.logger.Debug("Catalog warmup completed")
	}
}

func (s *Scheduler) runReap() {
	if n := s.sessions.ReapIdle(); n > 0 {
		s.logger.WithField("count", n).Debug("Session reaper ended idle sessions")
	}
}

func (s *Scheduler) runHealthCheck() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		s.logger.WithError(err).Error("Database health check failed")
	}
}
