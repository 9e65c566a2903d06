package scheduler

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/ujjwalsingh108/sms-web-sub003/internal/config"
	"github.com/ujjwalsingh108/sms-web-sub003/internal/repository"
)

// CleanupScheduler handles scheduled retention cleanup of activity logs
type CleanupScheduler struct {
	repo    repository.ActivityRepository
	config  config.RetentionConfig
	logger  *logrus.Logger
	cron    *cron.Cron
	mu      sync.Mutex
	running bool
}

// NewCleanupScheduler creates a new cleanup scheduler
func NewCleanupScheduler(repo repository.ActivityRepository, cfg config.RetentionConfig, logger *logrus.Logger) *CleanupScheduler {
	return &CleanupScheduler{
		repo:   repo,
		config: cfg,
		logger: logger,
	}
}

// Start starts the cleanup scheduler
func (s *CleanupScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	if !s.config.CleanupEnabled || s.config.Days <= 0 {
		s.logger.Info("Activity log retention cleanup is disabled")
		return nil
	}

	s.cron = cron.New(cron.WithSeconds())

	schedule := s.config.CleanupSchedule
	if schedule == "" {
		schedule = "0 0 2 * * *"
	}

	// Standard cron has 5 fields, cron.WithSeconds() expects 6
	if fields := strings.Fields(schedule); len(fields) == 5 {
		schedule = "0 " + schedule
	}

	if _, err := s.cron.AddFunc(schedule, s.runCleanup); err != nil {
		s.logger.WithError(err).Error("Failed to schedule cleanup job")
		return err
	}

	s.cron.Start()
	s.running = true

	s.logger.WithFields(logrus.Fields{
		"schedule":       s.config.CleanupSchedule,
		"retention_days": s.config.Days,
		"batch_size":     s.config.BatchSize,
	}).Info("Activity log cleanup scheduler started")

	return nil
}

// Stop stops the cleanup scheduler and waits for a running job to finish
func (s *CleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.cron == nil {
		return
	}

	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(30 * time.Second):
		s.logger.Warn("Cleanup scheduler stop timed out")
	}
	s.running = false
	s.logger.Info("Activity log cleanup scheduler stopped")
}

// runCleanup deletes activity logs older than the retention window
func (s *CleanupScheduler) runCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -s.config.Days)

	batchSize := s.config.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}

	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff, batchSize)
	if err != nil {
		s.logger.WithError(err).Error("Activity log cleanup failed")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"deleted": deleted,
		"cutoff":  cutoff.Format(time.RFC3339),
	}).Info("Activity log cleanup completed")
}
