package services

import (
	"context"
	"time"

	"github.com/kidwell/api-backend/internal/repositories"
	"github.com/kidwell/api-backend/internal/storage"
	"go.uber.org/zap"
)

// CleanupService periodically removes daily logs older than the retention window
type CleanupService struct {
	logRepo   *repositories.DailyLogRepository
	images    storage.ImageStore
	retention time.Duration
	interval  time.Duration
	logger    *zap.Logger
	ticker    *time.Ticker
	done      chan struct{}
	stopped   chan struct{}
}

// NewCleanupService creates a new cleanup service.
// images may be nil, in which case stored photos are left in place.
func NewCleanupService(
	logRepo *repositories.DailyLogRepository,
	images storage.ImageStore,
	retentionDays int,
	logger *zap.Logger,
) *CleanupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CleanupService{
		logRepo:   logRepo,
		images:    images,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		interval:  24 * time.Hour,
		logger:    logger,
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
}

// CleanupResult summarizes one cleanup run
type CleanupResult struct {
	LogsDeleted   int64 `json:"logs_deleted"`
	ImagesDeleted int   `json:"images_deleted"`
}

// Start runs a cleanup immediately and then every 24 hours
func (s *CleanupService) Start() {
	s.runCleanup(context.Background())

	s.ticker = time.NewTicker(s.interval)

	go func() {
		defer close(s.stopped)
		for {
			select {
			case <-s.ticker.C:
				s.runCleanup(context.Background())
			case <-s.done:
				s.logger.Info("cleanup service stopped")
				return
			}
		}
	}()

	s.logger.Info("cleanup service started",
		zap.Duration("interval", s.interval),
		zap.Duration("retention", s.retention),
	)
}

// Stop stops the cleanup service and waits for the loop to exit
func (s *CleanupService) Stop() {
	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.done)
	<-s.stopped
}

// RunCleanupNow triggers an immediate cleanup
func (s *CleanupService) RunCleanupNow(ctx context.Context) (CleanupResult, error) {
	return s.cleanup(ctx)
}

func (s *CleanupService) runCleanup(ctx context.Context) {
	result, err := s.cleanup(ctx)
	if err != nil {
		s.logger.Error("daily log cleanup failed", zap.Error(err))
		return
	}
	s.logger.Info("daily log cleanup completed",
		zap.Int64("logs_deleted", result.LogsDeleted),
		zap.Int("images_deleted", result.ImagesDeleted),
	)
}

func (s *CleanupService) cleanup(ctx context.Context) (CleanupResult, error) {
	var result CleanupResult
	cutoff := time.Now().UTC().Add(-s.retention)

	if s.images != nil {
		stale, err := s.logRepo.FindOlderThan(ctx, cutoff)
		if err != nil {
			return result, err
		}
		for _, log := range stale {
			for _, ref := range []*string{log.BreakfastImageRef, log.LunchImageRef, log.DinnerImageRef} {
				if ref == nil {
					continue
				}
				if err := s.images.Delete(ctx, *ref); err != nil {
					s.logger.Warn("failed to delete meal image", zap.String("ref", *ref), zap.Error(err))
					continue
				}
				result.ImagesDeleted++
			}
		}
	}

	deleted, err := s.logRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return result, err
	}
	result.LogsDeleted = deleted

	return result, nil
}
