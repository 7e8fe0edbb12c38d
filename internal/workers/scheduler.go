package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/gamewise/wishlist-api/internal/database"
	"github.com/gamewise/wishlist-api/internal/queue"
	"go.uber.org/zap"
)

const (
	// activeWindow is how recently a user must have been seen for the
	// scheduler to spend Steam API budget on them.
	activeWindow = 7 * 24 * time.Hour
	// priceStaleAfter is how old a price check can get before a refresh
	// is queued.
	priceStaleAfter = 6 * time.Hour
)

// Scheduler periodically queues wishlist price refreshes for active users
// with stale prices.
type Scheduler struct {
	jobQueue     queue.JobQueue
	activityRepo database.UserActivityRepositoryInterface
	interval     time.Duration
	logger       *zap.Logger
}

// NewScheduler creates a new refresh scheduler
func NewScheduler(jobQueue queue.JobQueue, activityRepo database.UserActivityRepositoryInterface, interval time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		jobQueue:     jobQueue,
		activityRepo: activityRepo,
		interval:     interval,
		logger:       logger,
	}
}

// Start runs the scheduling loop until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.ScheduleRefreshJobs(ctx); err != nil {
				s.logger.Warn("refresh_scheduling_failed", zap.Error(err))
			}
		}
	}
}

// ScheduleRefreshJobs queues one wishlist refresh per user whose prices
// have gone stale. Jobs expire at the next sweep so a backlog cannot pile
// up duplicate work.
func (s *Scheduler) ScheduleRefreshJobs(ctx context.Context) error {
	now := time.Now()
	userIDs, err := s.activityRepo.GetUsersNeedingPriceRefresh(ctx, now.Add(-activeWindow), now.Add(-priceStaleAfter))
	if err != nil {
		return fmt.Errorf("failed to find users needing refresh: %w", err)
	}

	queued := 0
	for _, userID := range userIDs {
		job := queue.NewJob(queue.JobTypeWishlistRefresh, userID)
		expiry := now.Add(s.interval)
		job.NotAfter = &expiry

		if err := s.jobQueue.Enqueue(ctx, job); err != nil {
			s.logger.Warn("refresh_enqueue_failed",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
			continue
		}
		queued++
	}

	if queued > 0 {
		s.logger.Info("refresh_jobs_scheduled", zap.Int("count", queued))
	}
	return nil
}
