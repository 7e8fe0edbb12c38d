package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/gamewise/wishlist-api/internal/queue"
	"go.uber.org/zap"
)

const (
	retryBaseDelay = 30 * time.Second
	retryMaxDelay  = 10 * time.Minute
)

// Dispatcher routes consumed queue messages to the processor for their job
// type and owns the ack/retry decision.
type Dispatcher struct {
	syncer    *LibrarySyncer
	refresher *PriceRefresher
	rescorer  *Rescorer
	jobQueue  queue.JobQueue
	logger    *zap.Logger
}

// NewDispatcher creates a dispatcher over the three job processors
func NewDispatcher(syncer *LibrarySyncer, refresher *PriceRefresher, rescorer *Rescorer, jobQueue queue.JobQueue, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		syncer:    syncer,
		refresher: refresher,
		rescorer:  rescorer,
		jobQueue:  jobQueue,
		logger:    logger,
	}
}

// ProcessJob processes a message based on its job type
func (d *Dispatcher) ProcessJob(ctx context.Context, msg queue.MessageInterface) error {
	job := msg.GetJob()

	var err error
	switch job.Type {
	case queue.JobTypeLibrarySync:
		err = d.syncer.ProcessLibrarySyncJob(ctx, job)
	case queue.JobTypeWishlistRefresh:
		err = d.refresher.ProcessWishlistRefreshJob(ctx, job)
	case queue.JobTypeRecommendationRefresh:
		err = d.rescorer.ProcessRecommendationRefreshJob(ctx, job)
	default:
		if nackErr := msg.Nack(false); nackErr != nil {
			d.logger.Warn("failed_to_nack_unknown_job", zap.Error(nackErr))
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}

	if err != nil {
		return d.handleJobError(ctx, msg, job, err)
	}

	if ackErr := msg.Ack(); ackErr != nil {
		return fmt.Errorf("failed to ack job: %w", ackErr)
	}
	return nil
}

// handleJobError re-enqueues a failed job with backoff while retries
// remain; exhausted jobs go to the DLQ.
func (d *Dispatcher) handleJobError(ctx context.Context, msg queue.MessageInterface, job *queue.Job, err error) error {
	if !job.CanRetry() {
		d.logger.Error("job_retries_exhausted",
			zap.String("job_id", job.ID.String()),
			zap.String("job_type", string(job.Type)),
			zap.Int("retry_count", job.RetryCount),
			zap.Error(err),
		)
		if nackErr := msg.Nack(false); nackErr != nil {
			d.logger.Warn("failed_to_nack_exhausted_job", zap.Error(nackErr))
		}
		return fmt.Errorf("job %s failed permanently: %w", job.ID, err)
	}

	job.IncrementRetry()
	delay := retryBaseDelay * time.Duration(1<<uint(job.RetryCount-1))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	notBefore := time.Now().Add(delay)
	job.NotBefore = &notBefore

	if enqueueErr := d.jobQueue.Enqueue(ctx, job); enqueueErr != nil {
		// Could not schedule the retry; leave the original message for
		// redelivery instead of losing the job.
		d.logger.Error("failed_to_enqueue_retry",
			zap.String("job_id", job.ID.String()),
			zap.Error(enqueueErr),
		)
		if nackErr := msg.Nack(true); nackErr != nil {
			d.logger.Warn("failed_to_nack_for_redelivery", zap.Error(nackErr))
		}
		return fmt.Errorf("job %s retry scheduling failed: %w", job.ID, enqueueErr)
	}

	d.logger.Warn("job_retry_scheduled",
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", string(job.Type)),
		zap.Int("retry_count", job.RetryCount),
		zap.Duration("delay", delay),
		zap.Error(err),
	)

	if ackErr := msg.Ack(); ackErr != nil {
		return fmt.Errorf("failed to ack job after scheduling retry: %w", ackErr)
	}
	return nil
}
