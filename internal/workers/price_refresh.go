package workers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gamewise/wishlist-api/internal/database"
	"github.com/gamewise/wishlist-api/internal/queue"
	"github.com/gamewise/wishlist-api/internal/services/steam"
	"go.uber.org/zap"
)

// SteamPriceSource is the slice of the Steam client the refresher needs.
type SteamPriceSource interface {
	GetAppDetails(ctx context.Context, appID int) (*steam.AppDetails, error)
}

// PriceRefresher refreshes store prices for a user's wishlist and then
// queues a rescore so recommendations track the new prices.
type PriceRefresher struct {
	steamClient  SteamPriceSource
	wishlistRepo database.WishlistRepositoryInterface
	activityRepo database.UserActivityRepositoryInterface
	jobQueue     queue.JobQueue
	logger       *zap.Logger
}

// NewPriceRefresher creates a new price refresher
func NewPriceRefresher(
	steamClient SteamPriceSource,
	wishlistRepo database.WishlistRepositoryInterface,
	activityRepo database.UserActivityRepositoryInterface,
	jobQueue queue.JobQueue,
	logger *zap.Logger,
) *PriceRefresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriceRefresher{
		steamClient:  steamClient,
		wishlistRepo: wishlistRepo,
		activityRepo: activityRepo,
		jobQueue:     jobQueue,
		logger:       logger,
	}
}

// ProcessWishlistRefreshJob updates prices for every wishlist item with an
// app ID. Items added by hand without one keep their manual prices. A
// partial refresh still counts; only a total failure returns an error so
// the job retries.
func (p *PriceRefresher) ProcessWishlistRefreshJob(ctx context.Context, job *queue.Job) error {
	items, err := p.wishlistRepo.GetByUserID(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("failed to load wishlist: %w", err)
	}

	attempted, refreshed := 0, 0
	for _, item := range items {
		if item.AppID == nil {
			continue
		}
		appID, err := strconv.Atoi(*item.AppID)
		if err != nil {
			p.logger.Warn("wishlist_item_bad_app_id",
				zap.String("item_id", item.ID.String()),
				zap.String("app_id", *item.AppID),
			)
			continue
		}
		attempted++

		details, err := p.steamClient.GetAppDetails(ctx, appID)
		if err != nil {
			if errors.Is(err, steam.ErrRateLimited) {
				return fmt.Errorf("store rate limited after %d item(s): %w", refreshed, err)
			}
			p.logger.Warn("price_lookup_failed",
				zap.String("item_id", item.ID.String()),
				zap.Int("app_id", appID),
				zap.Error(err),
			)
			continue
		}

		if err := p.wishlistRepo.UpdatePrices(ctx, item.ID, details.ListPrice, details.CurrentPrice); err != nil {
			p.logger.Warn("price_update_failed",
				zap.String("item_id", item.ID.String()),
				zap.Error(err),
			)
			continue
		}
		refreshed++
	}

	if attempted > 0 && refreshed == 0 {
		return fmt.Errorf("refreshed 0 of %d wishlist item(s)", attempted)
	}

	if err := p.activityRepo.MarkPriceChecked(ctx, job.UserID); err != nil {
		p.logger.Warn("mark_price_checked_failed",
			zap.String("user_id", job.UserID.String()),
			zap.Error(err),
		)
	}

	// Fresh prices shift discount sub-scores, so queue a rescore. Debounced
	// like the post-sync rescore so overlapping refreshes coalesce.
	rescore := queue.NewJob(queue.JobTypeRecommendationRefresh, job.UserID)
	notBefore := time.Now().Add(rescoreDebounce)
	rescore.NotBefore = &notBefore
	if err := p.jobQueue.Enqueue(ctx, rescore); err != nil {
		p.logger.Warn("rescore_enqueue_failed",
			zap.String("user_id", job.UserID.String()),
			zap.Error(err),
		)
	}

	p.logger.Info("wishlist_refresh_completed",
		zap.String("user_id", job.UserID.String()),
		zap.Int("attempted", attempted),
		zap.Int("refreshed", refreshed),
	)

	return nil
}
