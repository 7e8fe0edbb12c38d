package workers

import (
	"context"
	"fmt"

	"github.com/gamewise/wishlist-api/internal/queue"
	"github.com/gamewise/wishlist-api/internal/recommend"
	"go.uber.org/zap"
)

// Rescorer recomputes recommendation scores for a user's wishlist.
type Rescorer struct {
	recommender *recommend.Service
	logger      *zap.Logger
}

// NewRescorer creates a new rescorer
func NewRescorer(recommender *recommend.Service, logger *zap.Logger) *Rescorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rescorer{recommender: recommender, logger: logger}
}

// ProcessRecommendationRefreshJob rescores the wishlist. Scores persist as
// a side effect of generation.
func (r *Rescorer) ProcessRecommendationRefreshJob(ctx context.Context, job *queue.Job) error {
	recs, err := r.recommender.GenerateRecommendations(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("failed to rescore wishlist: %w", err)
	}

	r.logger.Info("recommendation_refresh_completed",
		zap.String("user_id", job.UserID.String()),
		zap.Int("items", len(recs)),
	)
	return nil
}
