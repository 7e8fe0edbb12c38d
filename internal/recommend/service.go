package recommend

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gamewise/wishlist-api/internal/metrics"
	"github.com/gamewise/wishlist-api/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LibraryReader provides the played-library rows scoring needs
type LibraryReader interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.LibraryGame, error)
}

// WishlistStore provides wishlist candidates and persists computed scores
type WishlistStore interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.WishlistItem, error)
	UpdateScore(ctx context.Context, id uuid.UUID, score int) error
}

// OptimizeOutcome is a budget optimization re-joined to the full scored
// records for display
type OptimizeOutcome struct {
	Budget     float64                       `json:"budget"`
	Selected   []models.ScoredRecommendation `json:"selected_games"`
	TotalCost  float64                       `json:"total_cost"`
	TotalScore float64                       `json:"total_score"`
	Remaining  float64                       `json:"remaining"`
}

// Service orchestrates profile building, scoring, and budget optimization
// over the persistence layer. It holds no per-call state; every request
// builds its own profile, so concurrent use needs no locking.
type Service struct {
	library  LibraryReader
	wishlist WishlistStore
	logger   *zap.Logger
}

// NewService creates a recommendation service
func NewService(library LibraryReader, wishlist WishlistStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		library:  library,
		wishlist: wishlist,
		logger:   logger,
	}
}

// GenerateRecommendations scores the user's wishlist against their play
// history and returns the items ordered by final score descending. The
// computed score is persisted on each wishlist row; persistence failures
// are logged and skipped so one bad row cannot sink the whole run.
func (s *Service) GenerateRecommendations(ctx context.Context, userID uuid.UUID) ([]models.ScoredRecommendation, error) {
	start := time.Now()

	items, err := s.wishlist.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wishlist: %w", err)
	}
	if len(items) == 0 {
		return []models.ScoredRecommendation{}, nil
	}

	library, err := s.library.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load library: %w", err)
	}

	profile := BuildTagProfile(library)

	candidates := make([]models.WishlistItem, 0, len(items))
	for _, item := range items {
		candidates = append(candidates, *item)
	}
	scored := ScoreAll(profile, candidates)

	for _, rec := range scored {
		if err := s.wishlist.UpdateScore(ctx, rec.Item.ID, rec.FinalScore); err != nil {
			s.logger.Warn("failed_to_persist_recommendation_score",
				zap.String("item_id", rec.Item.ID.String()),
				zap.Error(err),
			)
			metrics.RecommendationsGenerated.WithLabelValues("score_persist_failed").Inc()
			continue
		}
		metrics.RecommendationsGenerated.WithLabelValues("ok").Inc()
	}

	metrics.ScoringDuration.Observe(time.Since(start).Seconds())
	s.logger.Info("recommendations_generated",
		zap.String("user_id", userID.String()),
		zap.Int("wishlist_items", len(scored)),
		zap.Int("profile_tags", len(profile)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return scored, nil
}

// OptimizeBudget scores the user's wishlist, then selects the best-scoring
// subset affordable within budget. The budget is validated before any
// optimization work begins.
func (s *Service) OptimizeBudget(ctx context.Context, userID uuid.UUID, budget float64) (*OptimizeOutcome, error) {
	if budget <= 0 || math.IsNaN(budget) || math.IsInf(budget, 0) {
		return nil, ErrInvalidBudget
	}

	scored, err := s.GenerateRecommendations(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(scored) == 0 {
		return &OptimizeOutcome{
			Budget:    budget,
			Selected:  []models.ScoredRecommendation{},
			Remaining: budget,
		}, nil
	}

	knapsackItems := make([]models.KnapsackItem, 0, len(scored))
	byID := make(map[uuid.UUID]models.ScoredRecommendation, len(scored))
	for _, rec := range scored {
		knapsackItems = append(knapsackItems, models.KnapsackItem{
			ID:    rec.Item.ID,
			Price: rec.Item.CurrentPrice,
			Score: float64(rec.FinalScore),
		})
		byID[rec.Item.ID] = rec
	}

	algorithm := "greedy"
	if UsesExactSolver(len(knapsackItems), budget) {
		algorithm = "exact"
	}

	result := Optimize(knapsackItems, budget)

	metrics.OptimizerRuns.WithLabelValues(algorithm).Inc()
	metrics.OptimizerSelectedItems.Observe(float64(len(result.SelectedIDs)))

	selected := make([]models.ScoredRecommendation, 0, len(result.SelectedIDs))
	for _, id := range result.SelectedIDs {
		if rec, ok := byID[id]; ok {
			selected = append(selected, rec)
		}
	}

	s.logger.Info("budget_optimized",
		zap.String("user_id", userID.String()),
		zap.String("algorithm", algorithm),
		zap.Float64("budget", budget),
		zap.Int("candidates", len(knapsackItems)),
		zap.Int("selected", len(selected)),
		zap.Float64("total_cost", result.TotalCost),
	)

	return &OptimizeOutcome{
		Budget:     budget,
		Selected:   selected,
		TotalCost:  result.TotalCost,
		TotalScore: result.TotalScore,
		Remaining:  result.Remaining,
	}, nil
}
