package workers

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gamewise/wishlist-api/internal/database"
	"github.com/gamewise/wishlist-api/internal/models"
	"github.com/gamewise/wishlist-api/internal/queue"
	"github.com/gamewise/wishlist-api/internal/services/steam"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxEnrichedGames caps how many games per sync get storefront genre and
// achievement lookups. The storefront throttle makes each lookup cost more
// than a second, so enrichment focuses on the games with the most playtime,
// which are the ones that shape the tag profile.
const maxEnrichedGames = 25

// rescoreDebounce delays the rescore queued after a sync or price refresh,
// so a burst of data changes collapses into one scoring run.
const rescoreDebounce = 30 * time.Second

// SteamLibrarySource is the slice of the Steam client the syncer needs.
type SteamLibrarySource interface {
	GetOwnedGames(ctx context.Context, steamID string) ([]steam.OwnedGame, error)
	GetAppDetails(ctx context.Context, appID int) (*steam.AppDetails, error)
	GetAchievements(ctx context.Context, steamID string, appID int) (*steam.AchievementProgress, error)
}

// LibrarySyncer imports a user's owned games from Steam into the library.
type LibrarySyncer struct {
	steamClient  SteamLibrarySource
	userRepo     database.UserRepositoryInterface
	libraryRepo  database.LibraryRepositoryInterface
	activityRepo database.UserActivityRepositoryInterface
	jobQueue     queue.JobQueue
	logger       *zap.Logger
}

// NewLibrarySyncer creates a new library syncer
func NewLibrarySyncer(
	steamClient SteamLibrarySource,
	userRepo database.UserRepositoryInterface,
	libraryRepo database.LibraryRepositoryInterface,
	activityRepo database.UserActivityRepositoryInterface,
	jobQueue queue.JobQueue,
	logger *zap.Logger,
) *LibrarySyncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LibrarySyncer{
		steamClient:  steamClient,
		userRepo:     userRepo,
		libraryRepo:  libraryRepo,
		activityRepo: activityRepo,
		jobQueue:     jobQueue,
		logger:       logger,
	}
}

// ProcessLibrarySyncJob imports the user's owned games. Catalog fields are
// overwritten; user curation (ratings, tiers, tags, status) is preserved by
// the upsert. Games beyond the enrichment cap still sync name and playtime.
func (s *LibrarySyncer) ProcessLibrarySyncJob(ctx context.Context, job *queue.Job) error {
	user, err := s.userRepo.GetByID(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	owned, err := s.steamClient.GetOwnedGames(ctx, user.SteamID)
	if err != nil {
		return fmt.Errorf("failed to fetch owned games: %w", err)
	}

	// Most-played first, so the enrichment budget lands on the games that
	// shape the tag profile.
	sort.Slice(owned, func(i, j int) bool {
		return owned[i].PlaytimeForever > owned[j].PlaytimeForever
	})

	synced := 0
	for i, ownedGame := range owned {
		game := &models.LibraryGame{
			ID:              uuid.New(),
			UserID:          user.ID,
			AppID:           fmt.Sprintf("%d", ownedGame.AppID),
			Name:            ownedGame.Name,
			PlaytimeMinutes: ownedGame.PlaytimeForever,
			Status:          models.GameStatusUnplayed,
		}
		if ownedGame.PlaytimeForever > 0 {
			game.Status = models.GameStatusBacklog
		}

		if i < maxEnrichedGames {
			s.enrich(ctx, user.SteamID, ownedGame.AppID, game)
		}

		if err := s.libraryRepo.UpsertFromSync(ctx, game); err != nil {
			s.logger.Warn("library_game_upsert_failed",
				zap.String("user_id", user.ID.String()),
				zap.String("app_id", game.AppID),
				zap.Error(err),
			)
			continue
		}
		synced++
	}

	if err := s.activityRepo.MarkLibrarySynced(ctx, user.ID); err != nil {
		s.logger.Warn("mark_library_synced_failed",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}

	// A synced library shifts the tag profile, so queue a rescore. Debounced
	// so back-to-back syncs collapse into one scoring run.
	rescore := queue.NewJob(queue.JobTypeRecommendationRefresh, user.ID)
	notBefore := time.Now().Add(rescoreDebounce)
	rescore.NotBefore = &notBefore
	if err := s.jobQueue.Enqueue(ctx, rescore); err != nil {
		s.logger.Warn("rescore_enqueue_failed",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("library_sync_completed",
		zap.String("user_id", user.ID.String()),
		zap.Int("owned", len(owned)),
		zap.Int("synced", synced),
	)

	return nil
}

// enrich attaches storefront genres and achievement progress. Failures are
// logged and skipped; a sync without genres still beats no sync.
func (s *LibrarySyncer) enrich(ctx context.Context, steamID string, appID int, game *models.LibraryGame) {
	details, err := s.steamClient.GetAppDetails(ctx, appID)
	if err != nil {
		s.logger.Debug("app_details_lookup_failed",
			zap.Int("app_id", appID),
			zap.Error(err),
		)
	} else {
		game.Genres = details.Genres
	}

	if game.PlaytimeMinutes == 0 {
		return
	}
	progress, err := s.steamClient.GetAchievements(ctx, steamID, appID)
	if err != nil {
		s.logger.Debug("achievements_lookup_failed",
			zap.Int("app_id", appID),
			zap.Error(err),
		)
		return
	}
	game.AchievementsTotal = progress.Total
	game.AchievementsCompleted = progress.Completed
}
