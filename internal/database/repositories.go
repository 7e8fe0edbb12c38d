package database

import (
	"context"
	"time"

	"github.com/gamewise/wishlist-api/internal/models"
	"github.com/google/uuid"
)

// UserRepositoryInterface defines the interface for user repository operations
type UserRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetBySteamID(ctx context.Context, steamID string) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) error
}

// LibraryRepositoryInterface defines the interface for library repository operations
// This interface enables better testability by allowing mock implementations
type LibraryRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.LibraryGame, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.LibraryGame, error)
	UpsertFromSync(ctx context.Context, game *models.LibraryGame) error
}

// WishlistRepositoryInterface defines the interface for wishlist repository operations
type WishlistRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.WishlistItem, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.WishlistItem, error)
	UpdatePrices(ctx context.Context, id uuid.UUID, listPrice, currentPrice float64) error
	UpdateScore(ctx context.Context, id uuid.UUID, score int) error
}

// UserActivityRepositoryInterface defines the interface for user activity repository operations
type UserActivityRepositoryInterface interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserActivity, error)
	TouchLastSeen(ctx context.Context, userID uuid.UUID) error
	MarkLibrarySynced(ctx context.Context, userID uuid.UUID) error
	MarkPriceChecked(ctx context.Context, userID uuid.UUID) error
	GetUsersNeedingPriceRefresh(ctx context.Context, activeSince, staleBefore time.Time) ([]uuid.UUID, error)
}

// Ensure concrete types implement the interfaces
var (
	_ UserRepositoryInterface         = (*UserRepository)(nil)
	_ LibraryRepositoryInterface      = (*LibraryRepository)(nil)
	_ WishlistRepositoryInterface     = (*WishlistRepository)(nil)
	_ UserActivityRepositoryInterface = (*UserActivityRepository)(nil)
)
