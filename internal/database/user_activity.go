package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gamewise/wishlist-api/internal/models"
	"github.com/google/uuid"
)

// UserActivityRepository tracks per-user sync freshness
type UserActivityRepository struct {
	db *DB
}

// NewUserActivityRepository creates a new user activity repository
func NewUserActivityRepository(db *DB) *UserActivityRepository {
	return &UserActivityRepository{db: db}
}

// GetByUserID retrieves activity for a user
func (r *UserActivityRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserActivity, error) {
	activity := &models.UserActivity{}
	query := `
		SELECT user_id, last_seen_at, last_library_sync_at, last_price_check_at, created_at, updated_at
		FROM user_activity
		WHERE user_id = $1
	`

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&activity.UserID,
		&activity.LastSeenAt,
		&activity.LastLibrarySyncAt,
		&activity.LastPriceCheckAt,
		&activity.CreatedAt,
		&activity.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user activity not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user activity: %w", err)
	}

	return activity, nil
}

// TouchLastSeen records that a user made an authenticated request
func (r *UserActivityRepository) TouchLastSeen(ctx context.Context, userID uuid.UUID) error {
	now := time.Now()
	query := `
		INSERT INTO user_activity (user_id, last_seen_at, created_at, updated_at)
		VALUES ($1, $2, $2, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			last_seen_at = EXCLUDED.last_seen_at,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, userID, now); err != nil {
		return fmt.Errorf("failed to touch last seen: %w", err)
	}
	return nil
}

// MarkLibrarySynced records a completed library sync
func (r *UserActivityRepository) MarkLibrarySynced(ctx context.Context, userID uuid.UUID) error {
	now := time.Now()
	query := `
		INSERT INTO user_activity (user_id, last_seen_at, last_library_sync_at, created_at, updated_at)
		VALUES ($1, $2, $2, $2, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			last_library_sync_at = EXCLUDED.last_library_sync_at,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, userID, now); err != nil {
		return fmt.Errorf("failed to mark library synced: %w", err)
	}
	return nil
}

// MarkPriceChecked records a completed wishlist price refresh
func (r *UserActivityRepository) MarkPriceChecked(ctx context.Context, userID uuid.UUID) error {
	now := time.Now()
	query := `
		INSERT INTO user_activity (user_id, last_seen_at, last_price_check_at, created_at, updated_at)
		VALUES ($1, $2, $2, $2, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			last_price_check_at = EXCLUDED.last_price_check_at,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, userID, now); err != nil {
		return fmt.Errorf("failed to mark price checked: %w", err)
	}
	return nil
}

// GetUsersNeedingPriceRefresh returns users active since activeSince whose
// wishlist prices were last checked before staleBefore (or never). The
// refresh worker only spends Steam API budget on people still using the app.
func (r *UserActivityRepository) GetUsersNeedingPriceRefresh(ctx context.Context, activeSince, staleBefore time.Time) ([]uuid.UUID, error) {
	query := `
		SELECT user_id
		FROM user_activity
		WHERE last_seen_at >= $1
		  AND (last_price_check_at IS NULL OR last_price_check_at < $2)
		ORDER BY last_price_check_at ASC NULLS FIRST
	`

	rows, err := r.db.QueryContext(ctx, query, activeSince, staleBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to list users needing price refresh: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var userIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user activity: %w", err)
	}

	return userIDs, nil
}
