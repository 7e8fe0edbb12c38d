package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gamewise/wishlist-api/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// LibraryRepository handles library game database operations
type LibraryRepository struct {
	db *DB
}

// NewLibraryRepository creates a new library repository
func NewLibraryRepository(db *DB) *LibraryRepository {
	return &LibraryRepository{db: db}
}

const libraryColumns = `
	id, user_id, app_id, name, genres, user_tags, playtime_minutes,
	rating, tier, status, price_paid, price_per_hour,
	achievements_total, achievements_completed, completed_at,
	created_at, updated_at
`

func scanLibraryGame(row interface{ Scan(...any) error }) (*models.LibraryGame, error) {
	game := &models.LibraryGame{}
	err := row.Scan(
		&game.ID,
		&game.UserID,
		&game.AppID,
		&game.Name,
		pq.Array(&game.Genres),
		pq.Array(&game.UserTags),
		&game.PlaytimeMinutes,
		&game.Rating,
		&game.Tier,
		&game.Status,
		&game.PricePaid,
		&game.PricePerHour,
		&game.AchievementsTotal,
		&game.AchievementsCompleted,
		&game.CompletedAt,
		&game.CreatedAt,
		&game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return game, nil
}

// GetByID retrieves a single library game
func (r *LibraryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.LibraryGame, error) {
	query := `SELECT ` + libraryColumns + ` FROM library_games WHERE id = $1`

	game, err := scanLibraryGame(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("library game not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get library game: %w", err)
	}

	return game, nil
}

// GetByUserID retrieves a user's full library ordered by playtime descending
func (r *LibraryRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.LibraryGame, error) {
	query := `
		SELECT ` + libraryColumns + `
		FROM library_games
		WHERE user_id = $1
		ORDER BY playtime_minutes DESC, name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list library games: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var games []*models.LibraryGame
	for rows.Next() {
		game, err := scanLibraryGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan library game: %w", err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate library games: %w", err)
	}

	return games, nil
}

// UpsertFromSync inserts or refreshes a game from a Steam library sync,
// keyed by (user_id, app_id). Sync owns the catalog fields; user-assigned
// fields (rating, tier, user tags, status) are left alone on conflict so a
// resync never clobbers manual curation. Enrichment fields (genres,
// achievements) only run for the most-played games each sync, so an
// unenriched incoming row keeps whatever a previous sync stored instead of
// blanking it.
func (r *LibraryRepository) UpsertFromSync(ctx context.Context, game *models.LibraryGame) error {
	query := `
		INSERT INTO library_games (
			id, user_id, app_id, name, genres, user_tags, playtime_minutes,
			status, achievements_total, achievements_completed, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		ON CONFLICT (user_id, app_id) DO UPDATE SET
			name = EXCLUDED.name,
			genres = CASE WHEN cardinality(EXCLUDED.genres) > 0
				THEN EXCLUDED.genres ELSE library_games.genres END,
			playtime_minutes = EXCLUDED.playtime_minutes,
			achievements_total = CASE WHEN EXCLUDED.achievements_total > 0
				THEN EXCLUDED.achievements_total ELSE library_games.achievements_total END,
			achievements_completed = CASE WHEN EXCLUDED.achievements_total > 0
				THEN EXCLUDED.achievements_completed ELSE library_games.achievements_completed END,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		game.ID,
		game.UserID,
		game.AppID,
		game.Name,
		pq.Array(game.Genres),
		pq.Array(game.UserTags),
		game.PlaytimeMinutes,
		game.Status,
		game.AchievementsTotal,
		game.AchievementsCompleted,
		time.Now(),
	).Scan(&game.ID, &game.CreatedAt, &game.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert library game: %w", err)
	}

	return nil
}

// UpdateRating sets the 1-5 star rating and derives the tier from it when
// the user has not pinned one explicitly.
func (r *LibraryRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating int, tier *models.GameTier) error {
	query := `
		UPDATE library_games
		SET rating = $2, tier = COALESCE($3, tier), updated_at = $4
		WHERE id = $1
	`
	return r.execExpectingRow(ctx, query, id, rating, tier, time.Now())
}

// UpdateTier pins an explicit tier on a library game.
func (r *LibraryRepository) UpdateTier(ctx context.Context, id uuid.UUID, tier models.GameTier) error {
	query := `UPDATE library_games SET tier = $2, updated_at = $3 WHERE id = $1`
	return r.execExpectingRow(ctx, query, id, tier, time.Now())
}

// UpdateStatus moves a game between playing/completed/backlog/unplayed.
// Completion timestamps the transition; leaving completed clears it.
func (r *LibraryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.GameStatus) error {
	query := `
		UPDATE library_games
		SET status = $2,
			completed_at = CASE WHEN $2 = 'completed' THEN $3 ELSE NULL END,
			updated_at = $3
		WHERE id = $1
	`
	return r.execExpectingRow(ctx, query, id, status, time.Now())
}

// UpdateUserTags replaces the user-assigned tag list for a game.
func (r *LibraryRepository) UpdateUserTags(ctx context.Context, id uuid.UUID, tags []string) error {
	query := `UPDATE library_games SET user_tags = $2, updated_at = $3 WHERE id = $1`
	return r.execExpectingRow(ctx, query, id, pq.Array(tags), time.Now())
}

// UpdatePricePaid records what the user paid and the derived price per hour.
func (r *LibraryRepository) UpdatePricePaid(ctx context.Context, id uuid.UUID, pricePaid float64, pricePerHour *float64) error {
	query := `
		UPDATE library_games
		SET price_paid = $2, price_per_hour = $3, updated_at = $4
		WHERE id = $1
	`
	return r.execExpectingRow(ctx, query, id, pricePaid, pricePerHour, time.Now())
}

func (r *LibraryRepository) execExpectingRow(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update library game: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("library game not found")
	}

	return nil
}
