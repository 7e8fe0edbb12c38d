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

// WishlistRepository handles wishlist database operations
type WishlistRepository struct {
	db *DB
}

// NewWishlistRepository creates a new wishlist repository
func NewWishlistRepository(db *DB) *WishlistRepository {
	return &WishlistRepository{db: db}
}

const wishlistColumns = `
	id, user_id, app_id, name, tags, list_price, current_price,
	discount_percent, recommendation_score, created_at, updated_at
`

func scanWishlistItem(row interface{ Scan(...any) error }) (*models.WishlistItem, error) {
	item := &models.WishlistItem{}
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.AppID,
		&item.Name,
		pq.Array(&item.Tags),
		&item.ListPrice,
		&item.CurrentPrice,
		&item.DiscountPercent,
		&item.RecommendationScore,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Create inserts a new wishlist item
func (r *WishlistRepository) Create(ctx context.Context, item *models.WishlistItem) error {
	query := `
		INSERT INTO wishlist_items (
			id, user_id, app_id, name, tags, list_price, current_price,
			discount_percent, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		item.ID,
		item.UserID,
		item.AppID,
		item.Name,
		pq.Array(item.Tags),
		item.ListPrice,
		item.CurrentPrice,
		item.DiscountPercent,
		time.Now(),
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create wishlist item: %w", err)
	}

	return nil
}

// GetByID retrieves a single wishlist item
func (r *WishlistRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.WishlistItem, error) {
	query := `SELECT ` + wishlistColumns + ` FROM wishlist_items WHERE id = $1`

	item, err := scanWishlistItem(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("wishlist item not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wishlist item: %w", err)
	}

	return item, nil
}

// GetByUserID retrieves a user's wishlist ordered by recommendation score
// descending, unscored items last.
func (r *WishlistRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.WishlistItem, error) {
	query := `
		SELECT ` + wishlistColumns + `
		FROM wishlist_items
		WHERE user_id = $1
		ORDER BY recommendation_score DESC NULLS LAST, name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []*models.WishlistItem
	for rows.Next() {
		item, err := scanWishlistItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wishlist items: %w", err)
	}

	return items, nil
}

// Update replaces the editable fields of a wishlist item. The discount is
// recomputed from the prices rather than trusted from the caller.
func (r *WishlistRepository) Update(ctx context.Context, item *models.WishlistItem) error {
	item.DiscountPercent = models.DiscountPercentFor(item.ListPrice, item.CurrentPrice)

	query := `
		UPDATE wishlist_items
		SET name = $2, tags = $3, list_price = $4, current_price = $5,
			discount_percent = $6, updated_at = $7
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		item.ID,
		item.Name,
		pq.Array(item.Tags),
		item.ListPrice,
		item.CurrentPrice,
		item.DiscountPercent,
		time.Now(),
	).Scan(&item.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("wishlist item not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update wishlist item: %w", err)
	}

	return nil
}

// UpdatePrices refreshes prices from a store lookup and recomputes the
// discount. Used by the price refresh worker.
func (r *WishlistRepository) UpdatePrices(ctx context.Context, id uuid.UUID, listPrice, currentPrice float64) error {
	discount := models.DiscountPercentFor(listPrice, currentPrice)

	query := `
		UPDATE wishlist_items
		SET list_price = $2, current_price = $3, discount_percent = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, listPrice, currentPrice, discount, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update wishlist prices: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("wishlist item not found")
	}

	return nil
}

// UpdateScore persists a computed recommendation score
func (r *WishlistRepository) UpdateScore(ctx context.Context, id uuid.UUID, score int) error {
	query := `UPDATE wishlist_items SET recommendation_score = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, score, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update recommendation score: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("wishlist item not found")
	}

	return nil
}

// Delete removes a wishlist item
func (r *WishlistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM wishlist_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete wishlist item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("wishlist item not found")
	}

	return nil
}
