package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// WishlistItem represents a game the user is watching for a deal
type WishlistItem struct {
	ID                  uuid.UUID `json:"id"`
	UserID              uuid.UUID `json:"user_id"`
	AppID               *string   `json:"app_id,omitempty"`
	Name                string    `json:"name"`
	Tags                []string  `json:"tags"`
	ListPrice           float64   `json:"list_price"`
	CurrentPrice        float64   `json:"current_price"`
	DiscountPercent     int       `json:"discount_percent"`
	RecommendationScore *int      `json:"recommendation_score,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// DiscountPercentFor computes the discount implied by a list and current
// price, rounded to the nearest whole percent. A free-to-list item has no
// meaningful discount.
func DiscountPercentFor(listPrice, currentPrice float64) int {
	if listPrice <= 0 {
		return 0
	}
	return int(math.Round((listPrice - currentPrice) / listPrice * 100))
}
