package models

import (
	"time"

	"github.com/google/uuid"
)

// UserActivity tracks when a user was last seen and when their Steam data
// was last synchronized. The refresh worker scans these rows to find users
// whose library or wishlist prices have gone stale.
type UserActivity struct {
	UserID            uuid.UUID  `json:"user_id"`
	LastSeenAt        time.Time  `json:"last_seen_at"`
	LastLibrarySyncAt *time.Time `json:"last_library_sync_at,omitempty"`
	LastPriceCheckAt  *time.Time `json:"last_price_check_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
