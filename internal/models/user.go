package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a Steam account known to the system
type User struct {
	ID          uuid.UUID `json:"id"`
	SteamID     string    `json:"steam_id"`
	PersonaName *string   `json:"persona_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SessionClaims holds the claims carried by a session token
type SessionClaims struct {
	UserID  uuid.UUID
	SteamID string
}
