package models

import (
	"time"

	"github.com/google/uuid"
)

// GameStatus represents where a library game sits in the player's rotation
type GameStatus string

const (
	GameStatusPlaying   GameStatus = "playing"
	GameStatusCompleted GameStatus = "completed"
	GameStatusBacklog   GameStatus = "backlog"
	GameStatusUnplayed  GameStatus = "unplayed"
)

// GameTier is a user-assigned qualitative rank for a library game
type GameTier string

const (
	TierS GameTier = "S"
	TierA GameTier = "A"
	TierB GameTier = "B"
	TierC GameTier = "C"
	TierD GameTier = "D"
)

// tierMultipliers maps each tier to the scoring boost it grants.
// A single standout game should dominate, so profile aggregation takes
// the max, never the average.
var tierMultipliers = map[GameTier]float64{
	TierS: 1.2,
	TierA: 1.1,
	TierB: 1.0,
	TierC: 0.9,
	TierD: 0.8,
}

// Multiplier returns the scoring multiplier for the tier, or 1.0 for
// unknown values.
func (t GameTier) Multiplier() float64 {
	if m, ok := tierMultipliers[t]; ok {
		return m
	}
	return 1.0
}

// TierFromRating derives a tier from a 1-5 star rating (5 -> S ... 1 -> D).
// Returns nil for out-of-range ratings.
func TierFromRating(rating int) *GameTier {
	var tier GameTier
	switch rating {
	case 5:
		tier = TierS
	case 4:
		tier = TierA
	case 3:
		tier = TierB
	case 2:
		tier = TierC
	case 1:
		tier = TierD
	default:
		return nil
	}
	return &tier
}

// LibraryGame represents an owned game enriched with user metadata
type LibraryGame struct {
	ID                    uuid.UUID  `json:"id"`
	UserID                uuid.UUID  `json:"user_id"`
	AppID                 string     `json:"app_id"`
	Name                  string     `json:"name"`
	Genres                []string   `json:"genres"`
	UserTags              []string   `json:"user_tags"`
	PlaytimeMinutes       int        `json:"playtime_minutes"`
	Rating                *int       `json:"rating,omitempty"`
	Tier                  *GameTier  `json:"tier,omitempty"`
	Status                GameStatus `json:"status"`
	PricePaid             *float64   `json:"price_paid,omitempty"`
	PricePerHour          *float64   `json:"price_per_hour,omitempty"`
	AchievementsTotal     int        `json:"achievements_total"`
	AchievementsCompleted int        `json:"achievements_completed"`
	CompletedAt           *time.Time `json:"completed_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// AllTags returns the union of catalog genres and user-assigned tags with
// duplicates collapsed. A tag counts once per game even when present in both.
func (g *LibraryGame) AllTags() []string {
	seen := make(map[string]struct{}, len(g.Genres)+len(g.UserTags))
	tags := make([]string, 0, len(g.Genres)+len(g.UserTags))
	for _, t := range g.Genres {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	for _, t := range g.UserTags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	return tags
}
