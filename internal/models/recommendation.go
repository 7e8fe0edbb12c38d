package models

import (
	"github.com/google/uuid"
)

// TagAffinity aggregates a user's historical engagement with one tag
type TagAffinity struct {
	TotalPlaytimeMinutes int     `json:"total_playtime_minutes"`
	GameCount            int     `json:"game_count"`
	AvgRating            float64 `json:"avg_rating"`
	TierMultiplier       float64 `json:"tier_multiplier"`
}

// TagProfile maps tags to affinity aggregates. Built once per
// recommendation request and never mutated afterwards.
type TagProfile map[string]TagAffinity

// ScoreBreakdown holds the five sub-scores behind a final score, each
// bounded to [0,100]
type ScoreBreakdown struct {
	DiscountScore int `json:"discount_score"`
	PlaytimeScore int `json:"playtime_score"`
	TagMatchScore int `json:"tag_match_score"`
	RatingScore   int `json:"rating_score"`
	TierScore     int `json:"tier_score"`
}

// ScoredRecommendation is a wishlist item with its computed ranking score
type ScoredRecommendation struct {
	Item                   WishlistItem   `json:"item"`
	FinalScore             int            `json:"final_score"`
	Breakdown              ScoreBreakdown `json:"breakdown"`
	EstimatedPlaytimeHours int            `json:"estimated_playtime_hours"`
	Reasoning              []string       `json:"reasoning"`
}

// KnapsackItem is the budget optimizer's narrowed view of a scored item
type KnapsackItem struct {
	ID    uuid.UUID `json:"id"`
	Price float64   `json:"price"`
	Score float64   `json:"score"`
}

// KnapsackResult is the outcome of a budget optimization run
type KnapsackResult struct {
	SelectedIDs []uuid.UUID `json:"selected_ids"`
	TotalCost   float64     `json:"total_cost"`
	TotalScore  float64     `json:"total_score"`
	Remaining   float64     `json:"remaining"`
}
