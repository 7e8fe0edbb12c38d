package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/gamewise/wishlist-api/internal/models"
)

// Scoring weights. They sum to exactly 1.0; discount dominates because
// deal-sensitivity is the primary driver, affinity signals refine the order.
const (
	WeightDiscount = 0.50
	WeightPlaytime = 0.30
	WeightTagMatch = 0.15
	WeightRating   = 0.03
	WeightTier     = 0.02
)

const (
	// playtimeCeilingMinutes is the weighted-playtime value treated as
	// fully confident affinity (100 hours).
	playtimeCeilingMinutes = 6000

	// Cold-start defaults when the user has no played library at all.
	coldStartScore             = 50
	coldStartPlaytimeMinutes   = 600
	unknownTagsPlaytimeScore   = 20
	unmatchedRatingOrTierScore = 40
	maxTierMultiplier          = 1.2
)

// Score computes a weighted 0-100 recommendation score for a single
// wishlist item against the user's tag profile. Pure function.
func Score(profile models.TagProfile, item models.WishlistItem) models.ScoredRecommendation {
	discountScore := discountScore(item.DiscountPercent)
	playtimeScore := playtimeScore(item.Tags, profile)
	tagMatchScore := tagMatchScore(item.Tags, profile)
	ratingScore := ratingScore(item.Tags, profile)
	tierScore := tierScore(item.Tags, profile)

	finalScore := discountScore*WeightDiscount +
		playtimeScore*WeightPlaytime +
		tagMatchScore*WeightTagMatch +
		ratingScore*WeightRating +
		tierScore*WeightTier

	return models.ScoredRecommendation{
		Item:       item,
		FinalScore: int(math.Round(finalScore)),
		Breakdown: models.ScoreBreakdown{
			DiscountScore: int(math.Round(discountScore)),
			PlaytimeScore: int(math.Round(playtimeScore)),
			TagMatchScore: int(math.Round(tagMatchScore)),
			RatingScore:   int(math.Round(ratingScore)),
			TierScore:     int(math.Round(tierScore)),
		},
		EstimatedPlaytimeHours: int(math.Round(estimatePlaytimeMinutes(item.Tags, profile) / 60)),
		Reasoning:              reasoning(discountScore, playtimeScore, tagMatchScore, item.DiscountPercent),
	}
}

// ScoreAll scores every candidate and returns them ordered by final score
// descending. Ties break on item ID ascending so output order is
// reproducible.
func ScoreAll(profile models.TagProfile, items []models.WishlistItem) []models.ScoredRecommendation {
	scored := make([]models.ScoredRecommendation, 0, len(items))
	for _, item := range items {
		scored = append(scored, Score(profile, item))
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].FinalScore != scored[j].FinalScore {
			return scored[i].FinalScore > scored[j].FinalScore
		}
		return scored[i].Item.ID.String() < scored[j].Item.ID.String()
	})

	return scored
}

func discountScore(discountPercent int) float64 {
	return math.Min(float64(discountPercent), 100)
}

func playtimeScore(tags []string, profile models.TagProfile) float64 {
	if len(profile) == 0 {
		return coldStartScore
	}

	totalWeighted := 0.0
	matched := 0
	for _, tag := range tags {
		if aff, ok := profile[tag]; ok {
			totalWeighted += float64(aff.TotalPlaytimeMinutes) * aff.TierMultiplier
			matched++
		}
	}

	// No overlap with known taste is a stronger signal than having no
	// history at all.
	if matched == 0 {
		return unknownTagsPlaytimeScore
	}

	avgWeighted := totalWeighted / float64(matched)
	return math.Min(avgWeighted/playtimeCeilingMinutes*100, 100)
}

func tagMatchScore(tags []string, profile models.TagProfile) float64 {
	if len(profile) == 0 {
		return coldStartScore
	}
	if len(tags) == 0 {
		return 0
	}

	matched := 0
	for _, tag := range tags {
		if _, ok := profile[tag]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(tags)) * 100
}

func ratingScore(tags []string, profile models.TagProfile) float64 {
	if len(profile) == 0 {
		return coldStartScore
	}

	totalRating := 0.0
	matched := 0
	for _, tag := range tags {
		if aff, ok := profile[tag]; ok {
			totalRating += aff.AvgRating
			matched++
		}
	}
	if matched == 0 {
		return unmatchedRatingOrTierScore
	}
	return totalRating / float64(matched) / 5 * 100
}

func tierScore(tags []string, profile models.TagProfile) float64 {
	if len(profile) == 0 {
		return coldStartScore
	}

	maxMult := 0.0
	for _, tag := range tags {
		if aff, ok := profile[tag]; ok && aff.TierMultiplier > maxMult {
			maxMult = aff.TierMultiplier
		}
	}
	if maxMult == 0 {
		return unmatchedRatingOrTierScore
	}
	return maxMult / maxTierMultiplier * 100
}

// estimatePlaytimeMinutes predicts expected playtime from the average
// per-game playtime of matched tags.
func estimatePlaytimeMinutes(tags []string, profile models.TagProfile) float64 {
	if len(profile) == 0 {
		return coldStartPlaytimeMinutes
	}

	total := 0.0
	matched := 0
	for _, tag := range tags {
		if aff, ok := profile[tag]; ok {
			total += float64(aff.TotalPlaytimeMinutes) / float64(aff.GameCount)
			matched++
		}
	}
	if matched == 0 {
		return coldStartPlaytimeMinutes
	}
	return total / float64(matched)
}

// reasoning builds the ordered, human-readable explanation strings. Purely
// explanatory metadata; never affects ranking.
func reasoning(discountScore, playtimeScore, tagMatchScore float64, discountPercent int) []string {
	reasons := make([]string, 0, 3)

	if discountScore >= 50 {
		reasons = append(reasons, fmt.Sprintf("%d%% discount", discountPercent))
	}

	if playtimeScore > 70 {
		reasons = append(reasons, "High playtime potential")
	} else if playtimeScore > 40 {
		reasons = append(reasons, "Moderate playtime expected")
	}

	if tagMatchScore > 70 {
		reasons = append(reasons, "Strong tag match")
	} else if tagMatchScore > 40 {
		reasons = append(reasons, "Decent tag match")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Consider based on price")
	}

	return reasons
}
