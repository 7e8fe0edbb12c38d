package recommend

import (
	"github.com/gamewise/wishlist-api/internal/models"
)

// DefaultRating is assumed for played games the user never rated.
const DefaultRating = 3

// BuildTagProfile aggregates a user's played library into a per-tag
// affinity profile. Only games with recorded playtime contribute; an
// unplayed game carries no taste signal. Returns an empty profile when
// nothing qualifies, which scoring treats as a cold start.
//
// Pure function: no I/O, no shared state.
func BuildTagProfile(library []*models.LibraryGame) models.TagProfile {
	profile := make(models.TagProfile)

	// Tags whose multiplier came from an actual tiered game. Untiered
	// games leave an existing multiplier alone; they only establish the
	// neutral 1.0 baseline for tags no tiered game has touched.
	tiered := make(map[string]bool)

	for _, game := range library {
		if game == nil || game.PlaytimeMinutes <= 0 {
			continue
		}

		rating := DefaultRating
		if game.Rating != nil {
			rating = *game.Rating
		}

		for _, tag := range game.AllTags() {
			aff, ok := profile[tag]
			if !ok {
				aff = models.TagAffinity{TierMultiplier: 1.0}
			}

			aff.GameCount++
			aff.TotalPlaytimeMinutes += game.PlaytimeMinutes
			// Incremental mean over the post-increment count.
			n := float64(aff.GameCount)
			aff.AvgRating = (aff.AvgRating*(n-1) + float64(rating)) / n

			if game.Tier != nil {
				mult := game.Tier.Multiplier()
				if !tiered[tag] || mult > aff.TierMultiplier {
					aff.TierMultiplier = mult
				}
				tiered[tag] = true
			}

			profile[tag] = aff
		}
	}

	return profile
}
