package recommend

import (
	"math"
	"testing"

	"github.com/gamewise/wishlist-api/internal/models"
)

func intPtr(v int) *int { return &v }

func tierPtr(t models.GameTier) *models.GameTier { return &t }

func TestBuildTagProfile_AggregatesPlayedGames(t *testing.T) {
	t.Parallel()

	// Two played games both tagged RPG: playtimes 600 and 1200, ratings 5
	// and 3, tiers S and B.
	library := []*models.LibraryGame{
		{
			Genres:          []string{"RPG"},
			PlaytimeMinutes: 600,
			Rating:          intPtr(5),
			Tier:            tierPtr(models.TierS),
		},
		{
			Genres:          []string{"RPG"},
			PlaytimeMinutes: 1200,
			Rating:          intPtr(3),
			Tier:            tierPtr(models.TierB),
		},
	}

	profile := BuildTagProfile(library)

	aff, ok := profile["RPG"]
	if !ok {
		t.Fatal("expected RPG tag in profile")
	}
	if aff.TotalPlaytimeMinutes != 1800 {
		t.Errorf("TotalPlaytimeMinutes = %d, want 1800", aff.TotalPlaytimeMinutes)
	}
	if aff.GameCount != 2 {
		t.Errorf("GameCount = %d, want 2", aff.GameCount)
	}
	if math.Abs(aff.AvgRating-4.0) > 1e-9 {
		t.Errorf("AvgRating = %v, want 4.0", aff.AvgRating)
	}
	if aff.TierMultiplier != 1.2 {
		t.Errorf("TierMultiplier = %v, want 1.2 (max of S and B)", aff.TierMultiplier)
	}
}

func TestBuildTagProfile_IgnoresUnplayedGames(t *testing.T) {
	t.Parallel()

	library := []*models.LibraryGame{
		{Genres: []string{"Strategy"}, PlaytimeMinutes: 0, Rating: intPtr(5)},
		{Genres: []string{"Strategy"}, PlaytimeMinutes: 30},
	}

	profile := BuildTagProfile(library)

	aff := profile["Strategy"]
	if aff.GameCount != 1 {
		t.Errorf("GameCount = %d, want 1 (unplayed game must not contribute)", aff.GameCount)
	}
	if aff.TotalPlaytimeMinutes != 30 {
		t.Errorf("TotalPlaytimeMinutes = %d, want 30", aff.TotalPlaytimeMinutes)
	}
}

func TestBuildTagProfile_CollapsesDuplicateTags(t *testing.T) {
	t.Parallel()

	// "Roguelike" appears as both a catalog genre and a user tag; it must
	// count once for this game.
	library := []*models.LibraryGame{
		{
			Genres:          []string{"Roguelike", "Action"},
			UserTags:        []string{"Roguelike"},
			PlaytimeMinutes: 100,
		},
	}

	profile := BuildTagProfile(library)

	if got := profile["Roguelike"].GameCount; got != 1 {
		t.Errorf("GameCount = %d, want 1", got)
	}
	if got := profile["Roguelike"].TotalPlaytimeMinutes; got != 100 {
		t.Errorf("TotalPlaytimeMinutes = %d, want 100", got)
	}
	if got := profile["Action"].GameCount; got != 1 {
		t.Errorf("Action GameCount = %d, want 1", got)
	}
}

func TestBuildTagProfile_DefaultRating(t *testing.T) {
	t.Parallel()

	library := []*models.LibraryGame{
		{Genres: []string{"Puzzle"}, PlaytimeMinutes: 50},
	}

	profile := BuildTagProfile(library)

	if got := profile["Puzzle"].AvgRating; got != float64(DefaultRating) {
		t.Errorf("AvgRating = %v, want %d for unrated game", got, DefaultRating)
	}
}

func TestBuildTagProfile_TierMultiplier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		library []*models.LibraryGame
		want    float64
	}{
		{
			name: "only untiered games keep neutral multiplier",
			library: []*models.LibraryGame{
				{Genres: []string{"Sim"}, PlaytimeMinutes: 10},
				{Genres: []string{"Sim"}, PlaytimeMinutes: 20},
			},
			want: 1.0,
		},
		{
			name: "tiered game overrides neutral baseline even when lower",
			library: []*models.LibraryGame{
				{Genres: []string{"Sim"}, PlaytimeMinutes: 10},
				{Genres: []string{"Sim"}, PlaytimeMinutes: 20, Tier: tierPtr(models.TierD)},
			},
			want: 0.8,
		},
		{
			name: "untiered game after tiered game leaves multiplier alone",
			library: []*models.LibraryGame{
				{Genres: []string{"Sim"}, PlaytimeMinutes: 10, Tier: tierPtr(models.TierC)},
				{Genres: []string{"Sim"}, PlaytimeMinutes: 20},
			},
			want: 0.9,
		},
		{
			name: "max wins across tiered games",
			library: []*models.LibraryGame{
				{Genres: []string{"Sim"}, PlaytimeMinutes: 10, Tier: tierPtr(models.TierA)},
				{Genres: []string{"Sim"}, PlaytimeMinutes: 20, Tier: tierPtr(models.TierC)},
			},
			want: 1.1,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			profile := BuildTagProfile(tt.library)
			if got := profile["Sim"].TierMultiplier; got != tt.want {
				t.Errorf("TierMultiplier = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildTagProfile_EmptyLibrary(t *testing.T) {
	t.Parallel()

	if got := BuildTagProfile(nil); len(got) != 0 {
		t.Errorf("expected empty profile for nil library, got %d tags", len(got))
	}
	if got := BuildTagProfile([]*models.LibraryGame{}); len(got) != 0 {
		t.Errorf("expected empty profile for empty library, got %d tags", len(got))
	}
}

func TestBuildTagProfile_IncrementalMean(t *testing.T) {
	t.Parallel()

	library := []*models.LibraryGame{
		{Genres: []string{"Horror"}, PlaytimeMinutes: 10, Rating: intPtr(1)},
		{Genres: []string{"Horror"}, PlaytimeMinutes: 10, Rating: intPtr(4)},
		{Genres: []string{"Horror"}, PlaytimeMinutes: 10, Rating: intPtr(4)},
	}

	profile := BuildTagProfile(library)

	if got := profile["Horror"].AvgRating; math.Abs(got-3.0) > 1e-9 {
		t.Errorf("AvgRating = %v, want 3.0", got)
	}
}
