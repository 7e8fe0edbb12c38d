package recommend

import (
	"math"
	"reflect"
	"testing"

	"github.com/gamewise/wishlist-api/internal/models"
	"github.com/google/uuid"
)

func kitem(price, score float64) models.KnapsackItem {
	return models.KnapsackItem{ID: uuid.New(), Price: price, Score: score}
}

// bruteForceBest returns the best total score over every subset within
// budget, for cross-checking the DP solver on small inputs.
func bruteForceBest(items []models.KnapsackItem, budget float64) float64 {
	best := 0.0
	n := len(items)
	for mask := 0; mask < 1<<n; mask++ {
		cost, score := 0.0, 0.0
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				cost += items[i].Price
				score += items[i].Score
			}
		}
		if cost <= budget && score > best {
			best = score
		}
	}
	return best
}

func TestOptimize_ScenarioDominantPair(t *testing.T) {
	t.Parallel()

	items := []models.KnapsackItem{
		kitem(100, 80),
		kitem(50, 50),
		kitem(50, 40),
	}

	result := Optimize(items, 150)

	if result.TotalScore != 130 {
		t.Errorf("TotalScore = %v, want 130 (80+50 dominates 50+40)", result.TotalScore)
	}
	if result.TotalCost != 150 {
		t.Errorf("TotalCost = %v, want 150", result.TotalCost)
	}
	if result.Remaining != 0 {
		t.Errorf("Remaining = %v, want 0", result.Remaining)
	}

	want := map[uuid.UUID]bool{items[0].ID: true, items[1].ID: true}
	if len(result.SelectedIDs) != 2 {
		t.Fatalf("selected %d items, want 2", len(result.SelectedIDs))
	}
	for _, id := range result.SelectedIDs {
		if !want[id] {
			t.Errorf("unexpected selection %s", id)
		}
	}
}

func TestOptimize_EmptyAndNonPositiveBudget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		items  []models.KnapsackItem
		budget float64
	}{
		{name: "zero budget", items: []models.KnapsackItem{kitem(10, 5)}, budget: 0},
		{name: "negative budget", items: []models.KnapsackItem{kitem(10, 5)}, budget: -20},
		{name: "no items", items: nil, budget: 100},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := Optimize(tt.items, tt.budget)

			if len(result.SelectedIDs) != 0 {
				t.Errorf("SelectedIDs = %v, want empty", result.SelectedIDs)
			}
			if result.TotalCost != 0 || result.TotalScore != 0 {
				t.Errorf("totals = %v/%v, want 0/0", result.TotalCost, result.TotalScore)
			}
			if result.Remaining != tt.budget {
				t.Errorf("Remaining = %v, want the budget %v unmodified", result.Remaining, tt.budget)
			}
		})
	}
}

func TestOptimize_Feasibility(t *testing.T) {
	t.Parallel()

	// A spread of fractional prices that would accumulate float drift
	// without cents-scaled arithmetic.
	items := []models.KnapsackItem{
		kitem(19.99, 72),
		kitem(4.99, 61),
		kitem(14.99, 55),
		kitem(59.99, 90),
		kitem(0.99, 12),
		kitem(29.99, 66),
	}

	for _, budget := range []float64{0.5, 5, 24.99, 50, 130.94} {
		result := Optimize(items, budget)

		if result.TotalCost > budget {
			t.Errorf("budget %v: TotalCost %v exceeds budget", budget, result.TotalCost)
		}
		wantRemaining := math.Round((budget-result.TotalCost)*100) / 100
		if result.Remaining != wantRemaining {
			t.Errorf("budget %v: Remaining = %v, want %v", budget, result.Remaining, wantRemaining)
		}
	}
}

func TestOptimize_ExactMatchesBruteForce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		items  []models.KnapsackItem
		budget float64
	}{
		{
			name: "small mixed prices",
			items: []models.KnapsackItem{
				kitem(9.99, 40), kitem(19.99, 85), kitem(4.99, 30),
				kitem(24.99, 70), kitem(2.49, 15),
			},
			budget: 35,
		},
		{
			name: "tight budget forces choice",
			items: []models.KnapsackItem{
				kitem(10, 60), kitem(10, 55), kitem(10, 50), kitem(15, 90),
			},
			budget: 25,
		},
		{
			name: "everything affordable",
			items: []models.KnapsackItem{
				kitem(1, 10), kitem(2, 20), kitem(3, 30),
			},
			budget: 100,
		},
		{
			name: "nothing affordable",
			items: []models.KnapsackItem{
				kitem(50, 99), kitem(60, 99),
			},
			budget: 40,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := Optimize(tt.items, tt.budget)
			want := bruteForceBest(tt.items, tt.budget)

			if result.TotalScore != math.Round(want) {
				t.Errorf("TotalScore = %v, brute force optimum is %v", result.TotalScore, want)
			}
		})
	}
}

func TestOptimize_GreedyNeverBeatsExact(t *testing.T) {
	t.Parallel()

	items := []models.KnapsackItem{
		// Classic greedy trap: the best ratio item blocks the optimal pair.
		kitem(60, 100), kitem(50, 70), kitem(50, 70),
	}
	budget := 100.0

	exact := solveExact(items, budget)
	greedy := solveGreedy(items, budget)

	if greedy.TotalScore > exact.TotalScore {
		t.Errorf("greedy %v beats exact %v", greedy.TotalScore, exact.TotalScore)
	}
	if exact.TotalScore != 140 {
		t.Errorf("exact TotalScore = %v, want 140", exact.TotalScore)
	}
	if greedy.TotalScore != 100 {
		t.Errorf("greedy TotalScore = %v, want 100 (takes the ratio leader)", greedy.TotalScore)
	}
}

func TestOptimize_Idempotence(t *testing.T) {
	t.Parallel()

	items := []models.KnapsackItem{
		kitem(19.99, 72), kitem(4.99, 61), kitem(14.99, 55), kitem(59.99, 90),
	}

	first := Optimize(items, 80)
	second := Optimize(items, 80)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different results:\n%+v\n%+v", first, second)
	}
}

func TestOptimize_DispatchPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		itemCount int
		budget    float64
		wantExact bool
	}{
		{name: "small input uses exact", itemCount: 50, budget: 10000, wantExact: true},
		{name: "too many items", itemCount: 51, budget: 100, wantExact: false},
		{name: "budget too large", itemCount: 10, budget: 10000.01, wantExact: false},
		{name: "single item tiny budget", itemCount: 1, budget: 1, wantExact: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := UsesExactSolver(tt.itemCount, tt.budget); got != tt.wantExact {
				t.Errorf("UsesExactSolver(%d, %v) = %v, want %v", tt.itemCount, tt.budget, got, tt.wantExact)
			}
		})
	}
}

func TestOptimize_GreedyPathOnLargeInput(t *testing.T) {
	t.Parallel()

	// 60 items routes past the exact solver. High ratio items must win.
	items := make([]models.KnapsackItem, 0, 60)
	for i := 0; i < 60; i++ {
		items = append(items, kitem(10, float64(i)))
	}

	result := Optimize(items, 50)

	if len(result.SelectedIDs) != 5 {
		t.Fatalf("selected %d items, want 5", len(result.SelectedIDs))
	}
	// Scores 59..55 have the best score/price ratios.
	if result.TotalScore != 59+58+57+56+55 {
		t.Errorf("TotalScore = %v, want 285", result.TotalScore)
	}
}

func TestSolveGreedy_ZeroPriceItems(t *testing.T) {
	t.Parallel()

	free := kitem(0, 95)
	paid := kitem(10, 50)

	result := solveGreedy([]models.KnapsackItem{free, paid}, 10)

	// Zero-price items sort last (ratio 0) but always fit, so both are taken.
	if len(result.SelectedIDs) != 2 {
		t.Fatalf("selected %d items, want both", len(result.SelectedIDs))
	}
	if result.TotalCost != 10 {
		t.Errorf("TotalCost = %v, want 10", result.TotalCost)
	}
	if result.TotalScore != 145 {
		t.Errorf("TotalScore = %v, want 145", result.TotalScore)
	}
}

func TestSolveGreedy_NoFloatDriftOnFractionalPrices(t *testing.T) {
	t.Parallel()

	// 0.30 - 0.10 is not representable exactly; a float walk would reject
	// the 0.20 item even though it still fits.
	cheap := kitem(0.10, 50)
	exact := kitem(0.20, 40)

	result := solveGreedy([]models.KnapsackItem{cheap, exact}, 0.30)

	if len(result.SelectedIDs) != 2 {
		t.Fatalf("selected %d items, want both", len(result.SelectedIDs))
	}
	if result.TotalCost != 0.30 {
		t.Errorf("TotalCost = %v, want 0.30", result.TotalCost)
	}
	if result.Remaining != 0 {
		t.Errorf("Remaining = %v, want 0", result.Remaining)
	}
}

func TestSummarize_RoundsAfterSummation(t *testing.T) {
	t.Parallel()

	items := []models.KnapsackItem{
		kitem(0.10, 1.4), kitem(0.20, 1.4), kitem(0.30, 1.4),
	}

	result := Optimize(items, 1)

	if result.TotalCost != 0.6 {
		t.Errorf("TotalCost = %v, want 0.6", result.TotalCost)
	}
	if result.TotalScore != math.Round(4.2) {
		t.Errorf("TotalScore = %v, want 4 (rounded once after summation)", result.TotalScore)
	}
	if result.Remaining != 0.4 {
		t.Errorf("Remaining = %v, want 0.4", result.Remaining)
	}
}
