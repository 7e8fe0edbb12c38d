package recommend

import (
	"math"
	"sort"

	"github.com/gamewise/wishlist-api/internal/models"
	"github.com/google/uuid"
)

// Dispatch thresholds for the exact solver. The DP table has
// n x budgetCents cells, so both bounds together keep it to a few million
// entries and the cents-scaled int arithmetic far from overflow. Anything
// larger falls back to the greedy approximation for bounded runtime.
const (
	maxExactItems  = 50
	maxExactBudget = 10000 // currency units, not cents
)

// Optimize selects the subset of items maximizing total score under the
// budget. Inputs within the dispatch thresholds are solved exactly with a
// 0/1 knapsack dynamic program over integer cents; larger inputs use a
// greedy score/price ratio walk. Zero items or a non-positive budget yield
// an empty selection with the budget untouched.
func Optimize(items []models.KnapsackItem, budget float64) models.KnapsackResult {
	if len(items) == 0 || budget <= 0 {
		return models.KnapsackResult{
			SelectedIDs: []uuid.UUID{},
			Remaining:   budget,
		}
	}

	if UsesExactSolver(len(items), budget) {
		return solveExact(items, budget)
	}
	return solveGreedy(items, budget)
}

// UsesExactSolver reports whether the dispatch policy routes an input of
// this size to the exact DP solver rather than the greedy approximation.
func UsesExactSolver(itemCount int, budget float64) bool {
	return itemCount <= maxExactItems && budget <= maxExactBudget
}

// solveExact is the 0/1 knapsack dynamic program. Prices are scaled to
// integer cents so comparisons and capacity arithmetic are exact.
func solveExact(items []models.KnapsackItem, budget float64) models.KnapsackResult {
	n := len(items)
	budgetCents := toCents(budget)

	priceCents := make([]int, n)
	for i, item := range items {
		priceCents[i] = toCents(item.Price)
	}

	// dp[i][w]: best attainable score using the first i items within w cents.
	dp := make([][]float64, n+1)
	for i := range dp {
		dp[i] = make([]float64, budgetCents+1)
	}

	for i := 1; i <= n; i++ {
		item := items[i-1]
		cost := priceCents[i-1]

		for w := 0; w <= budgetCents; w++ {
			dp[i][w] = dp[i-1][w]
			if cost <= w {
				if take := dp[i-1][w-cost] + item.Score; take > dp[i][w] {
					dp[i][w] = take
				}
			}
		}
	}

	// Walk the table backwards to recover the concrete selection.
	selected := make([]models.KnapsackItem, 0, n)
	w := budgetCents
	for i := n; i > 0 && w > 0; i-- {
		if dp[i][w] != dp[i-1][w] {
			selected = append(selected, items[i-1])
			w -= priceCents[i-1]
		}
	}

	return summarize(selected, budget)
}

// solveGreedy walks items by score/price ratio descending, taking whatever
// still fits. Heuristic, not guaranteed optimal. Zero-price items get
// ratio 0 and sort last; they are still taken whenever budget remains,
// they just never jump the queue (kept for compatibility with the
// established selection order). The affordability check runs on integer
// cents like the exact solver, so repeated subtraction cannot drift below
// an item that is actually still affordable.
func solveGreedy(items []models.KnapsackItem, budget float64) models.KnapsackResult {
	order := make([]models.KnapsackItem, len(items))
	copy(order, items)

	ratio := func(item models.KnapsackItem) float64 {
		if item.Price > 0 {
			return item.Score / item.Price
		}
		return 0
	}
	sort.SliceStable(order, func(i, j int) bool {
		return ratio(order[i]) > ratio(order[j])
	})

	selected := make([]models.KnapsackItem, 0, len(order))
	remainingCents := toCents(budget)
	for _, item := range order {
		if cost := toCents(item.Price); cost <= remainingCents {
			selected = append(selected, item)
			remainingCents -= cost
		}
	}

	return summarize(selected, budget)
}

// summarize totals a selection, rounding after summation so per-item
// rounding error cannot compound.
func summarize(selected []models.KnapsackItem, budget float64) models.KnapsackResult {
	ids := make([]uuid.UUID, 0, len(selected))
	totalCost := 0.0
	totalScore := 0.0
	for _, item := range selected {
		ids = append(ids, item.ID)
		totalCost += item.Price
		totalScore += item.Score
	}

	return models.KnapsackResult{
		SelectedIDs: ids,
		TotalCost:   round2(totalCost),
		TotalScore:  math.Round(totalScore),
		Remaining:   round2(budget - totalCost),
	}
}

// toCents converts a currency amount to integer cents. Rounding (not
// truncation) keeps amounts like 19.99 exact despite their inexact float
// representation, so the capacity check can never admit an item that is
// actually over budget.
func toCents(amount float64) int {
	return int(math.Round(amount * 100))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
