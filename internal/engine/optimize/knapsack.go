package optimize

import (
	"sort"

	"costumier/internal/engine"
)

// ComboResult is the outcome of a 0/1 knapsack optimization.
type ComboResult struct {
	Costumes        []engine.Costume
	TotalValue      float64
	TotalCost       float64
	RemainingBudget int
}

// OptimizeRentalCombo runs the classic bounded 0/1 knapsack over
// (item index x integer budget), using floor-truncated prices as weights and
// CostumeValue as the per-item value, then backtracks through the choice
// table to recover the selected subset.
//
// Prices are truncated with floor for DP indexing, so fractional prices lose
// precision in the budget accounting. That is an intentional simplification;
// TotalCost still reports the untruncated sum. Only the first maxItems
// costumes of the pool enter the table, which also bounds the selection size.
func OptimizeRentalCombo(costumes []engine.Costume, budget, maxItems int) ComboResult {
	if budget < 0 {
		budget = 0
	}
	n := min(len(costumes), maxItems)

	dp := make([][]float64, n+1)
	selected := make([][]bool, n+1)
	for i := range dp {
		dp[i] = make([]float64, budget+1)
		selected[i] = make([]bool, budget+1)
	}

	for i := 1; i <= n; i++ {
		costume := costumes[i-1]
		price := int(costume.Price)

		for w := 0; w <= budget; w++ {
			dp[i][w] = dp[i-1][w]

			if price <= w {
				includeValue := dp[i-1][w-price] + CostumeValue(costume)
				if includeValue > dp[i][w] {
					dp[i][w] = includeValue
					selected[i][w] = true
				}
			}
		}
	}

	var picked []engine.Costume
	w := budget
	for i := n; i > 0 && w > 0; i-- {
		if selected[i][w] {
			picked = append(picked, costumes[i-1])
			w -= int(costumes[i-1].Price)
		}
	}

	var totalCost float64
	truncated := 0
	for _, c := range picked {
		totalCost += c.Price
		truncated += int(c.Price)
	}

	return ComboResult{
		Costumes:        picked,
		TotalValue:      dp[n][budget],
		TotalCost:       totalCost,
		RemainingBudget: budget - truncated,
	}
}

// FractionalPick is one entry of a fractional knapsack selection. Fraction 1
// is a whole rental; a smaller fraction is a proportional share of one
// rental-day cost, not a physical partial item.
type FractionalPick struct {
	Costume  engine.Costume
	Fraction float64
	Cost     float64
}

// FractionalResult reports a greedy fractional selection and its efficiency
// (value per unit spent).
type FractionalResult struct {
	Selection  []FractionalPick
	TotalValue float64
	TotalCost  float64
	Efficiency float64
}

// FractionalKnapsack sorts available costumes by value/price ratio
// descending, takes whole items while budget remains, then a fractional share
// of the next item to exhaust the budget exactly. Greedy is optimal here
// because fractional consumption is meaningful.
func FractionalKnapsack(costumes []engine.Costume, budget float64) FractionalResult {
	type rated struct {
		costume engine.Costume
		ratio   float64
	}

	var pool []rated
	for _, c := range costumes {
		if !c.Available || c.Price <= 0 {
			continue
		}
		pool = append(pool, rated{costume: c, ratio: CostumeValue(c) / c.Price})
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].ratio > pool[j].ratio
	})

	var selection []FractionalPick
	remaining := budget
	var totalValue float64

	for _, item := range pool {
		if remaining >= item.costume.Price {
			selection = append(selection, FractionalPick{
				Costume:  item.costume,
				Fraction: 1,
				Cost:     item.costume.Price,
			})
			remaining -= item.costume.Price
			totalValue += CostumeValue(item.costume)
		} else if remaining > 0 {
			fraction := remaining / item.costume.Price
			selection = append(selection, FractionalPick{
				Costume:  item.costume,
				Fraction: fraction,
				Cost:     remaining,
			})
			totalValue += CostumeValue(item.costume) * fraction
			remaining = 0
			break
		}
	}

	spent := budget - remaining
	var efficiency float64
	if spent > 0 {
		efficiency = totalValue / spent
	}

	return FractionalResult{
		Selection:  selection,
		TotalValue: totalValue,
		TotalCost:  spent,
		Efficiency: efficiency,
	}
}
