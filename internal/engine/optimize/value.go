// Package optimize selects subsets of costumes under budget, size, and
// category constraints: 0/1 knapsack over integer budgets, a fractional
// greedy variant, constraint backtracking with pruning, and a memoized
// multi-constraint search.
package optimize

import "costumier/internal/engine"

// CostumeValue scores a single costume for knapsack-style optimization:
// condition tier, an availability bonus, a popular-category bonus, and an
// inverse-price efficiency term.
func CostumeValue(c engine.Costume) float64 {
	var value float64

	switch c.Condition {
	case engine.ConditionExcellent:
		value += 100
	case engine.ConditionGood:
		value += 80
	case engine.ConditionFair:
		value += 60
	default:
		value += 50
	}

	if c.Available {
		value += 50
	}

	if engine.IsPopularCategory(c.Category) {
		value += 30
	}

	value += max(0, 100-c.Price)

	return value
}

// weight is the synthetic complexity score used as the second knapsack
// dimension: bulkier sizes and elaborate categories weigh more.
func weight(c engine.Costume) int {
	sizeWeights := map[string]int{"XS": 1, "S": 2, "M": 3, "L": 4, "XL": 5, "XXL": 6}
	categoryWeights := map[string]int{
		"Historical": 3,
		"Fantasy":    2,
		"Superhero":  2,
		"Horror":     2,
		"Sci-Fi":     2,
		"Comedy":     1,
	}

	w, ok := sizeWeights[c.Size]
	if !ok {
		w = 3
	}
	cw, ok := categoryWeights[c.Category]
	if !ok {
		cw = 2
	}
	return w + cw
}
