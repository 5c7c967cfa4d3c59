package optimize

import (
	"math"

	"costumier/internal/engine"
)

// MultiConstraints bounds the multi-constraint knapsack. Budget is required;
// zero MaxWeight or MaxItems means unbounded; an empty RequiredCategories
// slice admits every category.
type MultiConstraints struct {
	Budget             float64
	MaxWeight          int
	MaxItems           int
	RequiredCategories []string
}

// MultiResult is a multi-constraint selection with its aggregate value.
type MultiResult struct {
	Value float64
	Items []engine.Costume
}

// memoKey is the integer 4-tuple of remaining search parameters. The memo is
// an explicit lookup table keyed by this tuple, which keeps memory bounds and
// invalidation visible instead of hiding them in recursion-call caching.
type memoKey struct {
	index     int
	budget    int
	maxWeight int
	maxItems  int
}

// MultiConstraintKnapsack pre-filters the pool (availability, per-item budget
// ceiling, required categories) and then runs a memoized recursive search
// over (index, remaining budget, remaining weight capacity, remaining item
// count). Budgets are floor-truncated to integers for memo keying, the same
// simplification OptimizeRentalCombo makes.
func MultiConstraintKnapsack(costumes []engine.Costume, constraints MultiConstraints) MultiResult {
	allowed := make(map[string]bool, len(constraints.RequiredCategories))
	for _, cat := range constraints.RequiredCategories {
		allowed[cat] = true
	}

	var pool []engine.Costume
	for _, c := range costumes {
		if !c.Available {
			continue
		}
		if c.Price > constraints.Budget {
			continue
		}
		if len(allowed) > 0 && !allowed[c.Category] {
			continue
		}
		pool = append(pool, c)
	}

	maxWeight := constraints.MaxWeight
	if maxWeight <= 0 {
		maxWeight = math.MaxInt32
	}
	maxItems := constraints.MaxItems
	if maxItems <= 0 {
		maxItems = len(pool)
	}

	memo := make(map[memoKey]MultiResult)

	var solve func(index, budget, weightLeft, itemsLeft int) MultiResult
	solve = func(index, budget, weightLeft, itemsLeft int) MultiResult {
		if index >= len(pool) || itemsLeft <= 0 {
			return MultiResult{}
		}

		key := memoKey{index: index, budget: budget, maxWeight: weightLeft, maxItems: itemsLeft}
		if cached, ok := memo[key]; ok {
			return cached
		}

		costume := pool[index]
		w := weight(costume)
		price := int(costume.Price)

		without := solve(index+1, budget, weightLeft, itemsLeft)

		var with MultiResult
		if price <= budget && w <= weightLeft {
			sub := solve(index+1, budget-price, weightLeft-w, itemsLeft-1)
			with = MultiResult{
				Value: sub.Value + CostumeValue(costume),
				Items: append([]engine.Costume{costume}, sub.Items...),
			}
		}

		result := without
		if with.Value > without.Value {
			result = with
		}
		memo[key] = result
		return result
	}

	return solve(0, int(constraints.Budget), maxWeight, maxItems)
}
