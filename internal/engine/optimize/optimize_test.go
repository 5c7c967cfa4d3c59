package optimize

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"costumier/internal/engine"
)

func TestCostumeValue(t *testing.T) {
	c := engine.Costume{
		Condition: engine.ConditionExcellent,
		Available: true,
		Category:  "Superhero",
		Price:     40,
	}
	// 100 (excellent) + 50 (available) + 30 (popular category) + 60 (price term)
	assert.Equal(t, 240.0, CostumeValue(c))

	dull := engine.Costume{
		Condition: engine.ConditionFair,
		Available: false,
		Category:  "Office",
		Price:     150,
	}
	// 60 (fair) + 0 + 0 + 0 (price above the efficiency band)
	assert.Equal(t, 60.0, CostumeValue(dull))
}

func TestOptimizeRentalComboSelectsOnlyAffordableItem(t *testing.T) {
	itemA := engine.Costume{
		ID:        uuid.New(),
		Name:      "Princess Gown",
		Category:  "Fantasy",
		Price:     25,
		Condition: engine.ConditionExcellent,
		Available: true,
	}
	itemB := engine.Costume{
		ID:        uuid.New(),
		Name:      "Princess Tiara Set",
		Category:  "Fantasy",
		Price:     30,
		Condition: engine.ConditionGood,
		Available: true,
	}

	result := OptimizeRentalCombo([]engine.Costume{itemA, itemB}, 50, 5)

	// Both together cost 55 and break the budget; A alone scores higher than
	// B alone, so the optimum is exactly {A}.
	require.Len(t, result.Costumes, 1)
	assert.Equal(t, itemA.ID, result.Costumes[0].ID)
	assert.Equal(t, CostumeValue(itemA), result.TotalValue)
	assert.Equal(t, 25.0, result.TotalCost)
	assert.Equal(t, 25, result.RemainingBudget)
}

func TestOptimizeRentalComboRespectsBudget(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 8).Draw(t, "n")
		var costumes []engine.Costume
		for i := 0; i < n; i++ {
			costumes = append(costumes, engine.Costume{
				ID:        uuid.New(),
				Price:     float64(rapid.IntRange(1, 120).Draw(t, "price")),
				Condition: engine.ConditionGood,
				Available: rapid.Bool().Draw(t, "available"),
			})
		}
		budget := rapid.IntRange(0, 200).Draw(t, "budget")
		maxItems := rapid.IntRange(1, 10).Draw(t, "maxItems")

		result := OptimizeRentalCombo(costumes, budget, maxItems)

		truncated := 0
		for _, c := range result.Costumes {
			truncated += int(c.Price)
		}
		require.LessOrEqual(t, truncated, budget, "selection must fit the budget")
		require.LessOrEqual(t, len(result.Costumes), maxItems)
		require.Equal(t, budget-truncated, result.RemainingBudget)
	})
}

func TestOptimizeRentalComboZeroBudget(t *testing.T) {
	result := OptimizeRentalCombo([]engine.Costume{
		{ID: uuid.New(), Price: 10, Condition: engine.ConditionGood},
	}, 0, 5)

	assert.Empty(t, result.Costumes)
	assert.Zero(t, result.TotalValue)
}

func TestFractionalKnapsackTakesFractionOfLastItem(t *testing.T) {
	a := engine.Costume{ID: uuid.New(), Name: "A", Price: 30, Condition: engine.ConditionExcellent, Available: true, Category: "Fantasy"}
	b := engine.Costume{ID: uuid.New(), Name: "B", Price: 40, Condition: engine.ConditionFair, Available: true}

	result := FractionalKnapsack([]engine.Costume{b, a}, 50)

	require.Len(t, result.Selection, 2)
	// A has the better value/price ratio, so it is taken whole first.
	assert.Equal(t, "A", result.Selection[0].Costume.Name)
	assert.Equal(t, 1.0, result.Selection[0].Fraction)
	assert.Equal(t, "B", result.Selection[1].Costume.Name)
	assert.InDelta(t, 0.5, result.Selection[1].Fraction, 1e-9)
	assert.InDelta(t, 50.0, result.TotalCost, 1e-9)
}

func TestFractionalKnapsackSkipsUnavailable(t *testing.T) {
	out := engine.Costume{ID: uuid.New(), Price: 10, Available: false}
	free := engine.Costume{ID: uuid.New(), Price: 0, Available: true}

	result := FractionalKnapsack([]engine.Costume{out, free}, 100)
	assert.Empty(t, result.Selection)
	assert.Zero(t, result.TotalCost)
}

func TestFindMatchingCostumesThemeAndBudget(t *testing.T) {
	fantasy1 := engine.Costume{ID: uuid.New(), Name: "Elf", Category: "Fantasy", Size: "M", Price: 20, Condition: engine.ConditionGood, Available: true}
	fantasy2 := engine.Costume{ID: uuid.New(), Name: "Wizard", Category: "Fantasy", Size: "M", Price: 25, Condition: engine.ConditionExcellent, Available: true}
	horror := engine.Costume{ID: uuid.New(), Name: "Ghoul", Category: "Horror", Size: "M", Price: 15, Condition: engine.ConditionGood, Available: true}

	solutions := FindMatchingCostumes([]engine.Costume{fantasy1, fantasy2, horror}, Constraints{
		Budget:           60,
		MinItems:         2,
		MaxItems:         2,
		ThemeConsistency: true,
	}, 10)

	require.NotEmpty(t, solutions)
	for _, sol := range solutions {
		require.Len(t, sol.Costumes, 2)
		require.Equal(t, sol.Costumes[0].Category, sol.Costumes[1].Category)
		var total float64
		for _, c := range sol.Costumes {
			total += c.Price
		}
		require.LessOrEqual(t, total, 60.0)
	}

	// Solutions come back best-first.
	for i := 1; i < len(solutions); i++ {
		require.GreaterOrEqual(t, solutions[i-1].Score, solutions[i].Score)
	}
}

func TestFindMatchingCostumesDateConflictsPrune(t *testing.T) {
	costumeID := uuid.New()
	booked := engine.Costume{ID: costumeID, Name: "Booked", Category: "Fantasy", Price: 20, Condition: engine.ConditionGood, Available: true}
	free := engine.Costume{ID: uuid.New(), Name: "Free", Category: "Fantasy", Price: 20, Condition: engine.ConditionGood, Available: true}

	start := time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)

	solutions := FindMatchingCostumes([]engine.Costume{booked, free}, Constraints{
		Budget:    100,
		MinItems:  1,
		MaxItems:  1,
		StartDate: start,
		EndDate:   end,
		ExistingRentals: []engine.Rental{{
			ID:        uuid.New(),
			CostumeID: costumeID,
			StartDate: start,
			EndDate:   end,
			Status:    engine.RentalActive,
		}},
	}, 10)

	require.NotEmpty(t, solutions)
	for _, sol := range solutions {
		for _, c := range sol.Costumes {
			require.NotEqual(t, costumeID, c.ID, "date-conflicted costumes must be pruned")
		}
	}
}

func TestFindMatchingCostumesNoSolution(t *testing.T) {
	pricey := engine.Costume{ID: uuid.New(), Price: 500, Condition: engine.ConditionGood, Available: true}

	solutions := FindMatchingCostumes([]engine.Costume{pricey}, Constraints{Budget: 10, MinItems: 1}, 10)
	assert.Empty(t, solutions)
}

func TestMultiConstraintKnapsackHonorsAllBounds(t *testing.T) {
	costumes := []engine.Costume{
		{ID: uuid.New(), Name: "Knight", Category: "Historical", Size: "L", Price: 30, Condition: engine.ConditionExcellent, Available: true},
		{ID: uuid.New(), Name: "Queen", Category: "Historical", Size: "M", Price: 45, Condition: engine.ConditionGood, Available: true},
		{ID: uuid.New(), Name: "Robot", Category: "Sci-Fi", Size: "XL", Price: 25, Condition: engine.ConditionGood, Available: true},
		{ID: uuid.New(), Name: "Ghost", Category: "Horror", Size: "S", Price: 10, Condition: engine.ConditionFair, Available: false},
	}

	result := MultiConstraintKnapsack(costumes, MultiConstraints{
		Budget:             80,
		MaxWeight:          10,
		MaxItems:           2,
		RequiredCategories: []string{"Historical", "Sci-Fi"},
	})

	require.NotEmpty(t, result.Items)
	require.LessOrEqual(t, len(result.Items), 2)

	var cost float64
	totalWeight := 0
	for _, c := range result.Items {
		require.True(t, c.Available)
		require.Contains(t, []string{"Historical", "Sci-Fi"}, c.Category)
		cost += c.Price
		totalWeight += weight(c)
	}
	assert.LessOrEqual(t, cost, 80.0)
	assert.LessOrEqual(t, totalWeight, 10)
	assert.Positive(t, result.Value)
}

func TestMultiConstraintKnapsackUnboundedDefaults(t *testing.T) {
	costumes := []engine.Costume{
		{ID: uuid.New(), Price: 10, Condition: engine.ConditionGood, Available: true},
		{ID: uuid.New(), Price: 15, Condition: engine.ConditionGood, Available: true},
	}

	result := MultiConstraintKnapsack(costumes, MultiConstraints{Budget: 100})
	assert.Len(t, result.Items, 2, "zero weight and item bounds mean unbounded")
}
