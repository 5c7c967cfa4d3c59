package rank

import (
	"strings"

	"github.com/google/uuid"

	"costumier/internal/engine"
)

// CriterionField names a costume field usable in weighted multi-criteria
// sorting. Unknown fields contribute nothing to the comparison.
type CriterionField string

const (
	FieldPrice     CriterionField = "price"
	FieldName      CriterionField = "name"
	FieldAvailable CriterionField = "available"
	FieldCondition CriterionField = "condition"
)

// Criterion is one weighted field in a multi-criteria comparison.
type Criterion struct {
	Field     CriterionField
	Weight    float64
	Ascending bool
}

// ByPopularity orders costumes by descending rental frequency, counting
// costume-id occurrences across the whole rental snapshot.
func ByPopularity(rentals []engine.Rental) Comparator[engine.Costume] {
	counts := make(map[uuid.UUID]int, len(rentals))
	for _, r := range rentals {
		counts[r.CostumeID]++
	}

	return func(a, b engine.Costume) int {
		return counts[b.ID] - counts[a.ID]
	}
}

// ByPrice orders costumes by price.
func ByPrice(ascending bool) Comparator[engine.Costume] {
	return func(a, b engine.Costume) int {
		diff := a.Price - b.Price
		if !ascending {
			diff = -diff
		}
		return sign(diff)
	}
}

// ByAvailabilityAndCondition puts available costumes first, then orders by
// condition rank (excellent > good > fair).
func ByAvailabilityAndCondition() Comparator[engine.Costume] {
	return func(a, b engine.Costume) int {
		if a.Available != b.Available {
			if a.Available {
				return -1
			}
			return 1
		}
		return b.Condition.Rank() - a.Condition.Rank()
	}
}

// ByCriteria builds a comparator that sums per-field signed comparisons
// scaled by the supplied weights. With Ascending set, price and name order
// low-to-high while availability and condition order better-first; clearing
// Ascending reverses the field's direction.
func ByCriteria(criteria []Criterion) Comparator[engine.Costume] {
	return func(a, b engine.Costume) int {
		var score float64
		for _, crit := range criteria {
			var comparison float64
			switch crit.Field {
			case FieldPrice:
				comparison = a.Price - b.Price
			case FieldName:
				comparison = float64(strings.Compare(a.Name, b.Name))
			case FieldAvailable:
				comparison = float64(boolInt(b.Available) - boolInt(a.Available))
			case FieldCondition:
				comparison = float64(b.Condition.Rank() - a.Condition.Rank())
			}
			if !crit.Ascending {
				comparison = -comparison
			}
			score += comparison * crit.Weight
		}
		return sign(score)
	}
}

func sign(f float64) int {
	switch {
	case f < 0:
		return -1
	case f > 0:
		return 1
	default:
		return 0
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
