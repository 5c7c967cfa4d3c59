package optimize

import (
	"sort"
	"strings"
	"time"

	"costumier/internal/engine"
	"costumier/internal/engine/booking"
)

// Constraints is the conjunctive constraint set for the backtracking matcher.
// Zero values mean "not supplied". All supplied checks must hold at once.
type Constraints struct {
	Budget           float64
	MinItems         int
	MaxItems         int
	ThemeConsistency bool
	SameSize         bool
	MinCondition     engine.Condition
	RequiredColor    string
	StartDate        time.Time
	EndDate          time.Time
	ExistingRentals  []engine.Rental
}

func (c Constraints) hasDateRange() bool {
	return !c.StartDate.IsZero() && !c.EndDate.IsZero()
}

// Satisfaction counts how many of the supplied constraints a solution meets.
type Satisfaction struct {
	Satisfied int
	Total     int
	Ratio     float64
}

// Solution is one accepted costume selection with its score.
type Solution struct {
	Costumes    []engine.Costume
	Score       float64
	Constraints Satisfaction
}

// FindMatchingCostumes explores subsets of the candidate pool in index order,
// pruning any branch whose next candidate would already violate a constraint,
// and stops once maxSolutions have been accepted. Accepted solutions are
// scored and returned sorted by score descending.
func FindMatchingCostumes(costumes []engine.Costume, constraints Constraints, maxSolutions int) []Solution {
	var accepted [][]engine.Costume
	var current []engine.Costume

	var backtrack func(startIndex int)
	backtrack = func(startIndex int) {
		if len(accepted) >= maxSolutions {
			return
		}

		if isValidSolution(current, constraints) {
			solution := make([]engine.Costume, len(current))
			copy(solution, current)
			accepted = append(accepted, solution)
			return
		}

		for i := startIndex; i < len(costumes); i++ {
			if !isPromising(current, costumes[i], constraints) {
				continue
			}
			current = append(current, costumes[i])
			backtrack(i + 1)
			current = current[:len(current)-1]
		}
	}
	backtrack(0)

	solutions := make([]Solution, 0, len(accepted))
	for _, sel := range accepted {
		solutions = append(solutions, Solution{
			Costumes:    sel,
			Score:       solutionScore(sel, constraints),
			Constraints: countSatisfied(sel, constraints),
		})
	}
	sort.SliceStable(solutions, func(i, j int) bool {
		return solutions[i].Score > solutions[j].Score
	})

	return solutions
}

func isValidSolution(solution []engine.Costume, constraints Constraints) bool {
	if len(solution) == 0 {
		return false
	}

	if constraints.MinItems > 0 && len(solution) < constraints.MinItems {
		return false
	}
	if constraints.MaxItems > 0 && len(solution) > constraints.MaxItems {
		return false
	}

	if constraints.Budget > 0 && totalPrice(solution) > constraints.Budget {
		return false
	}

	if constraints.ThemeConsistency && distinctCategories(solution) > 1 {
		return false
	}
	if constraints.SameSize && distinctSizes(solution) > 1 {
		return false
	}

	if constraints.RequiredColor != "" {
		found := false
		for _, c := range solution {
			if strings.Contains(strings.ToLower(c.Description), strings.ToLower(constraints.RequiredColor)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for _, c := range solution {
		if !c.Available {
			return false
		}
	}

	if constraints.hasDateRange() {
		requested := booking.Range{Start: constraints.StartDate, End: constraints.EndDate}
		for _, c := range solution {
			if booking.HasConflict(c.ID, requested, constraints.ExistingRentals) {
				return false
			}
		}
	}

	return true
}

func isPromising(current []engine.Costume, candidate engine.Costume, constraints Constraints) bool {
	if !candidate.Available {
		return false
	}

	if constraints.Budget > 0 && totalPrice(current)+candidate.Price > constraints.Budget {
		return false
	}

	if constraints.ThemeConsistency && len(current) > 0 && candidate.Category != current[0].Category {
		return false
	}
	if constraints.SameSize && len(current) > 0 && candidate.Size != current[0].Size {
		return false
	}

	if constraints.MinCondition != "" && candidate.Condition.Rank() < constraints.MinCondition.Rank() {
		return false
	}

	if constraints.hasDateRange() {
		requested := booking.Range{Start: constraints.StartDate, End: constraints.EndDate}
		if booking.HasConflict(candidate.ID, requested, constraints.ExistingRentals) {
			return false
		}
	}

	if constraints.MaxItems > 0 && len(current) >= constraints.MaxItems {
		return false
	}

	return true
}

func solutionScore(solution []engine.Costume, constraints Constraints) float64 {
	var score float64

	for _, c := range solution {
		switch c.Condition {
		case engine.ConditionExcellent:
			score += 100
		case engine.ConditionGood:
			score += 80
		case engine.ConditionFair:
			score += 60
		default:
			score += 50
		}
		if engine.IsPopularCategory(c.Category) {
			score += 20
		}
	}

	if constraints.Budget > 0 {
		score += totalPrice(solution) / constraints.Budget * 50
	}
	if constraints.ThemeConsistency && distinctCategories(solution) == 1 {
		score += 100
	}
	if constraints.SameSize && distinctSizes(solution) == 1 {
		score += 50
	}

	return score
}

func countSatisfied(solution []engine.Costume, constraints Constraints) Satisfaction {
	satisfied, total := 0, 0

	if constraints.Budget > 0 {
		total++
		if totalPrice(solution) <= constraints.Budget {
			satisfied++
		}
	}
	if constraints.ThemeConsistency {
		total++
		if distinctCategories(solution) <= 1 {
			satisfied++
		}
	}
	if constraints.SameSize {
		total++
		if distinctSizes(solution) <= 1 {
			satisfied++
		}
	}
	if constraints.MinCondition != "" {
		total++
		ok := true
		for _, c := range solution {
			if c.Condition.Rank() < constraints.MinCondition.Rank() {
				ok = false
				break
			}
		}
		if ok {
			satisfied++
		}
	}

	ratio := 1.0
	if total > 0 {
		ratio = float64(satisfied) / float64(total)
	}
	return Satisfaction{Satisfied: satisfied, Total: total, Ratio: ratio}
}

func totalPrice(costumes []engine.Costume) float64 {
	var sum float64
	for _, c := range costumes {
		sum += c.Price
	}
	return sum
}

func distinctCategories(costumes []engine.Costume) int {
	seen := make(map[string]struct{}, len(costumes))
	for _, c := range costumes {
		seen[c.Category] = struct{}{}
	}
	return len(seen)
}

func distinctSizes(costumes []engine.Costume) int {
	seen := make(map[string]struct{}, len(costumes))
	for _, c := range costumes {
		seen[c.Size] = struct{}{}
	}
	return len(seen)
}
