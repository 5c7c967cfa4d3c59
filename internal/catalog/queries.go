// internal/catalog/queries.go
package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"costumier/internal/engine"
	"costumier/internal/engine/affinity"
	"costumier/internal/engine/optimize"
	"costumier/internal/engine/rank"
	"costumier/internal/engine/search"
)

const fuzzyThreshold = 2

// Search runs the advanced (or fuzzy) filter over the current snapshot and
// applies the requested sort policy. The engine only ever sees per-call
// copies, so the read model stays the single source of truth.
func (s *service) Search(ctx context.Context, req SearchRequest) ([]*Costume, error) {
	costumes, err := s.ListCostumes(ctx)
	if err != nil {
		return nil, err
	}
	snapshot := snapshotOf(costumes)

	var matched []engine.Costume
	if req.Fuzzy && req.Filters.SearchText != "" {
		matched = search.FuzzySearch(snapshot, req.Filters.SearchText, fuzzyThreshold)
	} else {
		matched = search.AdvancedSearch(snapshot, req.Filters)
	}

	if req.SortBy != "" {
		cmp, err := s.comparatorFor(ctx, req.SortBy)
		if err != nil {
			return nil, err
		}
		if cmp != nil {
			matched = rank.QuickSort(matched, cmp)
		}
	}

	return resolve(matched, costumes), nil
}

func (s *service) comparatorFor(ctx context.Context, sortBy string) (rank.Comparator[engine.Costume], error) {
	switch sortBy {
	case SortPopularity:
		rentals, err := s.rentals.Snapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load rental snapshot: %w", err)
		}
		return rank.ByPopularity(rentals), nil
	case SortPriceAsc:
		return rank.ByPrice(true), nil
	case SortPriceDesc:
		return rank.ByPrice(false), nil
	case SortCondition:
		return rank.ByAvailabilityAndCondition(), nil
	case SortFeatured:
		// Storefront default: available and well-kept first, cheaper on ties.
		return rank.ByCriteria([]rank.Criterion{
			{Field: rank.FieldAvailable, Weight: 3, Ascending: true},
			{Field: rank.FieldCondition, Weight: 2, Ascending: true},
			{Field: rank.FieldPrice, Weight: 1, Ascending: true},
		}), nil
	default:
		return nil, fmt.Errorf("unknown sort policy %q", sortBy)
	}
}

// Autocomplete builds a fresh index over the snapshot and walks it for the
// prefix. A missing trie edge yields an empty suggestion list, not an error.
func (s *service) Autocomplete(ctx context.Context, prefix string, limit int) ([]search.Suggestion, error) {
	costumes, err := s.ListCostumes(ctx)
	if err != nil {
		return nil, err
	}

	index := search.BuildIndex(snapshotOf(costumes))
	return index.Autocomplete(prefix, limit), nil
}

// SimilarCostumes ranks the rest of the catalog by content similarity to the
// given costume.
func (s *service) SimilarCostumes(ctx context.Context, id uuid.UUID, limit int) ([]*Costume, error) {
	costumes, err := s.ListCostumes(ctx)
	if err != nil {
		return nil, err
	}

	var target *Costume
	for _, c := range costumes {
		if c.ID == id {
			target = c
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("costume with ID %s not found", id)
	}

	similar := affinity.ContentBasedRecommendations(target.Snapshot(), snapshotOf(costumes), limit)
	return resolve(similar, costumes), nil
}

// RecommendationsFor runs collaborative filtering over the rental snapshot
// for a shopper, falling back to popularity for shoppers with no history.
func (s *service) RecommendationsFor(ctx context.Context, shopperID uuid.UUID, limit int) ([]*Costume, error) {
	costumes, err := s.ListCostumes(ctx)
	if err != nil {
		return nil, err
	}
	rentals, err := s.rentals.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rental snapshot: %w", err)
	}

	recommended := affinity.CollaborativeRecommendations(shopperID, rentals, snapshotOf(costumes), limit)
	return resolve(recommended, costumes), nil
}

// OptimizeCombo runs the 0/1 knapsack over the available portion of the
// catalog for a whole-unit budget.
func (s *service) OptimizeCombo(ctx context.Context, budget, maxItems int) (optimize.ComboResult, error) {
	costumes, err := s.ListCostumes(ctx)
	if err != nil {
		return optimize.ComboResult{}, err
	}
	return optimize.OptimizeRentalCombo(snapshotOf(costumes), budget, maxItems), nil
}

// MatchOutfits runs the constraint backtracker. When the constraints carry a
// date range the current rental snapshot supplies the conflict set.
func (s *service) MatchOutfits(ctx context.Context, constraints optimize.Constraints, maxSolutions int) ([]optimize.Solution, error) {
	costumes, err := s.ListCostumes(ctx)
	if err != nil {
		return nil, err
	}

	if !constraints.StartDate.IsZero() && !constraints.EndDate.IsZero() && constraints.ExistingRentals == nil {
		rentals, err := s.rentals.Snapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load rental snapshot: %w", err)
		}
		constraints.ExistingRentals = rentals
	}

	return optimize.FindMatchingCostumes(snapshotOf(costumes), constraints, maxSolutions), nil
}

// FrequentCombos mines frequently co-rented costume pairs from the rental
// snapshot.
func (s *service) FrequentCombos(ctx context.Context, minSupport float64) ([]affinity.Pair, error) {
	rentals, err := s.rentals.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rental snapshot: %w", err)
	}
	return affinity.FrequentPairs(rentals, minSupport), nil
}

func snapshotOf(costumes []*Costume) []engine.Costume {
	snapshot := make([]engine.Costume, 0, len(costumes))
	for _, c := range costumes {
		snapshot = append(snapshot, c.Snapshot())
	}
	return snapshot
}

// resolve maps engine results back to the read-model records, preserving the
// engine's ordering.
func resolve(results []engine.Costume, costumes []*Costume) []*Costume {
	byID := make(map[uuid.UUID]*Costume, len(costumes))
	for _, c := range costumes {
		byID[c.ID] = c
	}

	resolved := make([]*Costume, 0, len(results))
	for _, r := range results {
		if c, ok := byID[r.ID]; ok {
			resolved = append(resolved, c)
		}
	}
	return resolved
}
