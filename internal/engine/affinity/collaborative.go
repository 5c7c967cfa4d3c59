package affinity

import (
	"sort"

	"github.com/google/uuid"

	"costumier/internal/engine"
)

const (
	// similarityFloor drops neighbors whose Jaccard similarity is too weak to
	// contribute a meaningful signal.
	similarityFloor = 0.1

	// maxNeighbors caps how many similar shoppers feed a recommendation.
	maxNeighbors = 10
)

type neighbor struct {
	shopperID  uuid.UUID
	similarity float64
}

// CollaborativeRecommendations ranks costumes rented by shoppers with
// similar rental histories but not yet by the target shopper, weighting each
// candidate by the contributing neighbor's Jaccard similarity. A shopper with
// no history falls back to global popularity.
func CollaborativeRecommendations(shopperID uuid.UUID, rentals []engine.Rental, costumes []engine.Costume, limit int) []engine.Costume {
	history := make(map[uuid.UUID]struct{})
	for _, r := range rentals {
		if r.ShopperID == shopperID {
			history[r.CostumeID] = struct{}{}
		}
	}

	if len(history) == 0 {
		return PopularRecommendations(rentals, costumes, limit)
	}

	neighbors := similarShoppers(shopperID, history, rentals)

	scores := make(map[uuid.UUID]float64)
	for _, n := range neighbors {
		for _, r := range rentals {
			if r.ShopperID != n.shopperID {
				continue
			}
			if _, seen := history[r.CostumeID]; seen {
				continue
			}
			scores[r.CostumeID] += n.similarity
		}
	}

	return resolveRanked(scores, costumes, limit)
}

// similarShoppers computes Jaccard similarity between the target's
// rented-costume-id set and every other shopper with at least one rental,
// keeping the strongest neighbors above the similarity floor.
func similarShoppers(shopperID uuid.UUID, history map[uuid.UUID]struct{}, rentals []engine.Rental) []neighbor {
	byShopper := make(map[uuid.UUID]map[uuid.UUID]struct{})
	for _, r := range rentals {
		if r.ShopperID == shopperID {
			continue
		}
		if byShopper[r.ShopperID] == nil {
			byShopper[r.ShopperID] = make(map[uuid.UUID]struct{})
		}
		byShopper[r.ShopperID][r.CostumeID] = struct{}{}
	}

	var neighbors []neighbor
	for otherID, otherSet := range byShopper {
		intersection := 0
		for id := range history {
			if _, ok := otherSet[id]; ok {
				intersection++
			}
		}
		union := len(history) + len(otherSet) - intersection
		if union == 0 {
			continue
		}

		similarity := float64(intersection) / float64(union)
		if similarity > similarityFloor {
			neighbors = append(neighbors, neighbor{shopperID: otherID, similarity: similarity})
		}
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].similarity > neighbors[j].similarity
	})
	if len(neighbors) > maxNeighbors {
		neighbors = neighbors[:maxNeighbors]
	}
	return neighbors
}

// PopularRecommendations ranks costumes by raw rental count.
func PopularRecommendations(rentals []engine.Rental, costumes []engine.Costume, limit int) []engine.Costume {
	scores := make(map[uuid.UUID]float64)
	for _, r := range rentals {
		scores[r.CostumeID]++
	}
	return resolveRanked(scores, costumes, limit)
}

// resolveRanked maps a costume-id score table to the costume records in
// descending score order, dropping ids absent from the snapshot.
func resolveRanked(scores map[uuid.UUID]float64, costumes []engine.Costume, limit int) []engine.Costume {
	type scored struct {
		id    uuid.UUID
		score float64
	}

	ranked := make([]scored, 0, len(scores))
	for id, score := range scores {
		ranked = append(ranked, scored{id: id, score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	byID := make(map[uuid.UUID]engine.Costume, len(costumes))
	for _, c := range costumes {
		byID[c.ID] = c
	}

	var result []engine.Costume
	for _, s := range ranked {
		if len(result) >= limit {
			break
		}
		if c, ok := byID[s.id]; ok {
			result = append(result, c)
		}
	}
	return result
}
