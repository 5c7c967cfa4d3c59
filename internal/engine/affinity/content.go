// Package affinity ranks recommended costumes: content-based similarity
// between items, Jaccard collaborative filtering over rental histories, a
// popularity fallback, and frequent-pair mining over rental sessions.
package affinity

import (
	"math"
	"sort"
	"strings"

	"costumier/internal/engine"
)

// Fixed weights of the linear content-similarity model.
const (
	categoryWeight    = 0.4
	sizeWeight        = 0.2
	priceWeight       = 0.2
	conditionWeight   = 0.1
	descriptionWeight = 0.1

	// priceCloseness is the relative band within which two prices count as
	// similar.
	priceCloseness = 0.2
)

// ContentSimilarity scores how alike two costumes are: binary category, size,
// and condition matches, relative price closeness, and a bag-of-words
// description-overlap fraction. The model is a fixed linear combination, not
// learned.
func ContentSimilarity(a, b engine.Costume) float64 {
	var similarity float64

	if a.Category == b.Category {
		similarity += categoryWeight
	}
	if a.Size == b.Size {
		similarity += sizeWeight
	}

	avgPrice := (a.Price + b.Price) / 2
	if avgPrice > 0 && math.Abs(a.Price-b.Price)/avgPrice <= priceCloseness {
		similarity += priceWeight
	}

	if a.Condition == b.Condition {
		similarity += conditionWeight
	}

	similarity += descriptionOverlap(a.Description, b.Description) * descriptionWeight

	return similarity
}

func descriptionOverlap(a, b string) float64 {
	wordsA := strings.Fields(strings.ToLower(a))
	wordsB := strings.Fields(strings.ToLower(b))
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	setB := make(map[string]struct{}, len(wordsB))
	for _, w := range wordsB {
		setB[w] = struct{}{}
	}

	common := 0
	for _, w := range wordsA {
		if _, ok := setB[w]; ok {
			common++
		}
	}

	return float64(common) / float64(max(len(wordsA), len(wordsB)))
}

// ContentBasedRecommendations returns up to limit costumes most similar to
// the target, excluding the target itself.
func ContentBasedRecommendations(target engine.Costume, all []engine.Costume, limit int) []engine.Costume {
	type scored struct {
		costume    engine.Costume
		similarity float64
	}

	var candidates []scored
	for _, c := range all {
		if c.ID == target.ID {
			continue
		}
		candidates = append(candidates, scored{costume: c, similarity: ContentSimilarity(target, c)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].similarity > candidates[j].similarity
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	result := make([]engine.Costume, 0, len(candidates))
	for _, s := range candidates {
		result = append(result, s.costume)
	}
	return result
}
