package search

import (
	"regexp"
	"sort"
	"strings"

	"costumier/internal/engine"
)

// Filters is the conjunctive filter set for AdvancedSearch. Zero values mean
// "not supplied": empty strings skip their check, zero prices skip the bound,
// and a costume must satisfy every supplied filter to pass.
type Filters struct {
	SearchText    string
	Category      string
	Size          string
	MinPrice      float64
	MaxPrice      float64
	AvailableOnly bool
	Condition     engine.Condition
}

// BinarySearchByName sorts a working copy by name, locates one match via
// binary search on a substring predicate, then expands left and right while
// the predicate still holds, returning the contiguous-in-sorted-order run.
//
// Known limitation, preserved on purpose: substring containment is not a
// total order, so matches elsewhere in the sorted array that are not adjacent
// to the first hit can be missed. Callers needing exhaustive substring
// matching use AdvancedSearch instead.
func BinarySearchByName(costumes []engine.Costume, needle string) []engine.Costume {
	sorted := make([]engine.Costume, len(costumes))
	copy(sorted, costumes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	target := strings.ToLower(needle)
	left, right := 0, len(sorted)-1
	var results []engine.Costume

	for left <= right {
		mid := (left + right) / 2
		midName := strings.ToLower(sorted[mid].Name)

		if strings.Contains(midName, target) {
			results = append(results, sorted[mid])

			for i := mid - 1; i >= 0 && strings.Contains(strings.ToLower(sorted[i].Name), target); i-- {
				results = append([]engine.Costume{sorted[i]}, results...)
			}
			for i := mid + 1; i < len(sorted) && strings.Contains(strings.ToLower(sorted[i].Name), target); i++ {
				results = append(results, sorted[i])
			}
			break
		} else if midName < target {
			left = mid + 1
		} else {
			right = mid - 1
		}
	}

	return results
}

// AdvancedSearch applies the full conjunction of filters to a snapshot. The
// free-text filter is a case-insensitive regular expression matched against
// name, description, and category; a pattern that fails to compile degrades
// to a literal substring match rather than an error.
func AdvancedSearch(costumes []engine.Costume, filters Filters) []engine.Costume {
	var pattern *regexp.Regexp
	if filters.SearchText != "" {
		re, err := regexp.Compile("(?i)" + filters.SearchText)
		if err != nil {
			re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(filters.SearchText))
		}
		pattern = re
	}

	var results []engine.Costume
	for _, c := range costumes {
		if pattern != nil {
			if !pattern.MatchString(c.Name) && !pattern.MatchString(c.Description) && !pattern.MatchString(c.Category) {
				continue
			}
		}
		if filters.Category != "" && c.Category != filters.Category {
			continue
		}
		if filters.Size != "" && c.Size != filters.Size {
			continue
		}
		if filters.MinPrice > 0 && c.Price < filters.MinPrice {
			continue
		}
		if filters.MaxPrice > 0 && c.Price > filters.MaxPrice {
			continue
		}
		if filters.AvailableOnly && !c.Available {
			continue
		}
		if filters.Condition != "" && c.Condition != filters.Condition {
			continue
		}
		results = append(results, c)
	}

	return results
}

// FuzzySearch keeps costumes whose name or category is within threshold edit
// operations of the search term, whichever is closer.
func FuzzySearch(costumes []engine.Costume, term string, threshold int) []engine.Costume {
	lowered := strings.ToLower(term)

	var results []engine.Costume
	for _, c := range costumes {
		nameDist := Levenshtein(strings.ToLower(c.Name), lowered)
		categoryDist := Levenshtein(strings.ToLower(c.Category), lowered)
		if min(nameDist, categoryDist) <= threshold {
			results = append(results, c)
		}
	}

	return results
}

// Levenshtein computes the classic dynamic-programming edit distance between
// two strings in O(len(a)*len(b)) time.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		curr[0] = j
		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[i] = min(curr[i-1]+1, min(prev[i]+1, prev[i-1]+cost))
		}
		prev, curr = curr, prev
	}

	return prev[len(ra)]
}
