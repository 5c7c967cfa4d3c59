package search

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costumier/internal/engine"
)

func costume(name, category, description string) engine.Costume {
	return engine.Costume{
		ID:          uuid.New(),
		Name:        name,
		Category:    category,
		Description: description,
		Condition:   engine.ConditionGood,
		Available:   true,
	}
}

func TestAutocompleteSharedPrefix(t *testing.T) {
	princess := costume("Princess Gown", "Fantasy", "sparkling ball gown")
	prince := costume("Prince Charming", "Fantasy", "royal jacket with epaulettes")
	knight := costume("Knight Armor", "Historical", "chainmail and helmet")

	ix := BuildIndex([]engine.Costume{princess, prince, knight})

	suggestions := ix.Autocomplete("pr", 10)
	require.Len(t, suggestions, 2)

	names := []string{suggestions[0].Text, suggestions[1].Text}
	assert.Contains(t, names, "Princess Gown")
	assert.Contains(t, names, "Prince Charming")
}

func TestAutocompleteMissingEdge(t *testing.T) {
	ix := BuildIndex([]engine.Costume{
		costume("Princess Gown", "Fantasy", ""),
		costume("Prince Charming", "Fantasy", ""),
	})

	assert.Empty(t, ix.Autocomplete("za", 10))
}

func TestAutocompleteMatchesCategoryAndDescription(t *testing.T) {
	witch := costume("Witch Hat", "Horror", "pointed velvet hat")

	ix := BuildIndex([]engine.Costume{witch})

	assert.Len(t, ix.Autocomplete("hor", 10), 1, "category tokens are indexed")
	assert.Len(t, ix.Autocomplete("velv", 10), 1, "description words are indexed")
	assert.Empty(t, ix.Autocomplete("at", 10), "tokens are matched by prefix, not substring")
}

func TestAutocompleteLimit(t *testing.T) {
	costumes := []engine.Costume{
		costume("Pirate Captain", "Historical", ""),
		costume("Pirate Deckhand", "Historical", ""),
		costume("Pirate Queen", "Historical", ""),
	}

	ix := BuildIndex(costumes)
	assert.Len(t, ix.Autocomplete("pir", 2), 2)
}

func TestBinarySearchByName(t *testing.T) {
	dragonLord := costume("Dragon Lord", "Fantasy", "")
	dragonRider := costume("Dragon Rider", "Fantasy", "")
	knight := costume("Knight Armor", "Historical", "")

	results := BinarySearchByName([]engine.Costume{knight, dragonRider, dragonLord}, "dragon")

	require.Len(t, results, 2)
	assert.Equal(t, "Dragon Lord", results[0].Name)
	assert.Equal(t, "Dragon Rider", results[1].Name)
}

func TestBinarySearchByNameNoMatch(t *testing.T) {
	results := BinarySearchByName([]engine.Costume{
		costume("Dragon Lord", "Fantasy", ""),
		costume("Knight Armor", "Historical", ""),
	}, "zombie")

	assert.Empty(t, results)
}

func TestAdvancedSearchConjunction(t *testing.T) {
	gown := costume("Princess Gown", "Fantasy", "sparkling blue gown")
	gown.Size = "M"
	gown.Price = 45
	armor := costume("Knight Armor", "Historical", "heavy chainmail")
	armor.Size = "L"
	armor.Price = 80

	costumes := []engine.Costume{gown, armor}

	results := AdvancedSearch(costumes, Filters{SearchText: "gown"})
	require.Len(t, results, 1)
	assert.Equal(t, "Princess Gown", results[0].Name)

	results = AdvancedSearch(costumes, Filters{Category: "Historical", MaxPrice: 100})
	require.Len(t, results, 1)
	assert.Equal(t, "Knight Armor", results[0].Name)

	assert.Empty(t, AdvancedSearch(costumes, Filters{Category: "Fantasy", MinPrice: 50}))
}

func TestAdvancedSearchBadPatternFallsBackToLiteral(t *testing.T) {
	weird := costume("Robot [prototype", "Sci-Fi", "")

	results := AdvancedSearch([]engine.Costume{weird}, Filters{SearchText: "[prototype"})
	require.Len(t, results, 1)
	assert.Equal(t, "Robot [prototype", results[0].Name)
}

func TestAdvancedSearchAvailableOnly(t *testing.T) {
	out := costume("Vampire Cape", "Horror", "")
	out.Available = false
	in := costume("Vampire Count", "Horror", "")

	results := AdvancedSearch([]engine.Costume{out, in}, Filters{AvailableOnly: true})
	require.Len(t, results, 1)
	assert.Equal(t, "Vampire Count", results[0].Name)
}

func TestFuzzySearch(t *testing.T) {
	pirate := costume("Pirate", "Historical", "")
	zombie := costume("Zombie", "Horror", "")

	results := FuzzySearch([]engine.Costume{pirate, zombie}, "pirrate", 2)
	require.Len(t, results, 1)
	assert.Equal(t, "Pirate", results[0].Name)

	assert.Empty(t, FuzzySearch([]engine.Costume{pirate, zombie}, "astronaut", 2))
}

func TestFuzzySearchMatchesCategory(t *testing.T) {
	clown := costume("Happy Clown", "Comedy", "")

	results := FuzzySearch([]engine.Costume{clown}, "comedi", 2)
	require.Len(t, results, 1)
	assert.Equal(t, "Happy Clown", results[0].Name)
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"pirate", "pirate", 0},
		{"pirate", "pirates", 1},
		{"flaw", "lawn", 2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b), "Levenshtein(%q, %q)", tt.a, tt.b)
	}
}
