package search

import (
	"strings"

	"github.com/google/uuid"

	"costumier/internal/engine"
)

// Index is a character trie over the lowercased tokens of a costume
// collection: full names, categories, and description words longer than two
// characters. Each node accumulates the set of costumes whose tokens pass
// through it, so any prefix walk lands on the complete candidate set at once.
//
// An Index is built fresh from a snapshot on every query cycle and is safe for
// concurrent readers once built.
type Index struct {
	root *trieNode
}

type trieNode struct {
	children map[rune]*trieNode
	costumes map[uuid.UUID]engine.Costume
	terminal bool
}

func newTrieNode() *trieNode {
	return &trieNode{
		children: make(map[rune]*trieNode),
		costumes: make(map[uuid.UUID]engine.Costume),
	}
}

// Suggestion is one autocomplete hit, decorated with display fields.
type Suggestion struct {
	Text     string
	Category string
	Costume  engine.Costume
}

// BuildIndex constructs the trie for a costume snapshot.
func BuildIndex(costumes []engine.Costume) *Index {
	ix := &Index{root: newTrieNode()}

	for _, c := range costumes {
		ix.insert(strings.ToLower(c.Name), c)
		ix.insert(strings.ToLower(c.Category), c)
		for _, word := range strings.Fields(strings.ToLower(c.Description)) {
			if len(word) > 2 {
				ix.insert(word, c)
			}
		}
	}

	return ix
}

func (ix *Index) insert(word string, c engine.Costume) {
	current := ix.root
	for _, ch := range word {
		next, ok := current.children[ch]
		if !ok {
			next = newTrieNode()
			current.children[ch] = next
		}
		current = next
		current.costumes[c.ID] = c
	}
	current.terminal = true
}

// Autocomplete walks the trie by character and returns up to limit costumes
// reachable from the prefix's terminal node. A missing edge anywhere along the
// prefix yields an empty result; there is no fuzzy fallback at this level.
// Order follows the node set's natural enumeration; callers that need ranked
// suggestions re-sort the result.
func (ix *Index) Autocomplete(prefix string, limit int) []Suggestion {
	current := ix.root
	for _, ch := range strings.ToLower(prefix) {
		next, ok := current.children[ch]
		if !ok {
			return nil
		}
		current = next
	}

	suggestions := make([]Suggestion, 0, limit)
	for _, c := range current.costumes {
		if len(suggestions) >= limit {
			break
		}
		suggestions = append(suggestions, Suggestion{
			Text:     c.Name,
			Category: c.Category,
			Costume:  c,
		})
	}

	return suggestions
}
