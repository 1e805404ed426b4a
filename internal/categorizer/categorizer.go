// Package categorizer maps free-text transaction descriptions to the fixed
// expense category set.
//
// Classification lower-cases and tokenizes the description, reduces every
// token to its lexical root and looks the roots up in a small keyword table.
// When no root matches directly, each root is expanded to its synonym sets
// and the synonyms are looked up in turn. The first hit in token order wins;
// descriptions with no hit are classified as Other.
package categorizer

import (
	"finledger/internal/cache"
	"finledger/internal/core"
)

type lexicon struct {
	lemmas   *lemmatizer
	table    map[string]core.Category
	synonyms map[string][][]string
}

// defaultLexicon is built once from the package tables and never mutated.
var defaultLexicon = buildLexicon()

func buildLexicon() *lexicon {
	surface := make([]string, 0, len(keywords))
	for _, k := range keywords {
		surface = append(surface, k.word)
	}
	lx := &lexicon{
		lemmas:   newLemmatizer(append([][]string{surface}, synsets...)...),
		table:    make(map[string]core.Category, len(keywords)),
		synonyms: map[string][][]string{},
	}
	for _, k := range keywords {
		root := lx.lemmas.lemma(k.word)
		if _, dup := lx.table[root]; !dup {
			lx.table[root] = k.category
		}
	}
	for _, group := range synsets {
		roots := make([]string, 0, len(group))
		for _, w := range group {
			roots = append(roots, lx.lemmas.lemma(w))
		}
		for _, root := range roots {
			lx.synonyms[root] = append(lx.synonyms[root], roots)
		}
	}
	return lx
}

func (lx *lexicon) classify(description string) core.Category {
	tokens := tokenize(description)
	roots := make([]string, len(tokens))
	for i, tok := range tokens {
		roots[i] = lx.lemmas.lemma(tok)
	}

	for _, root := range roots {
		if c, ok := lx.table[root]; ok {
			return c
		}
	}

	for _, root := range roots {
		for _, group := range lx.synonyms[root] {
			for _, syn := range group {
				if c, ok := lx.table[syn]; ok {
					return c
				}
			}
		}
	}

	return core.Other
}

// Classify is the uncached classification of description.
func Classify(description string) core.Category {
	return defaultLexicon.classify(description)
}

// Categorizer memoizes Classify. It is safe for concurrent use.
type Categorizer struct {
	memo cache.Cache[core.Category]
}

// New returns a Categorizer remembering up to cacheSize descriptions.
// A cacheSize of zero disables memoization.
func New(cacheSize int) *Categorizer {
	return &Categorizer{memo: cache.NewLRUCache[core.Category](cacheSize, 0)}
}

// NewWithCache returns a Categorizer memoizing into memo.
func NewWithCache(memo cache.Cache[core.Category]) *Categorizer {
	return &Categorizer{memo: memo}
}

// Classify maps description to a category. Empty descriptions map to Other.
func (c *Categorizer) Classify(description string) core.Category {
	if c == nil || c.memo == nil {
		return Classify(description)
	}
	if cat, ok := c.memo.Get(description); ok {
		return cat
	}
	cat := Classify(description)
	c.memo.Set(description, cat)
	return cat
}

// Cached reports how many descriptions are memoized.
func (c *Categorizer) Cached() int {
	if c == nil || c.memo == nil {
		return 0
	}
	return c.memo.Size()
}
