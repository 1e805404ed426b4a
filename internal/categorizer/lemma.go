package categorizer

import (
	"strings"
	"unicode"
)

type suffixRule struct {
	suffix, replacement string
}

// Detachment rules in the style of WordNet's morphy.
var (
	nounRules = []suffixRule{
		{"s", ""}, {"ses", "s"}, {"xes", "x"}, {"zes", "z"},
		{"ches", "ch"}, {"shes", "sh"}, {"men", "man"}, {"ies", "y"},
	}
	verbRules = []suffixRule{
		{"s", ""}, {"ies", "y"}, {"es", "e"}, {"es", ""},
		{"ed", "e"}, {"ed", ""}, {"ing", "e"}, {"ing", ""},
	}
)

// tokenize lower-cases s and splits it into maximal runs of letters and digits.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// lemmatizer reduces words to a root known to its vocabulary.
type lemmatizer struct {
	vocabulary map[string]struct{}
}

func newLemmatizer(words ...[]string) *lemmatizer {
	l := &lemmatizer{vocabulary: map[string]struct{}{}}
	for _, group := range words {
		for _, w := range group {
			l.vocabulary[w] = struct{}{}
		}
	}
	return l
}

func (l *lemmatizer) known(w string) bool {
	_, ok := l.vocabulary[w]
	return ok
}

// lemma returns the shortest vocabulary form reachable from word, trying
// noun rules before verb rules. Unknown words come back unchanged.
func (l *lemmatizer) lemma(word string) string {
	if base, ok := irregular[word]; ok {
		return base
	}
	if best, ok := l.candidate(word, nounRules, true); ok {
		return best
	}
	if best, ok := l.candidate(word, verbRules, false); ok {
		return best
	}
	return word
}

func (l *lemmatizer) candidate(word string, rules []suffixRule, includeSelf bool) (string, bool) {
	var best string
	found := false
	consider := func(c string) {
		if c == "" || !l.known(c) {
			return
		}
		if !found || len(c) < len(best) || (len(c) == len(best) && c < best) {
			best, found = c, true
		}
	}
	if includeSelf {
		consider(word)
	}
	for _, r := range rules {
		if strings.HasSuffix(word, r.suffix) {
			consider(strings.TrimSuffix(word, r.suffix) + r.replacement)
		}
	}
	return best, found
}
