package match

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/revelaction/rwe/dictionary"
	"github.com/revelaction/rwe/ngram"
	sent "github.com/revelaction/rwe/sentence"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// whitespaceRun matches runs of two or more whitespace characters or any run
// of newlines. Those are collapsed to one space before the lookup, so that
// "chest  \n pain" matches the term "chest pain".
var whitespaceRun = regexp.MustCompile(`\s{2,}|\n+`)

// Matcher matches the n-grams of a sentence against a set of named
// dictionaries.
//
// A Matcher is read-only after construction and can be shared between
// goroutines.
type Matcher struct {
	// Dictionaries maps a layer name to its terms.
	Dictionaries map[string]dictionary.Dictionary

	// MinLength is the minimum length (characters) of a matched text.
	MinLength int

	// IgnoreCase also looks up the lower-cased text.
	IgnoreCase bool

	// Stopwords are never matched. They are compared lower-cased.
	Stopwords dictionary.Set

	// LongestMatchOnly resolves overlapping matches of one dictionary with
	// LongestMatches.
	LongestMatchOnly bool

	// IgnoreWhitespace collapses whitespace runs before the lookup.
	IgnoreWhitespace bool
}

// NewMatcher returns a Matcher with the default settings: minimum length 2,
// longest match only, whitespace collapsing.
func NewMatcher(dicts map[string]dictionary.Dictionary) *Matcher {
	return &Matcher{
		Dictionaries:     dicts,
		MinLength:        2,
		LongestMatchOnly: true,
		IgnoreWhitespace: true,
	}
}

// Names returns the sorted dictionary names.
func (m *Matcher) Names() []string {
	names := make([]string, 0, len(m.Dictionaries))
	for name := range m.Dictionaries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MatchSentence returns the spans of s matched by each dictionary, keyed by
// dictionary name. Dictionaries without matches are absent from the result.
func (m *Matcher) MatchSentence(s *sent.Sentence, g *ngram.Generator) map[string][]*sent.Span {
	matches := map[string][]*sent.Span{}
	names := m.Names()

	// Casers are stateful, one per call
	lower := cases.Lower(language.Und)

	for span := range g.Apply(s) {
		// terms are NFKC normalized when loaded
		text := dictionary.Normalize(span.Text())
		if m.IgnoreWhitespace {
			text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
		}

		if utf8.RuneCountInString(text) < m.MinLength {
			continue
		}

		lowered := lower.String(text)
		if m.Stopwords.Contains(lowered) {
			continue
		}

		for _, name := range names {
			d := m.Dictionaries[name]
			if d.Contains(text) || (m.IgnoreCase && d.Contains(lowered)) {
				matches[name] = append(matches[name], span)
			}
		}
	}

	if m.LongestMatchOnly {
		for name, spans := range matches {
			matches[name] = LongestMatches(spans)
		}
	}

	return matches
}

// LongestMatches removes the matches nested in a longer one.
//
// Matches are sorted by text length descending and then, stable, by end
// offset descending: the end offset is the primary key and the length breaks
// ties. Walking that order, a match is dropped when it lies inside the
// currently kept match. The result is the "longest, right-most first" cover,
// in that order.
func LongestMatches(matches []*sent.Span) []*sent.Span {
	if len(matches) == 0 {
		return nil
	}

	sorted := make([]*sent.Span, len(matches))
	copy(sorted, matches)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Len() > sorted[j].Len()
	})
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CharEnd > sorted[j].CharEnd
	})

	var kept []*sent.Span
	curr := sorted[0]
	for _, m := range sorted[1:] {
		if curr.Contains(m) {
			continue
		}

		kept = append(kept, curr)
		curr = m
	}

	return append(kept, curr)
}
