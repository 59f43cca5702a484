// Package negex implements the NegEx negation detection algorithm: a span is
// negated when a trigger phrase of the lexicon occurs in a window of words to
// its left or right.
//
// Chapman, Wendy W., et al. "A simple algorithm for identifying negated
// findings and diseases in discharge summaries." Journal of biomedical
// informatics 34.5 (2001): 301-310.
package negex

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	sent "github.com/revelaction/rwe/sentence"
)

// DefaultWindow is the number of context words inspected when none is
// configured.
const DefaultWindow = 3

type Category string

const (
	Definite Category = "definite"
	Probable Category = "probable"
	Pseudo   Category = "pseudo"
)

// Categories in evaluation order.
var categories = []Category{Definite, Probable, Pseudo}

// Side is the side of the span where triggers are searched.
type Side string

const (
	Left  Side = "left"
	Right Side = "right"
)

var sides = []Side{Left, Right}

// Direction is the lexicon direction of a trigger. Forward triggers precede
// the concept and are searched on the left side; backward triggers follow it.
type Direction string

const (
	Forward       Direction = "forward"
	Backward      Direction = "backward"
	Bidirectional Direction = "bidirectional"
)

func (d Direction) sides() []Side {
	switch d {
	case Forward:
		return []Side{Left}
	case Backward:
		return []Side{Right}
	case Bidirectional:
		return []Side{Left, Right}
	}
	return nil
}

// Term is a lexicon entry.
type Term struct {
	Phrase    string
	Category  Category
	Direction Direction
}

// Match is a category and side with the triggers found in the context.
type Match struct {
	Category Category
	Side     Side
	Terms    []string
}

// NegEx holds one compiled trigger pattern per category and side. It is
// read-only after New and can be shared between goroutines.
type NegEx struct {
	rgxs  map[Category]map[Side]*regexp.Regexp
	terms int
}

// New compiles the triggers of terms. A category and side without terms has
// no pattern and never negates.
func New(terms []Term) *NegEx {
	phrases := map[Category]map[Side][]string{}
	n := &NegEx{rgxs: map[Category]map[Side]*regexp.Regexp{}}
	for _, t := range terms {
		if t.Phrase == "" {
			continue
		}
		n.terms++

		for _, side := range t.Direction.sides() {
			if phrases[t.Category] == nil {
				phrases[t.Category] = map[Side][]string{}
			}
			phrases[t.Category][side] = append(phrases[t.Category][side], t.Phrase)
		}
	}

	for cat, bySide := range phrases {
		n.rgxs[cat] = map[Side]*regexp.Regexp{}
		for side, ps := range bySide {
			n.rgxs[cat][side] = compile(ps)
		}
	}

	return n
}

// Len is the number of lexicon terms.
func (n *NegEx) Len() int {
	return n.terms
}

// compile builds the alternation of the phrases, longest first, followed by
// a word boundary or the end of the text.
func compile(phrases []string) *regexp.Regexp {
	sorted := make([]string, len(phrases))
	copy(sorted, phrases)
	sort.SliceStable(sorted, func(i, j int) bool {
		return utf8.RuneCountInString(sorted[i]) > utf8.RuneCountInString(sorted[j])
	})

	quoted := make([]string, len(sorted))
	for i, p := range sorted {
		quoted[i] = regexp.QuoteMeta(p)
	}

	return regexp.MustCompile(fmt.Sprintf(`(?i)(%s)(\b|$)`, strings.Join(quoted, "|")))
}

// Negation returns the triggers of category found in the window words on
// side of sp. It returns nil when nothing matches or when the lexicon has no
// trigger for the category and side. A negative window inspects the whole
// side.
func (n *NegEx) Negation(sp *sent.Span, category Category, side Side, window int) []string {
	rgx := n.rgxs[category][side]
	if rgx == nil {
		return nil
	}

	var cxt *sent.Span
	if side == Left {
		cxt = sent.LeftSpan(sp, window)
	} else {
		cxt = sent.RightSpan(sp, window)
	}

	text := cxt.Text()
	if text == "" {
		return nil
	}

	var terms []string
	for _, m := range rgx.FindAllStringSubmatch(text, -1) {
		terms = append(terms, m[1])
	}

	return terms
}

// IsNegated reports whether any trigger of category is found.
func (n *NegEx) IsNegated(sp *sent.Span, category Category, side Side, window int) bool {
	return len(n.Negation(sp, category, side, window)) > 0
}

// AllNegations returns the matches of every category and side, in category
// order definite, probable, pseudo and side order left, right.
func (n *NegEx) AllNegations(sp *sent.Span, window int) []Match {
	var matches []Match
	for _, cat := range categories {
		for _, side := range sides {
			if terms := n.Negation(sp, cat, side, window); terms != nil {
				matches = append(matches, Match{Category: cat, Side: side, Terms: terms})
			}
		}
	}
	return matches
}

// Categories returns the categories with at least one compiled pattern, in
// evaluation order.
func (n *NegEx) Categories() []Category {
	var cats []Category
	for _, cat := range categories {
		if len(n.rgxs[cat]) > 0 {
			cats = append(cats, cat)
		}
	}
	return cats
}

// Sides returns the sides of category with a compiled pattern.
func (n *NegEx) Sides(category Category) []Side {
	var out []Side
	for _, side := range sides {
		if n.rgxs[category][side] != nil {
			out = append(out, side)
		}
	}
	return out
}

// Lexicon category values.
var lexiconCategories = map[string]Category{
	"definiteNegatedExistence": Definite,
	"probableNegatedExistence": Probable,
	"pseudoNegation":           Pseudo,
}

// ErrColumns is returned for a column layout with negative indexes.
var ErrColumns = errors.New("invalid lexicon columns")

type lexiconOptions struct {
	term, category, direction int
}

// LexiconOption configures LoadLexicon.
type LexiconOption func(*lexiconOptions)

// WithColumns selects the term, category and direction columns of the CSV
// records.
func WithColumns(term, category, direction int) LexiconOption {
	return func(o *lexiconOptions) {
		o.term, o.category, o.direction = term, category, direction
	}
}

// LoadLexicon reads a NegEx lexicon in CSV form. By default the columns are
// those of the multilingual NegEx lexicon: term 0, category 30, direction 32.
// Records with an unknown category or too few fields are ignored.
func LoadLexicon(r io.Reader, opts ...LexiconOption) ([]Term, error) {
	o := lexiconOptions{term: 0, category: 30, direction: 32}
	for _, opt := range opts {
		opt(&o)
	}

	if o.term < 0 || o.category < 0 || o.direction < 0 {
		return nil, fmt.Errorf("%w: %d, %d, %d", ErrColumns, o.term, o.category, o.direction)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	need := max(o.term, o.category, o.direction)

	var terms []Term
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("negex lexicon: %w", err)
		}

		if len(record) <= need {
			continue
		}

		cat, ok := lexiconCategories[strings.TrimSpace(record[o.category])]
		if !ok {
			continue
		}

		terms = append(terms, Term{
			Phrase:    strings.TrimSpace(record[o.term]),
			Category:  cat,
			Direction: Direction(strings.TrimSpace(record[o.direction])),
		})
	}

	return terms, nil
}
