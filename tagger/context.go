package tagger

import (
	"regexp"
	"strings"

	"github.com/revelaction/rwe/negex"
	sent "github.com/revelaction/rwe/sentence"
)

// Reduction turns the votes of the context rules of a span into one
// property value.
type Reduction string

const (
	// ReduceOr is 1 when any rule voted positive, 0 otherwise.
	ReduceOr Reduction = "or"

	// ReduceMV is the majority vote, ties going to positive.
	ReduceMV Reduction = "mv"
)

// Rule votes.
const (
	abstain  = 0
	positive = 1
	negative = 2
)

// reduce returns the property value of the votes and false when every rule
// abstained.
func reduce(votes []int, r Reduction) (int, bool) {
	pos, neg := 0, 0
	for _, v := range votes {
		switch v {
		case positive:
			pos++
		case negative:
			neg++
		}
	}

	if pos+neg == 0 {
		return 0, false
	}

	if r == ReduceMV {
		if pos >= neg {
			return 1, true
		}
		return 0, true
	}

	if pos > 0 {
		return 1, true
	}
	return 0, true
}

// Negation sets props["negated"] on the spans of the target layers from the
// NegEx triggers around them. Definite and probable triggers vote negated,
// pseudo triggers vote not negated. Spans without any trigger get no
// property.
type Negation struct {
	NegEx     *negex.NegEx
	Targets   []string
	Window    int
	Reduction Reduction
}

func NewNegation(n *negex.NegEx, targets ...string) *Negation {
	return &Negation{NegEx: n, Targets: targets, Window: 6, Reduction: ReduceOr}
}

func (t *Negation) Tag(doc *sent.Document) error {
	for i := range doc.Sentences {
		for _, sp := range targetSpans(doc, i, t.Targets) {
			if v, ok := reduce(t.votes(sp), t.Reduction); ok {
				sp.Props["negated"] = v
			}
		}
	}
	return nil
}

// votes returns one vote per category and side of the lexicon.
func (t *Negation) votes(sp *sent.Span) []int {
	var votes []int
	for _, cat := range t.NegEx.Categories() {
		for _, side := range t.NegEx.Sides(cat) {
			v := abstain
			if t.NegEx.IsNegated(sp, cat, side, t.Window) {
				v = positive
				if cat == negex.Pseudo {
					v = negative
				}
			}
			votes = append(votes, v)
		}
	}
	return votes
}

var lateralityRgx = regexp.MustCompile(`(?i)\b(bilat(eral)*|r/l|b/l)\b|\b((left|right)[- ]*side[d]*|\( (left|right) \)|(left|right)|\( [lr] \)|(lt|rt)[.]*|[lr])\b`)

var lateralityNorm = map[string]string{}

func init() {
	for norm, terms := range map[string][]string{
		"L": {"left", "lt", "l", "left-sided", "left sided", "l-sided", "l sided"},
		"R": {"right", "rt", "r", "right-sided", "right sided", "r-sided", "rt sided"},
		"B": {"bilateral", "r/l", "b/l", "bilat"},
	} {
		for _, t := range terms {
			lateralityNorm[t] = norm
		}
	}
}

// NormalizeLaterality maps a laterality mention to L, R or B. It returns ""
// for unknown mentions.
func NormalizeLaterality(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.TrimSpace(strings.Trim(t, "(). "))
	return lateralityNorm[t]
}

// Laterality sets props["lat"] (L, R or B) on the spans of the target layers.
// A mention inside the span wins; otherwise the closest mention in the left
// window is used.
type Laterality struct {
	Targets []string
	Window  int
}

func NewLaterality(targets ...string) *Laterality {
	return &Laterality{Targets: targets, Window: 2}
}

func (t *Laterality) Tag(doc *sent.Document) error {
	for i := range doc.Sentences {
		for _, sp := range targetSpans(doc, i, t.Targets) {
			m := Closest(sp, lateralityRgx, t.Window)
			if m == nil {
				continue
			}

			if lat := NormalizeLaterality(m.Text()); lat != "" {
				sp.Props["lat"] = lat
			}
		}
	}
	return nil
}

// Closest returns the first match of rgx inside sp or, failing that, the
// match of the left window closest to sp. It returns nil when there is none.
func Closest(sp *sent.Span, rgx *regexp.Regexp, window int) *sent.Span {
	if m := findSpan(sp, rgx); len(m) > 0 {
		return m[0]
	}

	left := sent.LeftSpan(sp, window)
	var best *sent.Span
	for _, m := range findSpan(left, rgx) {
		if best == nil || sp.CharStart-m.CharEnd < sp.CharStart-best.CharEnd {
			best = m
		}
	}
	return best
}

// findSpan returns the matches of rgx in the text of sp as spans of the same
// sentence.
func findSpan(sp *sent.Span, rgx *regexp.Regexp) []*sent.Span {
	text := sp.Text()
	if text == "" {
		return nil
	}

	var spans []*sent.Span
	for _, loc := range rgx.FindAllStringIndex(text, -1) {
		if loc[1] == loc[0] {
			continue
		}
		start := sp.CharStart + runeLen(text[:loc[0]])
		end := start + runeLen(text[loc[0]:loc[1]]) - 1
		spans = append(spans, sent.NewSpan(sp.Sentence(), start, end))
	}
	return spans
}

func runeLen(s string) int {
	return len([]rune(s))
}

var hypotheticalAccept = compileAll(
	`\b(if need be)\b`,
	`\b((if|should)\s+(you|she|he|be)|(she|he|you)\s+(might|could|may)\s*(be)*|if)\b`,
	`\b((possibility|potential|chance|need) (for|of)|potentially)\b`,
	`\b(candidate for|pending)\b`,
	`\b(assuming)\s+(you|she|he)\b`,
	`(recommendation)\s*[:]`,
	`(planned procedure)\s*[:]`,
	`\b(evaluated for|upcoming|would benefit from|(undergo|requires) a)\b`,
	`\b(please call or return (for|if))\b`,
	`\b(discussed|discussion|recommended|recommendation made|proceed with|consider|to undergo|scheduled for)\b`,
)

var hypotheticalReject = compileAll(
	`\b((months|years|days)*\s*(postop|post[- ]op|out from))\b`,
	`\b((month|year|day)[s]* post)\b`,
	`\b((week|month|year)*[s]*\s*status post)\b`,
)

func compileAll(exprs ...string) []*regexp.Regexp {
	rgxs := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		rgxs[i] = regexp.MustCompile(`(?i)` + e)
	}
	return rgxs
}

// Hypothetical sets props["hypothetical"] on the spans of the target layers
// from speculative (accept) and past procedure (reject) phrases in the left
// window.
type Hypothetical struct {
	Targets   []string
	Window    int
	Reduction Reduction
	Accept    []*regexp.Regexp
	Reject    []*regexp.Regexp
}

func NewHypothetical(targets ...string) *Hypothetical {
	return &Hypothetical{
		Targets:   targets,
		Window:    10,
		Reduction: ReduceOr,
		Accept:    hypotheticalAccept,
		Reject:    hypotheticalReject,
	}
}

func (t *Hypothetical) Tag(doc *sent.Document) error {
	for i := range doc.Sentences {
		for _, sp := range targetSpans(doc, i, t.Targets) {
			text := sent.LeftSpan(sp, t.Window).Text()

			votes := make([]int, 0, len(t.Accept)+len(t.Reject))
			for _, rgx := range t.Accept {
				votes = append(votes, vote(rgx, text, positive))
			}
			for _, rgx := range t.Reject {
				votes = append(votes, vote(rgx, text, negative))
			}

			if v, ok := reduce(votes, t.Reduction); ok {
				sp.Props["hypothetical"] = v
			}
		}
	}
	return nil
}

func vote(rgx *regexp.Regexp, text string, v int) int {
	if text != "" && rgx.MatchString(text) {
		return v
	}
	return abstain
}
