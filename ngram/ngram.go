// Package ngram generates the candidate spans of a sentence: every run of up
// to NMax consecutive tokens.
package ngram

import (
	"iter"
	"regexp"
	"strings"
	"unicode/utf8"

	sent "github.com/revelaction/rwe/sentence"
)

// DefaultNMax is the default maximum number of tokens of a candidate span.
const DefaultNMax = 5

// Generator produces the n-gram spans of a sentence. A Generator is
// read-only after construction and can be shared between goroutines.
type Generator struct {
	NMax int

	// SplitOn is an optional secondary tokenization rule. Words are split
	// on its matches and the matched separators are kept as their own
	// tokens, f.ex. "left-sided" -> "left", "-", "sided".
	SplitOn *regexp.Regexp
}

// Option configures a Generator.
type Option func(*Generator)

// WithSplit sets the secondary split rule.
func WithSplit(re *regexp.Regexp) Option {
	return func(g *Generator) {
		g.SplitOn = re
	}
}

// New returns a Generator of spans of at most nMax tokens. nMax < 1 uses
// DefaultNMax.
func New(nMax int, opts ...Option) *Generator {
	if nMax < 1 {
		nMax = DefaultNMax
	}

	g := &Generator{NMax: nMax}
	for _, o := range opts {
		o(g)
	}

	return g
}

// Apply returns the lazy sequence of candidate spans of s. Spans starting or
// ending on a whitespace-only token are skipped. The sequence can be ranged
// over any number of times.
func (g *Generator) Apply(s *sent.Sentence) iter.Seq[*sent.Span] {
	return func(yield func(*sent.Span) bool) {
		words, offsets := s.Words, s.CharOffsets()
		if g.SplitOn != nil {
			words, offsets = Retokenize(words, offsets, g.SplitOn)
		}

		for i := range words {
			if isBlank(words[i]) {
				continue
			}

			start := offsets[i]
			last := min(i+g.NMax, len(words))
			for j := i + 1; j <= last; j++ {
				if isBlank(words[j-1]) {
					continue
				}

				end := offsets[j-1] + utf8.RuneCountInString(words[j-1])
				if !yield(sent.NewSpan(s, start, end-1)) {
					return
				}
			}
		}
	}
}

// Retokenize splits every word on the matches of re, keeping the matches as
// tokens, and recomputes the offset of each piece. Blank pieces are dropped.
func Retokenize(words []string, offsets []int, re *regexp.Regexp) ([]string, []int) {
	var outWords []string
	var outOffsets []int

	for k, w := range words {
		pieces := split(w, re)
		if len(pieces) <= 1 {
			outWords = append(outWords, w)
			outOffsets = append(outOffsets, offsets[k])
			continue
		}

		offset := offsets[k]
		for _, p := range pieces {
			// blank pieces still advance the offset
			if !isBlank(p) {
				outWords = append(outWords, p)
				outOffsets = append(outOffsets, offset)
			}
			offset += utf8.RuneCountInString(p)
		}
	}

	return outWords, outOffsets
}

// split cuts w around the matches of re, matches included, and drops empty
// pieces.
func split(w string, re *regexp.Regexp) []string {
	locs := re.FindAllStringIndex(w, -1)
	if len(locs) == 0 {
		return []string{w}
	}

	var pieces []string
	prev := 0
	for _, loc := range locs {
		if loc[0] > prev {
			pieces = append(pieces, w[prev:loc[0]])
		}
		if loc[1] > loc[0] {
			pieces = append(pieces, w[loc[0]:loc[1]])
		}
		prev = loc[1]
	}

	if prev < len(w) {
		pieces = append(pieces, w[prev:])
	}

	return pieces
}

func isBlank(w string) bool {
	return strings.TrimSpace(w) == ""
}
