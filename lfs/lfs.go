// Package lfs holds the built-in labeling function sets and the candidate
// helpers they share.
package lfs

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/revelaction/rwe/dictionary"
	"github.com/revelaction/rwe/label"
	"github.com/revelaction/rwe/negex"
	sent "github.com/revelaction/rwe/sentence"
	"github.com/revelaction/rwe/tagger"
)

var ErrUnknownSet = errors.New("unknown labeling function set")

type set struct {
	build func(*negex.NegEx) *label.Registry[*sent.Relation]

	// roles the LFs read from every candidate
	roles []string
}

var sets = map[string]set{
	"anatomy_pain": {build: AnatomyPain, roles: []string{RoleAnatomy, RolePain}},
}

// Sets returns the names of the built-in sets.
func Sets() []string {
	names := make([]string, 0, len(sets))
	for name := range sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Registry returns the labeling functions of the named set in column order.
func Registry(name string, n *negex.NegEx) (*label.Registry[*sent.Relation], error) {
	st, ok := sets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSet, name)
	}

	if n == nil {
		n = negex.New(nil)
	}

	return st.build(n), nil
}

// Roles returns the argument roles the named set reads. A relation labeled
// by the set must bind all of them.
func Roles(name string) ([]string, error) {
	st, ok := sets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSet, name)
	}
	return append([]string(nil), st.roles...), nil
}

// Head returns the first argument of c in the text.
func Head(c *sent.Relation) *sent.Span {
	head := c.At(0)
	for _, a := range c.Args()[1:] {
		if a.CharStart < head.CharStart {
			head = a
		}
	}
	return head
}

// BetweenTokens returns the tokens of attribute attrib between the first two
// arguments of c.
func BetweenTokens(c *sent.Relation, attrib string) []string {
	sp, ok := sent.BetweenSpan(c.At(0), c.At(1))
	if !ok {
		return nil
	}
	return sp.AttribTokens(attrib)
}

// LeftTokens returns up to window words left of sp.
func LeftTokens(sp *sent.Span, window int) []string {
	return sent.LeftSpan(sp, window).AttribTokens(sent.WordsAttrib)
}

// LeftText is LeftTokens joined by spaces.
func LeftText(sp *sent.Span, window int) string {
	return strings.Join(LeftTokens(sp, window), " ")
}

// RightTokens returns up to window tokens of attribute attrib right of sp.
func RightTokens(sp *sent.Span, window int, attrib string) []string {
	return sent.RightSpan(sp, window).AttribTokens(attrib)
}

// Header returns the text of the section header of the sentence of c, ""
// when the document has no HEADER layer for it.
func Header(c *sent.Relation) string {
	s := c.Sentence()
	doc := s.Document()
	if doc == nil {
		return ""
	}

	h := tagger.Header(doc, s.Position)
	if h == nil {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(h.Text()))
}

// lower returns the lower-cased tokens.
func lower(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = strings.ToLower(t)
	}
	return out
}

// containsAny reports whether one of tokens is in d.
func containsAny(d dictionary.Dictionary, tokens []string) bool {
	for _, t := range tokens {
		if d.Contains(t) {
			return true
		}
	}
	return false
}
