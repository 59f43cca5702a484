package sentence

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// SpanKey identifies a span across independently computed layers: two spans
// with the same key are the same mention.
type SpanKey struct {
	Doc       string
	CharStart int
	CharEnd   int
}

// Span is an inclusive character range [CharStart, CharEnd] relative to its
// sentence. A span with CharEnd == CharStart-1 is empty.
type Span struct {
	CharStart int
	CharEnd   int

	// Attrib is the sentence attribute addressed by the span, "words" by
	// default.
	Attrib string

	// Props is filled by taggers with derived facts (negated, lat, section).
	Props map[string]any

	sent *Sentence
}

// NewSpan creates a span over s. Offsets outside the sentence panic.
func NewSpan(s *Sentence, charStart, charEnd int) *Span {
	if charStart < 0 || charStart > s.Len() || charEnd >= s.Len() || charEnd < charStart-1 {
		panic(fmt.Sprintf("sentence: span [%d,%d] out of sentence %d of length %d", charStart, charEnd, s.Position, s.Len()))
	}

	return &Span{
		CharStart: charStart,
		CharEnd:   charEnd,
		Attrib:    WordsAttrib,
		Props:     map[string]any{},
		sent:      s,
	}
}

// Sentence returns the sentence of the span.
func (sp *Span) Sentence() *Sentence {
	return sp.sent
}

// Empty reports whether the span covers no character.
func (sp *Span) Empty() bool {
	return sp.CharEnd < sp.CharStart
}

// Len is the number of characters covered.
func (sp *Span) Len() int {
	return sp.CharEnd - sp.CharStart + 1
}

// AbsCharStart is the span start in document offsets.
func (sp *Span) AbsCharStart() int {
	return sp.CharStart + sp.sent.AbsCharOffsets[0]
}

// AbsCharEnd is the span end in document offsets.
func (sp *Span) AbsCharEnd() int {
	return sp.AbsCharStart() + (sp.CharEnd - sp.CharStart)
}

// Text returns the literal substring covered by the span.
func (sp *Span) Text() string {
	return sp.sent.Substring(sp.CharStart, sp.CharEnd)
}

// WordStart returns the index of the word containing the first character.
// For an empty span it is the index of the first word at or after the span
// position.
func (sp *Span) WordStart() int {
	if sp.Empty() {
		return sp.sent.wordAtOrAfter(sp.CharStart)
	}
	return sp.sent.CharToWordIndex(sp.CharStart)
}

// WordEnd returns the index of the word containing the last character.
func (sp *Span) WordEnd() int {
	if sp.Empty() {
		return sp.WordStart() - 1
	}
	return sp.sent.CharToWordIndex(sp.CharEnd)
}

// NumTokens returns the number of words touched by the span.
func (sp *Span) NumTokens() int {
	return sp.WordEnd() - sp.WordStart() + 1
}

// AttribTokens returns the tokens of attribute a covered by the span.
func (sp *Span) AttribTokens(a string) []string {
	tokens := sp.sent.Attrib(a)
	if tokens == nil || sp.Empty() {
		return nil
	}
	return tokens[sp.WordStart() : sp.WordEnd()+1]
}

// AttribText returns the span over attribute a. For words it is the literal
// text; other attributes are joined with sep.
func (sp *Span) AttribText(a, sep string) string {
	if a == WordsAttrib || a == "" {
		return sp.Text()
	}
	return strings.Join(sp.AttribTokens(a), sep)
}

// Contains reports whether other lies inside sp (relative offsets only).
func (sp *Span) Contains(other *Span) bool {
	return other.CharStart >= sp.CharStart && other.CharEnd <= sp.CharEnd
}

// Key returns the identity of the span: document name and relative offsets.
func (sp *Span) Key() SpanKey {
	name := ""
	if d := sp.sent.doc; d != nil {
		name = d.Name
	}
	return SpanKey{Doc: name, CharStart: sp.CharStart, CharEnd: sp.CharEnd}
}

// Hash hashes the span key.
func (sp *Span) Hash() uint64 {
	k := sp.Key()
	h := xxhash.New()
	_, _ = h.WriteString(k.Doc)
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(k.CharStart))
	binary.BigEndian.PutUint64(buf[8:], uint64(k.CharEnd))
	_, _ = h.Write(buf[:])
	return h.Sum64()
}

// Equal compares span keys, not identity.
func (sp *Span) Equal(other *Span) bool {
	return sp.Key() == other.Key()
}

func (sp *Span) String() string {
	return fmt.Sprintf("Span(%s)", strings.ReplaceAll(sp.Text(), "\n", " "))
}

// ErrRelationSentence is returned when the arguments of a relation live in
// different sentences.
var ErrRelationSentence = errors.New("relation arguments span more than one sentence")

// Relation is a typed tuple of named argument spans of one sentence. The
// relation does not own its spans.
type Relation struct {
	Type string

	roles []string
	args  []*Span
}

// NewRelation creates a relation with roles[i] bound to args[i].
func NewRelation(typ string, roles []string, args []*Span) (*Relation, error) {
	if len(roles) != len(args) {
		return nil, fmt.Errorf("relation %s: %d roles for %d args", typ, len(roles), len(args))
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("relation %s: no args", typ)
	}

	for _, a := range args[1:] {
		if a.sent != args[0].sent {
			return nil, fmt.Errorf("relation %s: %w", typ, ErrRelationSentence)
		}
	}

	return &Relation{Type: typ, roles: roles, args: args}, nil
}

// Roles returns the argument names in order.
func (r *Relation) Roles() []string {
	return r.roles
}

// Args returns the argument spans in role order.
func (r *Relation) Args() []*Span {
	return r.args
}

// Arg returns the span bound to role, nil if the relation has no such role.
func (r *Relation) Arg(role string) *Span {
	for i, name := range r.roles {
		if name == role {
			return r.args[i]
		}
	}
	return nil
}

// At returns the i-th argument.
func (r *Relation) At(i int) *Span {
	return r.args[i]
}

// Sentence returns the sentence shared by all arguments.
func (r *Relation) Sentence() *Sentence {
	return r.args[0].sent
}

// Equal reports whether both relations bind the same roles to spans with
// equal keys.
func (r *Relation) Equal(other *Relation) bool {
	if len(r.roles) != len(other.roles) {
		return false
	}

	for i, role := range r.roles {
		o := other.Arg(role)
		if o == nil || o.Key() != r.args[i].Key() {
			return false
		}
	}

	return true
}

// Hash is the sum of the argument span hashes.
func (r *Relation) Hash() uint64 {
	var h uint64
	for _, a := range r.args {
		h += a.Hash()
	}
	return h
}

func (r *Relation) String() string {
	strs := make([]string, len(r.args))
	for i, a := range r.args {
		strs[i] = a.String()
	}
	return fmt.Sprintf("Relation[%s](%s)", r.Type, strings.Join(strs, ","))
}
