package sentence

import (
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"
)

// ErrOffset is returned when token or sentence offsets violate the text
// model: decreasing or overlapping offsets, length mismatches, gaps that
// cannot be filled with whitespace.
var ErrOffset = errors.New("offset error")

// WordsAttrib is the default sentence attribute addressed by spans.
const WordsAttrib = "words"

// Document is a named, ordered sequence of sentences plus the annotation
// layers computed over them.
//
// Sentences are never added or removed after construction. Annotations are
// populated tagger by tagger and cleared only by ResetAnnotations.
type Document struct {
	Name string

	Sentences []*Sentence

	// Annotations holds one layer table per sentence, indexed by the sentence
	// position.
	Annotations []Layers

	// Props is a free-form property map (f.ex. the estimated doctime).
	Props map[string]any
}

// Sentence is one sentence of a Document: the word tokens with the absolute
// character offset (in Unicode code points) of each token in the source text.
type Sentence struct {
	Words []string

	// AbsCharOffsets is the offset of each word in the document source text.
	AbsCharOffsets []int

	// Position is the index of the sentence inside of the doc.
	Position int

	// Attribs holds other per-token attributes aligned with Words, f.ex.
	// lemmas or pos_tags.
	Attribs map[string][]string

	// Props holds pipeline specific extras.
	Props map[string]any

	doc *Document

	// charOffsets are AbsCharOffsets relative to the first token.
	charOffsets []int
	text        []rune
	str         string
}

// NewSentence builds a sentence and reconstructs its text from the token
// offsets. Gaps between tokens are filled with spaces so that the length of
// the text matches the offset deltas.
func NewSentence(position int, words []string, absCharOffsets []int) (*Sentence, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: sentence %d has no tokens", ErrOffset, position)
	}

	if len(words) != len(absCharOffsets) {
		return nil, fmt.Errorf("%w: sentence %d has %d words and %d offsets", ErrOffset, position, len(words), len(absCharOffsets))
	}

	base := absCharOffsets[0]
	if base < 0 {
		return nil, fmt.Errorf("%w: sentence %d starts at negative offset %d", ErrOffset, position, base)
	}

	charOffsets := make([]int, len(words))
	var text []rune
	for i, w := range words {
		rel := absCharOffsets[i] - base
		if rel < len(text) {
			return nil, fmt.Errorf("%w: sentence %d token %d %q starts at %d, inside previous token ending at %d",
				ErrOffset, position, i, w, absCharOffsets[i], base+len(text))
		}

		for len(text) < rel {
			text = append(text, ' ')
		}

		text = append(text, []rune(w)...)
		charOffsets[i] = rel
	}

	return &Sentence{
		Words:          words,
		AbsCharOffsets: absCharOffsets,
		Position:       position,
		Attribs:        map[string][]string{},
		Props:          map[string]any{},
		charOffsets:    charOffsets,
		text:           text,
		str:            string(text),
	}, nil
}

// Document returns the document the sentence belongs to, nil if the sentence
// was not added to a Document.
func (s *Sentence) Document() *Document {
	return s.doc
}

// Text returns the reconstructed text of the sentence.
func (s *Sentence) Text() string {
	return s.str
}

// Len returns the length of the sentence text in characters.
func (s *Sentence) Len() int {
	return len(s.text)
}

// AbsCharStart is the absolute offset of the first character.
func (s *Sentence) AbsCharStart() int {
	return s.AbsCharOffsets[0]
}

// AbsCharEnd is the absolute offset one past the last character.
func (s *Sentence) AbsCharEnd() int {
	return s.AbsCharOffsets[0] + len(s.text)
}

// CharOffsets returns the token offsets relative to the sentence start. The
// returned slice must not be modified.
func (s *Sentence) CharOffsets() []int {
	return s.charOffsets
}

// Attrib returns the token attribute a, aligned with Words. "words" returns
// the Words themselves.
func (s *Sentence) Attrib(a string) []string {
	if a == WordsAttrib || a == "" {
		return s.Words
	}

	return s.Attribs[a]
}

// Substring returns the characters [start, end] (inclusive) of the
// sentence text. An end before start gives the empty string.
func (s *Sentence) Substring(start, end int) string {
	if end < start {
		return ""
	}

	if start < 0 || end >= len(s.text) {
		panic(fmt.Sprintf("sentence: range [%d,%d] out of sentence %d of length %d", start, end, s.Position, len(s.text)))
	}

	return string(s.text[start : end+1])
}

// CharToWordIndex returns the index of the word the character ci is in.
// For a character between two words (whitespace) it returns the preceding
// word. ci must be inside the sentence text.
func (s *Sentence) CharToWordIndex(ci int) int {
	if ci < 0 || ci >= len(s.text) {
		panic(fmt.Sprintf("sentence: char index %d out of sentence %d of length %d", ci, s.Position, len(s.text)))
	}

	// first word starting after ci, the previous one contains it
	i := sort.Search(len(s.charOffsets), func(k int) bool {
		return s.charOffsets[k] > ci
	})

	return i - 1
}

// WordToCharIndex returns the relative offset of the start of word wi.
func (s *Sentence) WordToCharIndex(wi int) int {
	return s.charOffsets[wi]
}

// wordEndChar returns the relative offset of the last character of word wi.
func (s *Sentence) wordEndChar(wi int) int {
	return s.charOffsets[wi] + utf8.RuneCountInString(s.Words[wi]) - 1
}

// wordAtOrAfter returns the index of the first word starting at or after ci.
func (s *Sentence) wordAtOrAfter(ci int) int {
	return sort.SearchInts(s.charOffsets, ci)
}

func (s *Sentence) String() string {
	const maxLen = 25
	r := []rune(s.str)
	if len(r) > maxLen {
		return fmt.Sprintf("Sentence(%s...)", string(r[:maxLen]))
	}
	return fmt.Sprintf("Sentence(%s)", s.str)
}

// NewDocument takes ownership of the sentences, checks that positions are
// contiguous from 0 and that sentence ranges are disjoint and ordered, and
// initializes an empty annotation table per sentence.
func NewDocument(name string, sentences []*Sentence) (*Document, error) {
	doc := &Document{
		Name:        name,
		Sentences:   sentences,
		Annotations: make([]Layers, len(sentences)),
		Props:       map[string]any{},
	}

	prevEnd := 0
	for i, s := range sentences {
		if s.Position != i {
			return nil, fmt.Errorf("%w: doc %s sentence %d has position %d", ErrOffset, name, i, s.Position)
		}

		if s.doc != nil && s.doc != doc {
			return nil, fmt.Errorf("doc %s: sentence %d already belongs to doc %s", name, i, s.doc.Name)
		}

		if s.AbsCharStart() < prevEnd {
			return nil, fmt.Errorf("%w: doc %s sentence %d starts at %d, inside previous sentence ending at %d",
				ErrOffset, name, i, s.AbsCharStart(), prevEnd)
		}

		prevEnd = s.AbsCharEnd()
	}

	for i, s := range sentences {
		s.doc = doc
		doc.Annotations[i] = Layers{}
	}

	return doc, nil
}

// Text reconstructs the document text, filling the gaps between sentences
// with spaces exactly as Sentence.Text does between tokens.
func (d *Document) Text() string {
	var text []rune
	for _, s := range d.Sentences {
		for len(text) < s.AbsCharStart() {
			text = append(text, ' ')
		}
		text = append(text, s.text...)
	}

	return string(text)
}

// SentenceAt returns the sentence containing the absolute range
// [absStart, absEnd].
func (d *Document) SentenceAt(absStart, absEnd int) (*Sentence, bool) {
	i := sort.Search(len(d.Sentences), func(k int) bool {
		return d.Sentences[k].AbsCharEnd() > absStart
	})

	if i == len(d.Sentences) {
		return nil, false
	}

	s := d.Sentences[i]
	if absStart < s.AbsCharStart() || absEnd >= s.AbsCharEnd() {
		return nil, false
	}

	return s, true
}

// NumTokens returns the number of word tokens in the document.
func (d *Document) NumTokens() int {
	n := 0
	for _, s := range d.Sentences {
		n += len(s.Words)
	}
	return n
}

func (d *Document) String() string {
	return fmt.Sprintf("Document(%s)", d.Name)
}
