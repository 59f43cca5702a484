package sentence

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDoc(t *testing.T) *Document {
	t.Helper()

	s0, err := NewSentence(0, []string{"No", "fever", "."}, []int{0, 3, 8})
	require.NoError(t, err)
	s1, err := NewSentence(1, []string{"Pain", "in", "left", "knee", "."}, []int{11, 16, 19, 24, 28})
	require.NoError(t, err)

	doc, err := NewDocument("note-1", []*Sentence{s0, s1})
	require.NoError(t, err)
	return doc
}

func TestSentenceText(t *testing.T) {
	s, err := NewSentence(0, []string{"Patient", "denies", "chest", "pain", "."}, []int{0, 8, 15, 21, 25})
	require.NoError(t, err)

	assert.Equal(t, "Patient denies chest pain.", s.Text())
	assert.Equal(t, []int{0, 8, 15, 21, 25}, s.CharOffsets())
	assert.Equal(t, 26, s.Len())
}

func TestSentenceTextMultibyte(t *testing.T) {
	// offsets count characters, not bytes
	s, err := NewSentence(0, []string{"dolor", "tórax", "•"}, []int{4, 10, 16})
	require.NoError(t, err)

	assert.Equal(t, "dolor tórax •", s.Text())
	sp := NewSpan(s, 6, 10)
	assert.Equal(t, "tórax", sp.Text())
	assert.Equal(t, 1, sp.WordStart())
}

func TestNewSentenceErrors(t *testing.T) {
	tests := []struct {
		name    string
		words   []string
		offsets []int
	}{
		{"empty", nil, nil},
		{"length mismatch", []string{"a", "b"}, []int{0}},
		{"overlap", []string{"abc", "d"}, []int{0, 2}},
		{"decreasing", []string{"a", "b"}, []int{5, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSentence(0, tt.words, tt.offsets)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrOffset))
		})
	}
}

func TestDocumentTextRoundTrip(t *testing.T) {
	doc := newTestDoc(t)

	text := []rune(doc.Text())
	assert.Equal(t, "No fever.  Pain in left knee.", string(text))

	for _, s := range doc.Sentences {
		got := string(text[s.AbsCharStart():s.AbsCharEnd()])
		assert.Equal(t, s.Text(), got)
		assert.Same(t, doc, s.Document())
	}
}

func TestNewDocumentErrors(t *testing.T) {
	s0, err := NewSentence(0, []string{"abc"}, []int{0})
	require.NoError(t, err)
	s1, err := NewSentence(1, []string{"def"}, []int{2})
	require.NoError(t, err)

	_, err = NewDocument("overlap", []*Sentence{s0, s1})
	assert.ErrorIs(t, err, ErrOffset)

	s2, err := NewSentence(2, []string{"def"}, []int{10})
	require.NoError(t, err)
	_, err = NewDocument("gap in positions", []*Sentence{s0, s2})
	assert.ErrorIs(t, err, ErrOffset)
}

func TestCharToWordIndex(t *testing.T) {
	s, err := NewSentence(0, []string{"Patient", "denies", "chest", "pain", "."}, []int{0, 8, 15, 21, 25})
	require.NoError(t, err)

	tests := []struct {
		ci   int
		want int
	}{
		{0, 0},
		{6, 0},
		{7, 0}, // whitespace goes to the preceding word
		{8, 1},
		{20, 2},
		{21, 3},
		{25, 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, s.CharToWordIndex(tt.ci), "ci=%d", tt.ci)
	}

	assert.Panics(t, func() { s.CharToWordIndex(-1) })
	assert.Panics(t, func() { s.CharToWordIndex(26) })
}

func TestSpanOffsets(t *testing.T) {
	doc := newTestDoc(t)
	s := doc.Sentences[1]

	// every token range keeps its length when translated
	for i := range s.Words {
		for j := i; j < len(s.Words); j++ {
			sp := NewSpan(s, s.WordToCharIndex(i), s.wordEndChar(j))
			assert.Equal(t, sp.CharEnd-sp.CharStart, sp.AbsCharEnd()-sp.AbsCharStart())
			assert.Equal(t, i, sp.WordStart())
			assert.Equal(t, j, sp.WordEnd())
			assert.Equal(t, j-i+1, sp.NumTokens())

			docText := []rune(doc.Text())
			assert.Equal(t, sp.Text(), string(docText[sp.AbsCharStart():sp.AbsCharEnd()+1]))
		}
	}

	sp := NewSpan(s, 8, 16)
	assert.Equal(t, "left knee", sp.Text())
	assert.Equal(t, 19, sp.AbsCharStart())
	assert.Equal(t, 27, sp.AbsCharEnd())

	assert.Panics(t, func() { NewSpan(s, 0, 40) })
}

func TestSpanKeyAndContains(t *testing.T) {
	doc := newTestDoc(t)
	s := doc.Sentences[1]

	a := NewSpan(s, 8, 16)
	b := NewSpan(s, 8, 16)
	c := NewSpan(s, 13, 16)

	assert.NotSame(t, a, b)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Hash(), c.Hash())

	seen := map[SpanKey]bool{a.Key(): true}
	assert.True(t, seen[b.Key()])
	assert.False(t, seen[c.Key()])

	assert.True(t, a.Contains(c))
	assert.False(t, c.Contains(a))
}

func TestSpanAttribTokens(t *testing.T) {
	doc := newTestDoc(t)
	s := doc.Sentences[1]
	s.Attribs["lemmas"] = []string{"pain", "in", "left", "knee", "."}
	s.Attribs["pos_tags"] = []string{"NOUN", "ADP", "ADJ", "NOUN", "PUNCT"}

	sp := NewSpan(s, 8, 16)
	assert.Equal(t, []string{"ADJ", "NOUN"}, sp.AttribTokens("pos_tags"))
	assert.Equal(t, "ADJ NOUN", sp.AttribText("pos_tags", " "))
	assert.Equal(t, "left knee", sp.AttribText(WordsAttrib, " "))
	assert.Nil(t, sp.AttribTokens("missing"))
}

func TestRelation(t *testing.T) {
	doc := newTestDoc(t)
	s := doc.Sentences[1]

	knee := NewSpan(s, 13, 16)
	pain := NewSpan(s, 0, 3)

	r1, err := NewRelation("anatomy_pain", []string{"anatomy", "pain"}, []*Span{knee, pain})
	require.NoError(t, err)
	r2, err := NewRelation("anatomy_pain", []string{"anatomy", "pain"}, []*Span{NewSpan(s, 13, 16), NewSpan(s, 0, 3)})
	require.NoError(t, err)
	r3, err := NewRelation("anatomy_pain", []string{"anatomy", "pain"}, []*Span{pain, knee})
	require.NoError(t, err)

	assert.True(t, r1.Equal(r2))
	assert.Equal(t, r1.Hash(), r2.Hash())
	assert.False(t, r1.Equal(r3))
	assert.Same(t, knee, r1.Arg("anatomy"))
	assert.Nil(t, r1.Arg("other"))
	assert.Same(t, s, r1.Sentence())

	other := NewSpan(doc.Sentences[0], 3, 7)
	_, err = NewRelation("anatomy_pain", []string{"anatomy", "pain"}, []*Span{other, pain})
	assert.ErrorIs(t, err, ErrRelationSentence)
}

func TestLayers(t *testing.T) {
	doc := newTestDoc(t)
	s := doc.Sentences[1]

	doc.AddSpans(1, "anatomy", []*Span{NewSpan(s, 8, 16)})
	doc.AddSpans(1, "pain", []*Span{NewSpan(s, 0, 3)})

	assert.True(t, doc.HasLayers(1, "anatomy", "pain"))
	assert.False(t, doc.HasLayers(0, "anatomy"))
	assert.Equal(t, []string{"anatomy", "pain"}, doc.LayerNames(1))
	assert.Len(t, doc.Spans(1, "anatomy"), 1)
	assert.Empty(t, doc.Relations(1, "anatomy"))

	doc.ResetAnnotations()
	assert.Empty(t, doc.LayerNames(1))
}

func TestSentenceAt(t *testing.T) {
	doc := newTestDoc(t)

	s, ok := doc.SentenceAt(19, 27)
	require.True(t, ok)
	assert.Equal(t, 1, s.Position)

	_, ok = doc.SentenceAt(7, 12)
	assert.False(t, ok)
}
