package negex

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	sent "github.com/revelaction/rwe/sentence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokens builds a sentence splitting text on single spaces.
func tokens(t *testing.T, text string) *sent.Sentence {
	t.Helper()
	words := strings.Split(text, " ")
	offsets := make([]int, len(words))
	o := 0
	for i, w := range words {
		offsets[i] = o
		o += len([]rune(w)) + 1
	}
	s, err := sent.NewSentence(0, words, offsets)
	require.NoError(t, err)
	return s
}

// spanOf returns the span of the first occurrence of sub in s.
func spanOf(t *testing.T, s *sent.Sentence, sub string) *sent.Span {
	t.Helper()
	i := strings.Index(s.Text(), sub)
	require.GreaterOrEqual(t, i, 0, sub)
	start := len([]rune(s.Text()[:i]))
	return sent.NewSpan(s, start, start+len([]rune(sub))-1)
}

var lexicon = []Term{
	{Phrase: "no evidence of", Category: Definite, Direction: Forward},
	{Phrase: "no", Category: Definite, Direction: Forward},
	{Phrase: "denies", Category: Definite, Direction: Forward},
	{Phrase: "ruled out", Category: Definite, Direction: Backward},
	{Phrase: "possible", Category: Probable, Direction: Bidirectional},
	{Phrase: "no increase", Category: Pseudo, Direction: Forward},
}

func TestIsNegatedWindow(t *testing.T) {
	n := New(lexicon)
	s := tokens(t, "There is no evidence of pain today")
	sp := spanOf(t, s, "pain")

	assert.True(t, n.IsNegated(sp, Definite, Left, 5))
	assert.Equal(t, []string{"no evidence of"}, n.Negation(sp, Definite, Left, 5))

	assert.False(t, n.IsNegated(sp, Definite, Left, 1))
	assert.False(t, n.IsNegated(sp, Definite, Left, 0))
	assert.Nil(t, n.Negation(sp, Definite, Left, 0))

	// the whole left side
	assert.True(t, n.IsNegated(sp, Definite, Left, -1))

	assert.False(t, n.IsNegated(sp, Definite, Right, 5))
}

func TestNegationRightSide(t *testing.T) {
	n := New(lexicon)
	s := tokens(t, "fracture was RULED OUT")
	sp := spanOf(t, s, "fracture")

	assert.Equal(t, []string{"RULED OUT"}, n.Negation(sp, Definite, Right, 3))
	assert.False(t, n.IsNegated(sp, Definite, Left, 3))
}

func TestNegationWordBoundary(t *testing.T) {
	n := New(lexicon)

	// "no" must not match inside "nothing"
	s := tokens(t, "nothing about pain")
	assert.False(t, n.IsNegated(spanOf(t, s, "pain"), Definite, Left, 3))

	// trigger at the end of the context
	s = tokens(t, "denies pain")
	assert.True(t, n.IsNegated(spanOf(t, s, "pain"), Definite, Left, 3))
}

func TestAbsentCategory(t *testing.T) {
	n := New([]Term{{Phrase: "denies", Category: Definite, Direction: Forward}})
	s := tokens(t, "denies pain")
	sp := spanOf(t, s, "pain")

	assert.False(t, n.IsNegated(sp, Pseudo, Left, 3))
	assert.False(t, n.IsNegated(sp, Definite, Right, 3))
	assert.Nil(t, n.Negation(sp, Probable, Left, 3))

	assert.Equal(t, []Category{Definite}, n.Categories())
	assert.Equal(t, []Side{Left}, n.Sides(Definite))
	assert.Empty(t, n.Sides(Pseudo))

	empty := New(nil)
	assert.Empty(t, empty.Categories())
	assert.Empty(t, empty.AllNegations(sp, 3))
}

func TestAllNegations(t *testing.T) {
	n := New(lexicon)
	s := tokens(t, "no increase in possible pain possible")
	sp := spanOf(t, s, "pain")

	got := n.AllNegations(sp, 4)
	want := []Match{
		{Category: Definite, Side: Left, Terms: []string{"no"}},
		{Category: Probable, Side: Left, Terms: []string{"possible"}},
		{Category: Probable, Side: Right, Terms: []string{"possible"}},
		{Category: Pseudo, Side: Left, Terms: []string{"no increase"}},
	}
	assert.Equal(t, want, got)
}

func TestDeniesChestPain(t *testing.T) {
	n := New(lexicon)
	s := tokens(t, "Patient denies chest pain .")
	sp := spanOf(t, s, "chest pain")

	assert.True(t, n.IsNegated(sp, Definite, Left, 2))
	assert.Equal(t, []string{"denies"}, n.Negation(sp, Definite, Left, 2))
}

func lexiconCSV(t *testing.T, rows [][3]string) string {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, r := range rows {
		rec := make([]string, 33)
		rec[0], rec[30], rec[32] = r[0], r[1], r[2]
		require.NoError(t, w.Write(rec))
	}
	// short record
	require.NoError(t, w.Write([]string{"x", "y"}))
	w.Flush()
	require.NoError(t, w.Error())
	return buf.String()
}

func TestLoadLexicon(t *testing.T) {
	data := lexiconCSV(t, [][3]string{
		{"term", "category", "direction"},
		{"no evidence of", "definiteNegatedExistence", "forward"},
		{"could be", "probableNegatedExistence", "bidirectional"},
		{"not only", "pseudoNegation", "forward"},
		{"history of", "historical", "forward"},
	})

	terms, err := LoadLexicon(strings.NewReader(data))
	require.NoError(t, err)

	want := []Term{
		{Phrase: "no evidence of", Category: Definite, Direction: Forward},
		{Phrase: "could be", Category: Probable, Direction: Bidirectional},
		{Phrase: "not only", Category: Pseudo, Direction: Forward},
	}
	assert.Equal(t, want, terms)

	n := New(terms)
	assert.Equal(t, []Category{Definite, Probable, Pseudo}, n.Categories())
	assert.Equal(t, []Side{Left, Right}, n.Sides(Probable))
}

func TestLoadLexiconColumns(t *testing.T) {
	data := "denies,definiteNegatedExistence,forward\n"

	terms, err := LoadLexicon(strings.NewReader(data), WithColumns(0, 1, 2))
	require.NoError(t, err)
	assert.Equal(t, []Term{{Phrase: "denies", Category: Definite, Direction: Forward}}, terms)

	// default columns: the record is too short
	terms, err = LoadLexicon(strings.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, terms)

	_, err = LoadLexicon(strings.NewReader(data), WithColumns(-1, 1, 2))
	assert.ErrorIs(t, err, ErrColumns)
}
