package stat

import (
	"bytes"
	"testing"

	"github.com/revelaction/rwe/label"
	sent "github.com/revelaction/rwe/sentence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	s0, err := sent.NewSentence(0, []string{"knee", "pain", "."}, []int{0, 5, 10})
	require.NoError(t, err)
	s1, err := sent.NewSentence(1, []string{"no", "fever"}, []int{12, 15})
	require.NoError(t, err)

	doc, err := sent.NewDocument("d1", []*sent.Sentence{s0, s1})
	require.NoError(t, err)
	doc.AddSpans(0, "anatomy", []*sent.Span{sent.NewSpan(s0, 0, 3)})
	doc.AddSpans(0, "pain", []*sent.Span{sent.NewSpan(s0, 5, 8)})
	doc.AddSpans(1, "pain", []*sent.Span{sent.NewSpan(s1, 3, 7)})

	h := NewHandler()
	h.Aggregate(doc)
	h.Aggregate(doc)

	stats := h.Get()
	assert.Equal(t, 2, stats.NumDocs)
	assert.Equal(t, 4, stats.NumSentences)
	assert.Equal(t, 10, stats.NumTokens)
	assert.Equal(t, 2, stats.TokensPerSentenceMean)
	assert.Equal(t, map[int]int{3: 2, 2: 2}, stats.TokensPerSentenceDis)
	assert.Equal(t, map[string]int{"anatomy": 2, "pain": 4}, stats.Layers)

	var buf bytes.Buffer
	require.NoError(t, stats.Write(&buf))
	assert.Contains(t, buf.String(), "layer pain")
}

func TestSummarize(t *testing.T) {
	a, err := label.FromDense([][]int{
		{1, 0, -1},
		{1, 1, 0},
	}, 3)
	require.NoError(t, err)

	b, err := label.FromDense([][]int{
		{0, 0, 0},
		{0, -1, 0},
	}, 3)
	require.NoError(t, err)

	sum, err := Summarize([]string{"x", "y", "z"}, a, b)
	require.NoError(t, err)

	assert.Equal(t, 4, sum.Rows)
	assert.InDelta(t, 0.75, sum.Coverage, 1e-9)

	x := sum.LFs[0]
	assert.Equal(t, "x", x.Name)
	assert.Equal(t, []int{1}, x.Polarity)
	assert.InDelta(t, 0.5, x.Coverage, 1e-9)
	assert.InDelta(t, 0.5, x.Overlaps, 1e-9)
	assert.InDelta(t, 0.25, x.Conflicts, 1e-9)
	assert.Equal(t, 2, x.Accepts)

	y := sum.LFs[1]
	assert.Equal(t, []int{-1, 1}, y.Polarity)
	assert.InDelta(t, 0.25, y.Overlaps, 1e-9)
	assert.Zero(t, y.Conflicts)
	assert.Equal(t, 1, y.Rejects)

	var buf bytes.Buffer
	require.NoError(t, sum.Write(&buf))
	assert.Contains(t, buf.String(), "Conflicts")
}

func TestSummarizeShape(t *testing.T) {
	_, err := Summarize([]string{"x"}, label.Zeros(2, 3))
	assert.ErrorIs(t, err, label.ErrShape)

	sum, err := Summarize([]string{"x"})
	require.NoError(t, err)
	assert.Zero(t, sum.Rows)
	assert.Len(t, sum.LFs, 1)
}
