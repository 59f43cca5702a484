package match

import (
	"strings"
	"testing"

	"github.com/revelaction/rwe/dictionary"
	"github.com/revelaction/rwe/ngram"
	sent "github.com/revelaction/rwe/sentence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSentence(t *testing.T, words []string, offsets []int) *sent.Sentence {
	t.Helper()
	s, err := sent.NewSentence(0, words, offsets)
	require.NoError(t, err)
	return s
}

func bounds(spans []*sent.Span) [][2]int {
	out := make([][2]int, len(spans))
	for i, sp := range spans {
		out[i] = [2]int{sp.CharStart, sp.CharEnd}
	}
	return out
}

func TestLongestMatches(t *testing.T) {
	s := newSentence(t, []string{"0123456789"}, []int{0})

	tests := []struct {
		name string
		in   [][2]int
		want [][2]int
	}{
		{"empty", nil, nil},
		{"single", [][2]int{{2, 6}}, [][2]int{{2, 6}}},
		{"overlapping chain", [][2]int{{0, 4}, {2, 6}, {5, 9}}, [][2]int{{5, 9}, {2, 6}, {0, 4}}},
		{"input order does not matter", [][2]int{{5, 9}, {0, 4}, {2, 6}}, [][2]int{{5, 9}, {2, 6}, {0, 4}}},
		{"nested", [][2]int{{2, 6}, {5, 9}, {0, 9}}, [][2]int{{0, 9}}},
		{"same end longer first", [][2]int{{7, 9}, {3, 9}, {0, 1}}, [][2]int{{3, 9}, {0, 1}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var in []*sent.Span
			for _, b := range tc.in {
				in = append(in, sent.NewSpan(s, b[0], b[1]))
			}

			got := LongestMatches(in)
			if tc.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.want, bounds(got))

			for i, a := range got {
				for j, b := range got {
					if i != j {
						assert.False(t, a.Contains(b), "%v contains %v", a, b)
					}
				}
			}
		})
	}
}

func TestMatchSentence(t *testing.T) {
	s := newSentence(t,
		[]string{"Patient", "denies", "chest", "pain", "."},
		[]int{0, 8, 15, 21, 25})

	dicts := map[string]dictionary.Dictionary{
		"pain":    dictionary.NewSet("chest pain", "pain"),
		"anatomy": dictionary.NewSet("chest"),
		"empty":   dictionary.NewSet(),
	}

	m := NewMatcher(dicts)
	got := m.MatchSentence(s, ngram.New(ngram.DefaultNMax))

	require.Len(t, got["pain"], 1)
	assert.Equal(t, "chest pain", got["pain"][0].Text())
	assert.Equal(t, [][2]int{{15, 24}}, bounds(got["pain"]))

	require.Len(t, got["anatomy"], 1)
	assert.Equal(t, "chest", got["anatomy"][0].Text())

	assert.NotContains(t, got, "empty")

	// without overlap resolution both pain terms are kept
	m.LongestMatchOnly = false
	got = m.MatchSentence(s, ngram.New(ngram.DefaultNMax))
	assert.Len(t, got["pain"], 2)
}

func TestMatchSentenceOptions(t *testing.T) {
	s := newSentence(t, []string{"Chest", "pain", "in", "pt"}, []int{0, 9, 14, 17})

	dicts := map[string]dictionary.Dictionary{
		"pain": dictionary.NewSet("chest pain", "in", "pt"),
	}

	m := NewMatcher(dicts)
	m.LongestMatchOnly = false

	// case sensitive: only the short terms match
	got := m.MatchSentence(s, ngram.New(3))
	assert.ElementsMatch(t, []string{"in", "pt"}, textsOf(got["pain"]))

	// whitespace runs are collapsed before the lookup
	m.IgnoreCase = true
	got = m.MatchSentence(s, ngram.New(3))
	assert.ElementsMatch(t, []string{"Chest    pain", "in", "pt"}, textsOf(got["pain"]))

	m.IgnoreWhitespace = false
	got = m.MatchSentence(s, ngram.New(3))
	assert.ElementsMatch(t, []string{"in", "pt"}, textsOf(got["pain"]))

	m.IgnoreWhitespace = true
	m.Stopwords = dictionary.NewSet("pt")
	m.MinLength = 3
	got = m.MatchSentence(s, ngram.New(3))
	assert.ElementsMatch(t, []string{"Chest    pain"}, textsOf(got["pain"]))
}

func TestMatchSentenceNoDictionaries(t *testing.T) {
	s := newSentence(t, []string{"knee", "pain"}, []int{0, 5})
	got := NewMatcher(nil).MatchSentence(s, ngram.New(2))
	assert.Empty(t, got)
}

func textsOf(spans []*sent.Span) []string {
	out := make([]string, len(spans))
	for i, sp := range spans {
		out[i] = sp.Text()
	}
	return out
}

func TestMatchSentenceNormalized(t *testing.T) {
	// "ﬁ" is the U+FB01 ligature
	s := newSentence(t, []string{"ﬁbromyalgia", "flare"}, []int{0, 12})

	loaded, err := dictionary.Read(strings.NewReader("ﬁbromyalgia\n"))
	require.NoError(t, err)

	m := NewMatcher(map[string]dictionary.Dictionary{
		"loaded": loaded,
		"plain":  dictionary.NewSet("fibromyalgia"),
	})

	got := m.MatchSentence(s, ngram.New(2))
	for _, name := range []string{"loaded", "plain"} {
		require.Len(t, got[name], 1, name)
		assert.Equal(t, "ﬁbromyalgia", got[name][0].Text())
	}
}
