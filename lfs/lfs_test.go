package lfs

import (
	"strings"
	"testing"

	"github.com/revelaction/rwe/dictionary"
	"github.com/revelaction/rwe/label"
	"github.com/revelaction/rwe/negex"
	sent "github.com/revelaction/rwe/sentence"
	"github.com/revelaction/rwe/tagger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDoc(t *testing.T, name string, sentences ...string) *sent.Document {
	t.Helper()

	offset := 0
	var ss []*sent.Sentence
	for i, text := range sentences {
		words := strings.Fields(text)
		offsets := make([]int, len(words))
		for k, w := range words {
			offsets[k] = offset
			offset += len([]rune(w)) + 1
		}

		s, err := sent.NewSentence(i, words, offsets)
		require.NoError(t, err)
		ss = append(ss, s)
	}

	doc, err := sent.NewDocument(name, ss)
	require.NoError(t, err)
	return doc
}

var lexicon = negex.New([]negex.Term{
	{Phrase: "denies", Category: negex.Definite, Direction: negex.Forward},
})

// votes tags doc, labels its anatomy_pain candidates and returns the votes
// of each candidate keyed by "anatomy|pain|sentence" and LF name.
func votes(t *testing.T, doc *sent.Document) map[string]map[string]int {
	t.Helper()

	dicts := map[string]dictionary.Dictionary{
		RoleAnatomy: dictionary.NewSet("knee", "back"),
		RolePain:    dictionary.NewSet("pain", "ache"),
	}

	taggers := []tagger.Tagger{
		tagger.Reset{},
		tagger.NewSectionHeader(0, nil),
		tagger.NewDictionary(dicts),
		tagger.NewNegation(lexicon, RolePain),
		tagger.NewRelation("anatomy_pain", RoleAnatomy, RolePain),
	}
	for _, tg := range taggers {
		require.NoError(t, tg.Tag(doc))
	}

	reg, err := Registry("anatomy_pain", lexicon)
	require.NoError(t, err)

	groups := tagger.Candidates([]*sent.Document{doc}, "anatomy_pain")
	mats, err := label.Apply(label.NewServer(label.WithWorkers(2)), reg.LFs(), groups, 1)
	require.NoError(t, err)

	names := reg.Names()
	out := map[string]map[string]int{}
	for i, c := range groups[0] {
		key := c.Arg(RoleAnatomy).Text() + "|" + c.Arg(RolePain).Text() + "|" + string(rune('0'+c.Sentence().Position))
		out[key] = map[string]int{}
		for j, name := range names {
			out[key][name] = mats[0].At(i, j)
		}
	}
	return out
}

func TestAnatomyPain(t *testing.T) {
	doc := newDoc(t, "d1",
		"HPI: severe knee pain .",
		"Patient denies back pain .",
		"FAMILY HISTORY: knee pain , back ache .")

	v := votes(t, doc)
	require.Len(t, v, 6)

	c := v["knee|pain|0"]
	assert.Equal(t, label.Accept, c["LF_compound_words"])
	assert.Equal(t, label.Accept, c["LF_intensity"])
	assert.Equal(t, label.Accept, c["LF_token_distance"])
	assert.Equal(t, label.Abstain, c["LF_negated"])
	assert.Equal(t, label.Abstain, c["LF_family_history_header"])

	c = v["back|pain|1"]
	assert.Equal(t, label.Reject, c["LF_denies"])
	assert.Equal(t, label.Reject, c["LF_negated"])
	assert.Equal(t, label.Reject, c["LF_negex_tagged"])
	assert.Equal(t, label.Abstain, c["LF_compound_words"])

	for _, key := range []string{"knee|pain|2", "knee|ache|2", "back|pain|2", "back|ache|2"} {
		assert.Equal(t, label.Reject, v[key]["LF_family_history_header"], key)
	}
	assert.Equal(t, label.Reject, v["knee|ache|2"]["LF_breaking_char_inbetween"])
	assert.Equal(t, label.Reject, v["back|pain|2"]["LF_breaking_char_inbetween"])
	assert.Equal(t, label.Accept, v["knee|pain|2"]["LF_compound_words"])
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"anatomy_pain"}, Sets())

	reg, err := Registry("anatomy_pain", nil)
	require.NoError(t, err)
	assert.Positive(t, reg.Len())
	assert.Equal(t, "LF_pro_re_nata", reg.Names()[0])

	_, err = Registry("pain_intensity", nil)
	assert.ErrorIs(t, err, ErrUnknownSet)

	roles, err := Roles("anatomy_pain")
	require.NoError(t, err)
	assert.Equal(t, []string{RoleAnatomy, RolePain}, roles)

	_, err = Roles("pain_intensity")
	assert.ErrorIs(t, err, ErrUnknownSet)
}

func TestStopwordArgs(t *testing.T) {
	doc := newDoc(t, "d1", "MD reports pain")
	s := doc.Sentences[0]

	md := sent.NewSpan(s, 0, 1)
	pain := sent.NewSpan(s, 11, 14)
	require.Equal(t, "pain", pain.Text())

	// roles out of text order
	c, err := sent.NewRelation("anatomy_pain", []string{RolePain, RoleAnatomy}, []*sent.Span{pain, md})
	require.NoError(t, err)

	reg, err := Registry("anatomy_pain", nil)
	require.NoError(t, err)

	for _, lf := range reg.LFs() {
		if lf.Name == "LF_stopwords" {
			assert.Equal(t, label.Reject, lf.Fn(c))
			return
		}
	}
	t.Fatal("LF_stopwords not registered")
}

func TestHelpers(t *testing.T) {
	doc := newDoc(t, "d1", "chronic pain in the left knee , non tender")
	s := doc.Sentences[0]

	pain := sent.NewSpan(s, 8, 11)
	knee := sent.NewSpan(s, 25, 28)
	require.Equal(t, "pain", pain.Text())
	require.Equal(t, "knee", knee.Text())

	c, err := sent.NewRelation("anatomy_pain", []string{RoleAnatomy, RolePain}, []*sent.Span{knee, pain})
	require.NoError(t, err)

	assert.Equal(t, pain, Head(c))
	assert.Equal(t, []string{"in", "the", "left"}, BetweenTokens(c, sent.WordsAttrib))
	assert.Equal(t, []string{"chronic"}, LeftTokens(pain, 3))
	assert.Equal(t, "the left", LeftText(knee, 2))
	assert.Equal(t, []string{",", "non"}, RightTokens(knee, 2, sent.WordsAttrib))
	assert.Equal(t, "", Header(c))
}
