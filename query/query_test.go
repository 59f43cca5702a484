package query

import (
	"bytes"
	"testing"

	"github.com/revelaction/rwe/config"
	"github.com/revelaction/rwe/pipeline"
	"github.com/revelaction/rwe/render"
	"github.com/revelaction/rwe/tokenize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T) (*Handler, *bytes.Buffer) {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Dictionaries = []config.Dictionary{
		{Name: "anatomy", Terms: []string{"knee", "back"}},
		{Name: "pain", Terms: []string{"pain"}},
	}
	cfg.Relations = []config.Relation{{Type: "anatomy_pain", Args: []string{"anatomy", "pain"}}}
	require.NoError(t, cfg.Validate())

	p, err := pipeline.New(cfg)
	require.NoError(t, err)

	var buf bytes.Buffer
	r := render.NewRenderer()
	r.W = &buf

	return NewHandler(p, tokenize.New(), r), &buf
}

func TestEvalText(t *testing.T) {
	h, buf := newHandler(t)

	require.NoError(t, h.Eval("severe knee pain"))

	out := buf.String()
	assert.Contains(t, out, "severe knee pain\n")
	assert.Contains(t, out, `anatomy_pain [anatomy="knee" pain="pain"]`)
	assert.Contains(t, out, "LF_compound_words=+1")
}

func TestEvalCommands(t *testing.T) {
	h, buf := newHandler(t)

	require.NoError(t, h.Eval("/lfs"))
	assert.Contains(t, buf.String(), "  0 LF_pro_re_nata\n")

	require.NoError(t, h.Eval("/layers"))
	assert.Equal(t, "layers", h.Renderer.Format)
	require.NoError(t, h.Eval("/layers"))
	assert.Equal(t, render.Defaultformat, h.Renderer.Format)

	assert.ErrorIs(t, h.Eval("/doc note-1"), errNoDocs)
	assert.Error(t, h.Eval("/topics"))
	assert.NoError(t, h.Eval("   "))
}

func TestSuggest(t *testing.T) {
	h, _ := newHandler(t)

	texts := func(in string) []string {
		var out []string
		for _, s := range h.suggest(in) {
			out = append(out, s.Text)
		}
		return out
	}

	assert.Equal(t, []string{"knee"}, texts("left kn"))
	assert.Empty(t, texts("left k"))
	assert.Equal(t, []string{"/doc"}, texts("/d"))
	assert.Empty(t, texts("/doc "))
	assert.Empty(t, texts(""))
}
