package storage

import (
	"encoding/json"
	"testing"

	sent "github.com/revelaction/rwe/sentence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const line = `{"name": "note-1",
 "sentences": [
  {"words": ["Knee", "pain", "."], "abs_char_offsets": [0, 5, 10], "i": 0,
   "lemmas": ["knee", "pain", "."], "dep_heads": [1, 1, 1]},
  {"words": ["No", "fever"], "abs_char_offsets": [13, 16], "i": 1,
   "lemmas": ["no", "fever"]}
 ],
 "metadata": {"doctime": "2010-03-04"}}`

func TestDocRecordDocument(t *testing.T) {
	var rec DocRecord
	require.NoError(t, json.Unmarshal([]byte(line), &rec))

	doc, err := rec.Document()
	require.NoError(t, err)

	assert.Equal(t, "note-1", doc.Name)
	require.Len(t, doc.Sentences, 2)
	assert.Equal(t, "Knee pain .  No fever", doc.Text())
	assert.Equal(t, []string{"knee", "pain", "."}, doc.Sentences[0].Attrib("lemmas"))
	assert.NotContains(t, doc.Sentences[0].Attribs, "dep_heads")
	assert.Equal(t, "2010-03-04", doc.Props["doctime"])
	assert.Same(t, doc, doc.Sentences[1].Document())
}

func TestDocRecordErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"missing words", `{"name": "d", "sentences": [{"abs_char_offsets": [0], "i": 0}]}`},
		{"bad offsets", `{"name": "d", "sentences": [{"words": ["a"], "abs_char_offsets": ["x"], "i": 0}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec DocRecord
			assert.Error(t, json.Unmarshal([]byte(tt.line), &rec))
		})
	}

	var rec DocRecord
	require.NoError(t, json.Unmarshal([]byte(
		`{"name": "d", "sentences": [{"words": ["a", "b"], "abs_char_offsets": [0, 2], "i": 0, "lemmas": ["a"]}]}`), &rec))
	_, err := rec.Document()
	assert.ErrorIs(t, err, sent.ErrOffset)

	require.NoError(t, json.Unmarshal([]byte(
		`{"name": "d", "sentences": [{"words": ["a"], "abs_char_offsets": [0], "i": 3}]}`), &rec))
	_, err = rec.Document()
	assert.ErrorIs(t, err, sent.ErrOffset)
}

func TestNewDocRecord(t *testing.T) {
	var rec DocRecord
	require.NoError(t, json.Unmarshal([]byte(line), &rec))
	doc, err := rec.Document()
	require.NoError(t, err)

	doc.Props["score"] = 3
	out := NewDocRecord(doc)

	assert.Equal(t, map[string]any{"doctime": "2010-03-04"}, out.Metadata)
	assert.Equal(t, rec.Sentences, out.Sentences)
}
