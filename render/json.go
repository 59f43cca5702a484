package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/revelaction/rwe/label"
	sent "github.com/revelaction/rwe/sentence"
)

// Candidate is the JSON form of a relation candidate.
type Candidate struct {
	Doc      string         `json:"doc"`
	Sentence int            `json:"sentence"`
	Type     string         `json:"type"`
	Text     string         `json:"text"`
	Args     []Arg          `json:"args"`
	Votes    map[string]int `json:"votes,omitempty"`
}

type Arg struct {
	Role         string `json:"role"`
	Text         string `json:"text"`
	CharStart    int    `json:"char_start"`
	CharEnd      int    `json:"char_end"`
	AbsCharStart int    `json:"abs_char_start"`
	AbsCharEnd   int    `json:"abs_char_end"`
}

// NewCandidate builds the JSON form of c.
func NewCandidate(c *sent.Relation) Candidate {
	s := c.Sentence()

	out := Candidate{Sentence: s.Position, Type: c.Type, Text: s.Text()}
	if doc := s.Document(); doc != nil {
		out.Doc = doc.Name
	}

	for k, role := range c.Roles() {
		sp := c.At(k)
		out.Args = append(out.Args, Arg{
			Role:         role,
			Text:         sp.Text(),
			CharStart:    sp.CharStart,
			CharEnd:      sp.CharEnd,
			AbsCharStart: sp.AbsCharStart(),
			AbsCharEnd:   sp.AbsCharEnd(),
		})
	}

	return out
}

// JSONRenderer writes candidates as JSON to a writer.
type JSONRenderer struct {
	W io.Writer
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{W: w}
}

// Render serializes the candidates as a JSON array.
func (r *JSONRenderer) Render(cs []*sent.Relation) error {
	out := make([]Candidate, len(cs))
	for i, c := range cs {
		out[i] = NewCandidate(c)
	}
	return json.NewEncoder(r.W).Encode(out)
}

// RenderVotes serializes the candidates with their non abstain votes. Row i
// of m holds the votes of cs[i], the columns are the LFs of names.
func (r *JSONRenderer) RenderVotes(cs []*sent.Relation, names []string, m *label.Matrix) error {
	rows, cols := m.Shape()
	if rows != len(cs) || cols != len(names) {
		return fmt.Errorf("%w: %dx%d matrix for %d candidates and %d LFs", label.ErrShape, rows, cols, len(cs), len(names))
	}

	out := make([]Candidate, len(cs))
	for i, c := range cs {
		out[i] = NewCandidate(c)
		for j, v := range m.Row(i) {
			if v == 0 {
				continue
			}
			if out[i].Votes == nil {
				out[i].Votes = map[string]int{}
			}
			out[i].Votes[names[j]] = v
		}
	}
	return json.NewEncoder(r.W).Encode(out)
}
