package tagger

import (
	sent "github.com/revelaction/rwe/sentence"
)

// Relation writes the relation candidates of a type: in every sentence that
// has all argument layers, the cartesian product of their spans, in argument
// order. Filtering the candidates is the job of the labeling functions.
type Relation struct {
	Type string
	Args []string
}

func NewRelation(typ string, args ...string) *Relation {
	return &Relation{Type: typ, Args: args}
}

func (t *Relation) Tag(doc *sent.Document) error {
	for i := range doc.Sentences {
		if !doc.HasLayers(i, t.Args...) {
			continue
		}

		layers := make([][]*sent.Span, len(t.Args))
		for k, name := range t.Args {
			layers[k] = doc.Spans(i, name)
		}

		var rels []*sent.Relation
		for _, tuple := range product(layers) {
			r, err := sent.NewRelation(t.Type, t.Args, tuple)
			if err != nil {
				return err
			}
			rels = append(rels, r)
		}

		doc.AddRelations(i, t.Type, rels)
	}
	return nil
}

// product returns the cartesian product of layers, the last layer varying
// fastest.
func product(layers [][]*sent.Span) [][]*sent.Span {
	if len(layers) == 0 {
		return nil
	}

	tuples := [][]*sent.Span{{}}
	for _, layer := range layers {
		next := make([][]*sent.Span, 0, len(tuples)*len(layer))
		for _, prefix := range tuples {
			for _, sp := range layer {
				tuple := make([]*sent.Span, len(prefix), len(prefix)+1)
				copy(tuple, prefix)
				next = append(next, append(tuple, sp))
			}
		}
		tuples = next
	}
	return tuples
}

// Candidates returns the relations of layer in each document, in sentence
// order: one candidate group per document.
func Candidates(docs []*sent.Document, layer string) [][]*sent.Relation {
	groups := make([][]*sent.Relation, len(docs))
	for d, doc := range docs {
		for i := range doc.Sentences {
			groups[d] = append(groups[d], doc.Relations(i, layer)...)
		}
	}
	return groups
}
