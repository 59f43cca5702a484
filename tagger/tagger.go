// Package tagger writes annotation layers and span properties into
// documents. Taggers run in sequence over one document; a tagger adds or
// replaces its own layers and never removes the layers of another one.
package tagger

import (
	"github.com/revelaction/rwe/dictionary"
	"github.com/revelaction/rwe/match"
	"github.com/revelaction/rwe/ngram"
	sent "github.com/revelaction/rwe/sentence"
)

// Tagger annotates a document in place.
type Tagger interface {
	Tag(doc *sent.Document) error
}

// Func adapts a function to a Tagger.
type Func func(doc *sent.Document) error

func (f Func) Tag(doc *sent.Document) error {
	return f(doc)
}

// Reset clears every layer of the document. It is the only tagger that
// removes annotations.
type Reset struct{}

func (Reset) Tag(doc *sent.Document) error {
	doc.ResetAnnotations()
	return nil
}

// Dictionary writes the dictionary matches of every sentence, one layer per
// dictionary name. Dictionaries without matches in a sentence add no layer.
type Dictionary struct {
	Matcher   *match.Matcher
	Generator *ngram.Generator
}

// NewDictionary returns a Dictionary tagger with the default matcher
// settings and n-grams of up to ngram.DefaultNMax tokens.
func NewDictionary(dicts map[string]dictionary.Dictionary) *Dictionary {
	return &Dictionary{
		Matcher:   match.NewMatcher(dicts),
		Generator: ngram.New(ngram.DefaultNMax),
	}
}

func (t *Dictionary) Tag(doc *sent.Document) error {
	for i, s := range doc.Sentences {
		matches := t.Matcher.MatchSentence(s, t.Generator)
		for name, spans := range matches {
			doc.AddSpans(i, name, spans)
		}
	}
	return nil
}

// targetSpans returns the spans of the target layers of sentence i, layer by
// layer.
func targetSpans(doc *sent.Document, i int, targets []string) []*sent.Span {
	var spans []*sent.Span
	for _, layer := range targets {
		spans = append(spans, doc.Spans(i, layer)...)
	}
	return spans
}
