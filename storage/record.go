package storage

import (
	"encoding/json"
	"fmt"

	sent "github.com/revelaction/rwe/sentence"
)

// Reserved keys of a sentence record. Every other key holding a string array
// aligned with the words becomes a token attribute.
const (
	wordsKey    = "words"
	offsetsKey  = "abs_char_offsets"
	positionKey = "i"
)

// DocRecord is the JSON line of a document in a corpus file:
//
//	{"name": "...", "sentences": [{"words": [...], "abs_char_offsets": [...], "i": 0, "lemmas": [...]}], "metadata": {...}}
type DocRecord struct {
	Name      string           `json:"name"`
	Sentences []SentenceRecord `json:"sentences"`
	Metadata  map[string]any   `json:"metadata,omitempty"`
}

type SentenceRecord struct {
	Words          []string
	AbsCharOffsets []int
	Position       int
	Attribs        map[string][]string
}

func (r *SentenceRecord) UnmarshalJSON(data []byte) error {
	*r = SentenceRecord{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	if err := unmarshalField(fields, wordsKey, &r.Words); err != nil {
		return err
	}
	if err := unmarshalField(fields, offsetsKey, &r.AbsCharOffsets); err != nil {
		return err
	}
	if err := unmarshalField(fields, positionKey, &r.Position); err != nil {
		return err
	}

	for k, raw := range fields {
		if k == wordsKey || k == offsetsKey || k == positionKey {
			continue
		}

		// non string arrays (f.ex. dependency heads) are not attributes
		var vals []string
		if err := json.Unmarshal(raw, &vals); err != nil {
			continue
		}

		if r.Attribs == nil {
			r.Attribs = map[string][]string{}
		}
		r.Attribs[k] = vals
	}

	return nil
}

func (r SentenceRecord) MarshalJSON() ([]byte, error) {
	fields := map[string]any{
		wordsKey:    r.Words,
		offsetsKey:  r.AbsCharOffsets,
		positionKey: r.Position,
	}
	for k, v := range r.Attribs {
		fields[k] = v
	}
	return json.Marshal(fields)
}

func unmarshalField(fields map[string]json.RawMessage, key string, v any) error {
	raw, ok := fields[key]
	if !ok {
		return fmt.Errorf("missing field %q", key)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	return nil
}

// Document builds the validated document of the record. Metadata becomes
// the document props.
func (r *DocRecord) Document() (*sent.Document, error) {
	ss := make([]*sent.Sentence, len(r.Sentences))
	for i, sr := range r.Sentences {
		s, err := sent.NewSentence(sr.Position, sr.Words, sr.AbsCharOffsets)
		if err != nil {
			return nil, fmt.Errorf("doc %s: sentence %d: %w", r.Name, i, err)
		}

		for k, vals := range sr.Attribs {
			if len(vals) != len(sr.Words) {
				return nil, fmt.Errorf("doc %s: sentence %d: attribute %q has %d tokens, want %d: %w",
					r.Name, i, k, len(vals), len(sr.Words), sent.ErrOffset)
			}
			s.Attribs[k] = vals
		}
		ss[i] = s
	}

	doc, err := sent.NewDocument(r.Name, ss)
	if err != nil {
		return nil, fmt.Errorf("doc %s: %w", r.Name, err)
	}

	for k, v := range r.Metadata {
		doc.Props[k] = v
	}

	return doc, nil
}

// NewDocRecord is the inverse of DocRecord.Document. Annotation layers are
// not stored. Only the string props are kept as metadata.
func NewDocRecord(doc *sent.Document) DocRecord {
	rec := DocRecord{Name: doc.Name, Sentences: make([]SentenceRecord, len(doc.Sentences))}

	for i, s := range doc.Sentences {
		rec.Sentences[i] = SentenceRecord{
			Words:          s.Words,
			AbsCharOffsets: s.AbsCharOffsets,
			Position:       s.Position,
			Attribs:        s.Attribs,
		}
	}

	for k, p := range doc.Props {
		if v, ok := p.(string); ok {
			if rec.Metadata == nil {
				rec.Metadata = map[string]any{}
			}
			rec.Metadata[k] = v
		}
	}

	return rec
}
