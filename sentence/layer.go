package sentence

import "sort"

// Mention is an element of an annotation layer: a Span or a Relation.
type Mention interface {
	Sentence() *Sentence
	Hash() uint64
	String() string
}

// Layers maps a layer name to the mentions of one sentence.
type Layers map[string][]Mention

// SetLayer writes the mentions under name for sentence i. Other layers of
// the sentence are left untouched.
func (d *Document) SetLayer(i int, name string, mentions []Mention) {
	if d.Annotations[i] == nil {
		d.Annotations[i] = Layers{}
	}

	d.Annotations[i][name] = mentions
}

// AddSpans writes the spans under name for sentence i.
func (d *Document) AddSpans(i int, name string, spans []*Span) {
	ms := make([]Mention, len(spans))
	for k, sp := range spans {
		ms[k] = sp
	}

	d.SetLayer(i, name, ms)
}

// AddRelations writes the relations under name for sentence i.
func (d *Document) AddRelations(i int, name string, relations []*Relation) {
	ms := make([]Mention, len(relations))
	for k, r := range relations {
		ms[k] = r
	}

	d.SetLayer(i, name, ms)
}

// Layer returns the mentions of layer name in sentence i.
func (d *Document) Layer(i int, name string) ([]Mention, bool) {
	ms, ok := d.Annotations[i][name]
	return ms, ok
}

// HasLayers reports whether sentence i has every one of the named layers.
func (d *Document) HasLayers(i int, names ...string) bool {
	for _, name := range names {
		if _, ok := d.Annotations[i][name]; !ok {
			return false
		}
	}

	return true
}

// Spans returns the spans of layer name in sentence i.
func (d *Document) Spans(i int, name string) []*Span {
	var spans []*Span
	for _, m := range d.Annotations[i][name] {
		if sp, ok := m.(*Span); ok {
			spans = append(spans, sp)
		}
	}

	return spans
}

// Relations returns the relations of layer name in sentence i.
func (d *Document) Relations(i int, name string) []*Relation {
	var rels []*Relation
	for _, m := range d.Annotations[i][name] {
		if r, ok := m.(*Relation); ok {
			rels = append(rels, r)
		}
	}

	return rels
}

// LayerNames returns the sorted layer names of sentence i.
func (d *Document) LayerNames(i int) []string {
	names := make([]string, 0, len(d.Annotations[i]))
	for name := range d.Annotations[i] {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// ResetAnnotations clears every layer of every sentence.
func (d *Document) ResetAnnotations() {
	d.Annotations = make([]Layers, len(d.Sentences))
	for i := range d.Annotations {
		d.Annotations[i] = Layers{}
	}
}
