package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	sent "github.com/revelaction/rwe/sentence"
)

const (
	partialOffset = 6
	Defaultformat = "all"
)

var (
	Black   = "\033[1;30m"
	Red     = "\033[1;31m"
	Green   = "\033[1;32m"
	Yellow  = "\033[0;33m"
	Purple  = "\033[1;34m"
	Magenta = "\033[1;35m"
	Teal    = "\033[1;36m"
	Gray    = "\033[0;37m"
	White   = "\033[1;37m"
	Off     = "\033[0m"
	//Yellow256  = "\033[1;38;5;202m"
	Yellow256 = "\033[1;38;5;130m"
	Grey256   = "\033[1;38;5;145m"
	Green256  = "\033[1;38;5;70m"
	ClearLine = "\033[K"
)

// palette colors layers in sorted name order
var palette = []string{Green256, Yellow256, Teal, Magenta, Purple, Red}

func SupportedFormats() []string {
	return []string{"all", "part", "layers"}
}

type Renderer struct {
	W io.Writer

	HasColor bool

	HasPrefix bool

	// Format determines the format of the sentence
	//
	// all: print all sentence
	// part: print the sorrounding of the mentions in the sentence, cut the rest.
	// layers: print the sentence and then one line per layer with its mentions
	Format string

	// Layers restricts the colored layers. All span layers when empty.
	Layers []string
}

func NewRenderer() *Renderer {
	return &Renderer{W: os.Stdout, Format: Defaultformat}
}

// Document renders every sentence of doc.
func (r *Renderer) Document(doc *sent.Document) {
	for i := range doc.Sentences {
		r.Sentence(doc, i)
	}
}

// Sentence renders sentence i of doc with its layer mentions colored.
func (r *Renderer) Sentence(doc *sent.Document, i int) {
	s := doc.Sentences[i]
	layers := r.spanLayers(doc, i)

	prefix := r.buildPrefix(doc.Name, s.Position)

	var text string
	switch r.Format {
	case "part":
		text = r.syntagma(s, layers)
	default:
		text = r.sentence(s, layers)
	}

	fmt.Fprintf(r.W, "%s%s\n", prefix, strings.ReplaceAll(text, "\n", " "))

	if r.Format == "layers" {
		r.writeLayers(doc, i)
	}
}

// SentenceString returns the sentence text with the spans colored.
func (r *Renderer) SentenceString(s *sent.Sentence, spans []*sent.Span) string {
	text := r.sentence(s, [][]*sent.Span{spans})
	return strings.ReplaceAll(text, "\n", " ")
}

// Candidates renders one line per relation candidate with its arguments
// colored by role order.
func (r *Renderer) Candidates(cs []*sent.Relation) {
	for _, c := range cs {
		s := c.Sentence()

		layers := make([][]*sent.Span, len(c.Args()))
		for k, sp := range c.Args() {
			layers[k] = []*sent.Span{sp}
		}

		name := ""
		if doc := s.Document(); doc != nil {
			name = doc.Name
		}

		var args []string
		for k, role := range c.Roles() {
			args = append(args, fmt.Sprintf("%s=%q", role, c.At(k).Text()))
		}

		fmt.Fprintf(r.W, "%s%s [%s] %s\n", r.buildPrefix(name, s.Position), c.Type,
			strings.Join(args, " "), strings.ReplaceAll(r.syntagma(s, layers), "\n", " "))
	}
}

// spanLayers returns the span layers of sentence i to be colored, in sorted
// name order.
func (r *Renderer) spanLayers(doc *sent.Document, i int) [][]*sent.Span {
	names := r.Layers
	if len(names) == 0 {
		names = doc.LayerNames(i)
	}

	var layers [][]*sent.Span
	for _, name := range names {
		if spans := doc.Spans(i, name); len(spans) > 0 {
			layers = append(layers, spans)
		}
	}
	return layers
}

// sentence writes the sentence text coloring the runes of every layer span.
// Later layers win on overlaps.
func (r *Renderer) sentence(s *sent.Sentence, layers [][]*sent.Span) string {
	return r.colored(s, layers, 0, s.Len()-1)
}

func (r *Renderer) colored(s *sent.Sentence, layers [][]*sent.Span, start, end int) string {
	text := []rune(s.Text())
	if !r.HasColor {
		return string(text[start : end+1])
	}

	colors := make([]string, len(text))
	for k, spans := range layers {
		color := palette[k%len(palette)]
		for _, sp := range spans {
			for c := sp.CharStart; c <= sp.CharEnd; c++ {
				colors[c] = color
			}
		}
	}

	var str strings.Builder
	curr := ""
	for c := start; c <= end; c++ {
		if colors[c] != curr {
			if curr != "" {
				str.WriteString(Off)
			}
			str.WriteString(colors[c])
			curr = colors[c]
		}
		str.WriteRune(text[c])
	}

	if curr != "" {
		str.WriteString(Off)
	}

	return str.String()
}

// syntagma cuts the sentence to partialOffset words around the first and
// last span of the layers.
func (r *Renderer) syntagma(s *sent.Sentence, layers [][]*sent.Span) string {
	first, last := -1, -1
	for _, spans := range layers {
		for _, sp := range spans {
			if sp.Empty() {
				continue
			}
			if first == -1 || sp.WordStart() < first {
				first = sp.WordStart()
			}
			if sp.WordEnd() > last {
				last = sp.WordEnd()
			}
		}
	}

	// if not mentions, we print the whole sentence
	if first == -1 {
		return r.sentence(s, layers)
	}

	lastTokenIndex := len(s.Words) - 1

	syntagmaFirstIdx := max(first-partialOffset, 0)
	syntagmaLastIdx := min(last+partialOffset, lastTokenIndex)

	start := s.WordToCharIndex(syntagmaFirstIdx)
	end := s.WordToCharIndex(syntagmaLastIdx) + len([]rune(s.Words[syntagmaLastIdx])) - 1

	return r.colored(s, layers, start, end)
}

// writeLayers prints one line per layer of sentence i.
func (r *Renderer) writeLayers(doc *sent.Document, i int) {
	for _, name := range doc.LayerNames(i) {
		ms, _ := doc.Layer(i, name)
		texts := make([]string, len(ms))
		for k, m := range ms {
			texts[k] = m.String()
		}

		head := name
		if r.HasColor {
			head = Grey256 + name + Off
		}
		fmt.Fprintf(r.W, "    %s: %s\n", head, strings.Join(texts, ", "))
	}
}

func (r *Renderer) buildPrefix(name string, position int) string {
	if !r.HasPrefix {
		return ""
	}

	return fmt.Sprintf("[%s %3d] ✍  ", r.title(name), position)
}

func (r *Renderer) title(name string) string {
	l := len(name)
	var part string
	if l <= 20 {
		part = fmt.Sprintf("%-20s", name)
	} else {
		part = name[:20]
	}

	if !r.HasColor {
		return part
	}
	return Grey256 + part + Off
}

// NextFormat sets the Renderer Format option to a different one, following
// the SupportedFormats() order.
func (r *Renderer) NextFormat() {

	supported := SupportedFormats()
	for i, format := range supported {
		if format == r.Format {
			switch i {
			case len(supported) - 1:
				r.Format = supported[0]
			default:
				r.Format = supported[i+1]
			}

			break
		}
	}
}

func (r *Renderer) NextPrefix() {

	// toggle
	r.HasPrefix = !r.HasPrefix
}
