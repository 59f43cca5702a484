package tagger

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/revelaction/rwe/dictionary"
	sent "github.com/revelaction/rwe/sentence"
)

// HeaderLayer is the layer of section headers.
const HeaderLayer = "HEADER"

// SectionHeader finds section headers such as "HPI:" or "HOSPITAL COURSE:"
// at the start of a sentence or of a line and writes them, without the
// colon, as layer HEADER. Every sentence gets the headers of the latest
// sentence having one; sentences before the first header get no layer.
type SectionHeader struct {
	// MaxTokens is the maximum number of words of a header.
	MaxTokens int

	// Stopwords are never headers. They are compared lower-cased.
	Stopwords dictionary.Set

	rgx *regexp.Regexp
}

func NewSectionHeader(maxTokens int, stopwords dictionary.Set) *SectionHeader {
	if maxTokens < 1 {
		maxTokens = 6
	}

	return &SectionHeader{
		MaxTokens: maxTokens,
		Stopwords: stopwords,
		rgx: regexp.MustCompile(fmt.Sprintf(
			`(?i)(?:^[\s\n]*|[\n])((?:(?:[A-Za-z#.,/\-]+|24hrs)\s?){1,%d}[:])`, maxTokens)),
	}
}

func (t *SectionHeader) Tag(doc *sent.Document) error {
	var curr []*sent.Span
	for i, s := range doc.Sentences {
		if headers := t.headers(s); len(headers) > 0 {
			curr = headers
		}

		if curr != nil {
			doc.AddSpans(i, HeaderLayer, curr)
		}
	}
	return nil
}

func (t *SectionHeader) headers(s *sent.Sentence) []*sent.Span {
	text := s.Text()

	var spans []*sent.Span
	for _, loc := range t.rgx.FindAllStringSubmatchIndex(text, -1) {
		// group 1 ends with the colon
		start := runeLen(text[:loc[2]])
		end := start + runeLen(text[loc[2]:loc[3]]) - 2

		sp := sent.NewSpan(s, start, end)
		if t.Stopwords.Contains(strings.ToLower(sp.Text())) {
			continue
		}
		spans = append(spans, sp)
	}
	return spans
}

// ParentSection sets props["section"] of the spans of the target layers to
// the last header of their sentence. It reads the HEADER layer written by
// SectionHeader.
type ParentSection struct {
	Targets []string
}

func NewParentSection(targets ...string) *ParentSection {
	return &ParentSection{Targets: targets}
}

func (t *ParentSection) Tag(doc *sent.Document) error {
	for i := range doc.Sentences {
		headers := doc.Spans(i, HeaderLayer)
		if len(headers) == 0 {
			continue
		}

		header := headers[len(headers)-1]
		for _, sp := range targetSpans(doc, i, t.Targets) {
			sp.Props["section"] = header
		}
	}
	return nil
}

// Header returns the section header of sentence i, nil if none.
func Header(doc *sent.Document, i int) *sent.Span {
	headers := doc.Spans(i, HeaderLayer)
	if len(headers) == 0 {
		return nil
	}
	return headers[len(headers)-1]
}

// DocTimeLayout is the layout of doctime strings.
const DocTimeLayout = "2006-01-02"

// DocTime parses the doctime string property of the document. A missing
// property becomes nil.
type DocTime struct {
	Prop string
}

func NewDocTime() *DocTime {
	return &DocTime{Prop: "doctime"}
}

func (t *DocTime) Tag(doc *sent.Document) error {
	v, ok := doc.Props[t.Prop]
	if !ok {
		doc.Props["doctime"] = nil
		return nil
	}

	str, ok := v.(string)
	if !ok {
		return nil
	}

	ts, err := time.Parse(DocTimeLayout, str)
	if err != nil {
		return fmt.Errorf("doc %s: doctime: %w", doc.Name, err)
	}

	doc.Props["doctime"] = ts
	return nil
}

// MappedDocTime assigns doctimes from a document name map.
type MappedDocTime struct {
	Times map[string]time.Time
}

func (t *MappedDocTime) Tag(doc *sent.Document) error {
	if ts, ok := t.Times[doc.Name]; ok {
		doc.Props["doctime"] = ts
		return nil
	}

	doc.Props["doctime"] = nil
	return nil
}
