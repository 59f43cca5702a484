package query

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/revelaction/rwe/dictionary"
	"github.com/revelaction/rwe/pipeline"
	"github.com/revelaction/rwe/render"
	sent "github.com/revelaction/rwe/sentence"
	"github.com/revelaction/rwe/storage"
	"github.com/revelaction/rwe/tokenize"
)

const (
	completionThreshold = 2

	// cmdPrefix is the Character in the prompt that prefixes a command
	cmdPrefix = "/"
)

var commands = []prompt.Suggest{
	{Text: "/doc", Description: "tag a corpus document"},
	{Text: "/lfs", Description: "list the labeling functions"},
	{Text: "/layers", Description: "toggle the layers format"},
}

var errNoDocs = errors.New("no corpus loaded")

type Handler struct {
	Pipeline  *pipeline.Pipeline
	Tokenizer tokenize.Tokenizer
	Renderer  *render.Renderer

	// DocRepo is optional, it serves the /doc command.
	DocRepo storage.DocReader

	terms []string
	n     int
}

func NewHandler(p *pipeline.Pipeline, t tokenize.Tokenizer, r *render.Renderer) *Handler {
	return &Handler{
		Pipeline:  p,
		Tokenizer: t,
		Renderer:  r,
		terms:     dictionaryTerms(p.Dictionaries),
	}
}

func dictionaryTerms(dicts map[string]dictionary.Dictionary) []string {
	var terms []string
	for _, d := range dicts {
		if s, ok := d.(dictionary.Set); ok {
			terms = append(terms, s.Terms()...)
		}
	}
	sort.Strings(terms)
	return terms
}

func (h *Handler) Run() error {

	fmt.Println("🔑 Ctrl+X: Toggle prefix, Ctrl+F: next Format, 🔧 quit")

	// initialize prompt history
	history := []string{}

	for {

		in := prompt.Input("      🩺 ", h.completer,
			prompt.OptionTitle("rwe query"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionMaxSuggestion(12),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionHistory(history),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlF,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextFormat()
					fmt.Println("Format set to: " + h.Renderer.Format)
				}}),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlX,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextPrefix()
					fmt.Println("Prefix set to " + fmt.Sprintf("%t", h.Renderer.HasPrefix))
				}}),
		)

		if in == "quit" {
			return nil
		}

		history = append(history, in)

		if err := h.Eval(in); err != nil {
			fmt.Fprintf(h.Renderer.W, "Error: %v\n", err)
		}
	}
}

// Eval runs one REPL line: a command or a text to tag and label.
func (h *Handler) Eval(in string) error {
	in = strings.TrimSpace(in)
	if in == "" {
		return nil
	}

	if !strings.HasPrefix(in, cmdPrefix) {
		h.n++
		doc, err := h.Tokenizer.Tokenize(fmt.Sprintf("query-%d", h.n), tokenize.Preprocess(in))
		if err != nil {
			return err
		}
		return h.show(doc)
	}

	fields := strings.Fields(in)
	switch fields[0] {
	case "/lfs":
		for i, name := range h.Pipeline.LFs.Names() {
			fmt.Fprintf(h.Renderer.W, "%3d %s\n", i, name)
		}
		return nil

	case "/layers":
		if h.Renderer.Format == "layers" {
			h.Renderer.Format = render.Defaultformat
		} else {
			h.Renderer.Format = "layers"
		}
		return nil

	case "/doc":
		if h.DocRepo == nil {
			return errNoDocs
		}
		if len(fields) != 2 {
			return errors.New("usage: /doc NAME")
		}

		doc, err := h.DocRepo.Read(fields[1])
		if err != nil {
			return err
		}
		return h.show(doc)
	}

	return fmt.Errorf("unknown command: %s", fields[0])
}

// show tags doc, renders it and prints the votes of every candidate.
func (h *Handler) show(doc *sent.Document) error {
	if err := h.Pipeline.Tag([][]*sent.Document{{doc}}, nil); err != nil {
		return err
	}

	h.Renderer.Document(doc)

	names := h.Pipeline.LFs.Names()
	for _, rel := range h.Pipeline.Relations {
		groups, ms, err := h.Pipeline.Label([]*sent.Document{doc}, rel)
		if err != nil {
			return err
		}

		for i, c := range groups[0] {
			h.Renderer.Candidates([]*sent.Relation{c})

			var votes []string
			for j, v := range ms[0].Row(i) {
				if v != 0 {
					votes = append(votes, fmt.Sprintf("%s=%+d", names[j], v))
				}
			}
			if len(votes) > 0 {
				fmt.Fprintf(h.Renderer.W, "    %s\n", strings.Join(votes, " "))
			}
		}
	}

	return nil
}

func (h *Handler) completer(in prompt.Document) []prompt.Suggest {
	return h.suggest(in.TextBeforeCursor())
}

func (h *Handler) suggest(befCursor string) []prompt.Suggest {
	s := []prompt.Suggest{}

	// Only one character in line
	if "" == befCursor {
		return s
	}

	if strings.HasPrefix(befCursor, cmdPrefix) {
		tokens := strings.Fields(befCursor)
		if len(tokens) == 1 && !strings.HasSuffix(befCursor, " ") {
			return prompt.FilterHasPrefix(commands, befCursor, false)
		}

		if tokens[0] == "/doc" && h.DocRepo != nil {
			prefix := ""
			if len(tokens) > 1 {
				prefix = tokens[1]
			}
			names, err := h.DocRepo.List()
			if err != nil {
				return s
			}
			for _, name := range names {
				if strings.HasPrefix(name, prefix) {
					s = append(s, prompt.Suggest{Text: name, Description: "📄 document"})
				}
			}
		}
		return s
	}

	// complete the last word with the dictionary terms
	words := strings.Split(befCursor, " ")
	last := strings.ToLower(words[len(words)-1])
	if len([]rune(last)) < completionThreshold {
		return s
	}

	for _, t := range h.terms {
		if strings.HasPrefix(t, last) {
			s = append(s, prompt.Suggest{Text: t, Description: "🔖 term"})
		}
	}

	return s
}
