package stat

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	sent "github.com/revelaction/rwe/sentence"
)

type Handler struct {
	stats Stats
}

type Stats struct {
	NumDocs               int
	NumSentences          int
	NumTokens             int
	TokensPerSentenceMean int
	TokensPerSentenceDis  map[int]int

	// Layers counts the mentions of every annotation layer.
	Layers map[string]int
}

func (h *Handler) Get() Stats {
	return h.stats
}

func NewHandler() *Handler {
	stats := Stats{TokensPerSentenceDis: map[int]int{}, Layers: map[string]int{}}
	return &Handler{
		stats: stats,
	}
}

func (h *Handler) Aggregate(doc *sent.Document) {
	h.stats.NumDocs++
	h.stats.NumSentences += len(doc.Sentences)

	for i, s := range doc.Sentences {
		h.stats.NumTokens += len(s.Words)
		h.stats.TokensPerSentenceDis[len(s.Words)]++

		for _, name := range doc.LayerNames(i) {
			m, _ := doc.Layer(i, name)
			h.stats.Layers[name] += len(m)
		}
	}

	if h.stats.NumSentences > 0 {
		h.stats.TokensPerSentenceMean = h.stats.NumTokens / h.stats.NumSentences
	}
}

// Write prints the stats as an aligned table.
func (s Stats) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "docs\t%d\n", s.NumDocs)
	fmt.Fprintf(tw, "sentences\t%d\n", s.NumSentences)
	fmt.Fprintf(tw, "tokens\t%d\n", s.NumTokens)
	fmt.Fprintf(tw, "tokens per sentence\t%d\n", s.TokensPerSentenceMean)

	names := make([]string, 0, len(s.Layers))
	for name := range s.Layers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(tw, "layer %s\t%d\n", name, s.Layers[name])
	}

	return tw.Flush()
}
