package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/revelaction/rwe/parallel"
	sent "github.com/revelaction/rwe/sentence"
	"github.com/revelaction/rwe/storage/filesystem"
	"github.com/revelaction/rwe/tokenize"
)

// parseNotesCommand tokenizes the notes of opts.In in parallel blocks and writes
// the documents, in note order, to the corpus file opts.Out.
func parseNotesCommand(opts ParseOptions, ui UI) error {
	in, err := os.Open(opts.In)
	if err != nil {
		return err
	}
	defer in.Close()

	var notes []tokenize.Note
	skipped, err := tokenize.ReadNotes(in, func(n tokenize.Note) error {
		notes = append(notes, n)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", opts.In, err)
	}

	tk := tokenize.New()
	tk.SplitLines = opts.SplitLines

	workers := parallel.Workers(opts.Workers)
	blocks := parallel.Blocks(len(notes), parallel.AutoSize(len(notes), workers))

	results, err := parallel.Map(notes, blocks, workers, func(_ int, block []tokenize.Note) ([]*sent.Document, error) {
		docs := make([]*sent.Document, 0, len(block))
		for _, n := range block {
			doc, err := tk.Tokenize(n.Name, tokenize.Preprocess(n.Text))
			if errors.Is(err, tokenize.ErrEmpty) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("note %s: %w", n.Name, err)
			}
			docs = append(docs, doc)
		}
		return docs, nil
	})
	if err != nil {
		return err
	}

	w, err := filesystem.Create(opts.Out)
	if err != nil {
		return err
	}

	written := 0
	for _, docs := range results {
		for _, doc := range docs {
			if err := w.Write(doc); err != nil {
				w.Close()
				return err
			}
			written++
		}
	}

	if err := w.Close(); err != nil {
		return err
	}

	skipped += len(notes) - written
	_, err = fmt.Fprintf(ui.Out, "parsed %d documents into %s (%d notes skipped)\n", written, opts.Out, skipped)
	return err
}
