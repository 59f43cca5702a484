package main

import (
	"github.com/revelaction/rwe/render"
	"github.com/revelaction/rwe/stat"
	"github.com/revelaction/rwe/tagger"
)

// tagCommand tags the corpus and prints the corpus statistics with the
// mention count of every layer, or the relation candidates as JSON.
func tagCommand(opts TagOptions, ui UI) error {
	p, logger, err := newPipeline(opts.CommonOptions)
	if err != nil {
		return err
	}
	defer logger.Sync()

	docs, err := loadDocs(opts.DocPath, ui)
	if err != nil {
		return err
	}

	if err := tagDocs(p, docs, ui); err != nil {
		return err
	}

	if !opts.JSON {
		hdl := stat.NewHandler()
		for _, doc := range docs {
			hdl.Aggregate(doc)
		}
		return hdl.Get().Write(ui.Out)
	}

	rel, err := relation(p, opts.Relation)
	if err != nil {
		return err
	}

	jr := render.NewJSONRenderer(ui.Out)
	for _, cs := range tagger.Candidates(docs, rel) {
		if err := jr.Render(cs); err != nil {
			return err
		}
	}

	return nil
}
