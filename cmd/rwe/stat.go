package main

import (
	sent "github.com/revelaction/rwe/sentence"
	"github.com/revelaction/rwe/stat"
)

// statCommand prints the statistics of the corpus, or of the document name
// when not empty. Layer counts are only present with a config.
func statCommand(opts StatOptions, name string, ui UI) error {
	h, err := loadDocStore(opts.DocPath, ui)
	if err != nil {
		return err
	}

	var docs []*sent.Document
	if name != "" {
		doc, err := h.Read(name)
		if err != nil {
			return err
		}
		docs = []*sent.Document{doc}
	} else {
		if docs, err = h.Docs(); err != nil {
			return err
		}
	}

	if opts.ConfigPath != "" {
		p, _, err := newPipeline(opts.CommonOptions)
		if err != nil {
			return err
		}
		if err := p.Tag([][]*sent.Document{docs}, nil); err != nil {
			return err
		}
	}

	hdl := stat.NewHandler()
	for _, doc := range docs {
		hdl.Aggregate(doc)
	}

	return hdl.Get().Write(ui.Out)
}
