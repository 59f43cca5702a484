package main

import (
	"github.com/revelaction/rwe/render"
	sent "github.com/revelaction/rwe/sentence"
)

// docCommand renders the document name. With a config the document is
// tagged first and its mentions are colored.
func docCommand(opts DocOptions, name string, ui UI) error {
	h, err := loadDocStore(opts.DocPath, ui)
	if err != nil {
		return err
	}

	doc, err := h.Read(name)
	if err != nil {
		return err
	}

	if opts.ConfigPath != "" {
		p, _, err := newPipeline(opts.CommonOptions)
		if err != nil {
			return err
		}
		if err := p.Tag([][]*sent.Document{{doc}}, nil); err != nil {
			return err
		}
	}

	r := render.NewRenderer()
	r.W = ui.Out
	r.HasColor = !opts.NoColor
	r.HasPrefix = !opts.NoPrefix
	r.Format = opts.Format

	r.Document(doc)
	return nil
}
