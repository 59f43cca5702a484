package main

import (
	"github.com/revelaction/rwe/query"
	"github.com/revelaction/rwe/render"
	"github.com/revelaction/rwe/tokenize"
)

// Query command
func queryCommand(opts QueryOptions, ui UI) error {
	p, logger, err := newPipeline(opts.CommonOptions)
	if err != nil {
		return err
	}
	defer logger.Sync()

	r := render.NewRenderer()
	r.W = ui.Out
	r.HasColor = !opts.NoColor
	r.HasPrefix = !opts.NoPrefix
	r.Format = opts.Format

	// now present the REPL
	h := query.NewHandler(p, tokenize.New(), r)

	if opts.DocPath != "" {
		dr, err := loadDocStore(opts.DocPath, ui)
		if err != nil {
			return err
		}
		h.DocRepo = dr
	}

	return h.Run()
}
