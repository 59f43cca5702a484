package main

import (
	"fmt"
)

// lsLabelsCommand prints the labeling function names, one per line, prefixed
// by their matrix column.
func lsLabelsCommand(opts CommonOptions, ui UI) error {
	p, _, err := newPipeline(opts)
	if err != nil {
		return err
	}

	for j, name := range p.LFs.Names() {
		fmt.Fprintf(ui.Out, "%3d %s\n", j, name)
	}

	return nil
}
