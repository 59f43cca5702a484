package main

import (
	"fmt"
)

func lsDocCommand(path string, ui UI) error {
	h, err := loadDocStore(path, ui)
	if err != nil {
		return err
	}

	names, err := h.List()
	if err != nil {
		return err
	}

	for _, name := range names {
		fmt.Fprintf(ui.Out, "📖 %s\n", name)
	}

	return nil
}
