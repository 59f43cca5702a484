package tokenize

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrHeader = errors.New("notes header must have DOC_NAME and TEXT columns")

// Note is one clinical note of a notes TSV file.
type Note struct {
	Name string
	Text string
}

var unescape = strings.NewReplacer(`\n`, "\n", `\t`, "\t", `\r`, "\r")

// ReadNotes streams the notes of a tab separated file with a header holding
// the DOC_NAME and TEXT columns. Literal \n, \t and \r escapes in the text
// are expanded. Notes with a blank text are skipped and counted.
func ReadNotes(r io.Reader, fn func(Note) error) (skipped int, err error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("notes header: %w", err)
	}

	nameCol, textCol := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case "DOC_NAME":
			nameCol = i
		case "TEXT":
			textCol = i
		}
	}
	if nameCol < 0 || textCol < 0 {
		return 0, ErrHeader
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return skipped, nil
		}
		if err != nil {
			return skipped, err
		}

		if len(rec) <= max(nameCol, textCol) {
			line, _ := cr.FieldPos(0)
			return skipped, fmt.Errorf("notes line %d: %d columns", line, len(rec))
		}

		text := unescape.Replace(rec[textCol])
		if strings.TrimSpace(text) == "" {
			skipped++
			continue
		}

		if err := fn(Note{Name: rec[nameCol], Text: text}); err != nil {
			return skipped, err
		}
	}
}
