package filesystem

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"

	sent "github.com/revelaction/rwe/sentence"
	"github.com/revelaction/rwe/storage"
)

// DocWriter writes documents as JSONL records.
type DocWriter struct {
	enc *json.Encoder
	bw  *bufio.Writer

	// closed in order after the flush
	closers []io.Closer
}

var _ storage.DocWriter = (*DocWriter)(nil)

func NewDocWriter(w io.Writer) *DocWriter {
	bw := bufio.NewWriter(w)
	return &DocWriter{enc: json.NewEncoder(bw), bw: bw}
}

// Create creates the corpus file path, gzipped when it ends in .gz.
func Create(path string) (*DocWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(path, ".gz") {
		w := NewDocWriter(f)
		w.closers = []io.Closer{f}
		return w, nil
	}

	gz := gzip.NewWriter(f)
	w := NewDocWriter(gz)
	w.closers = []io.Closer{gz, f}
	return w, nil
}

func (w *DocWriter) Write(doc *sent.Document) error {
	return w.enc.Encode(storage.NewDocRecord(doc))
}

// Close flushes the buffered records and closes the underlying file, if any.
func (w *DocWriter) Close() error {
	err := w.bw.Flush()
	for _, c := range w.closers {
		err = errors.Join(err, c.Close())
	}
	return err
}
