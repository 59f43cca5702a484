package filesystem

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	sent "github.com/revelaction/rwe/sentence"
	"github.com/revelaction/rwe/storage"
)

// corpus file suffixes, plain or gzipped JSONL
var suffixes = []string{".jsonl", ".json", ".jsonl.gz", ".json.gz"}

type DocStore struct {
	files []string

	// In-memory cache
	docs  []*sent.Document
	index map[string]int
}

var (
	_ storage.DocReader = (*DocStore)(nil)
	_ storage.Preloader = (*DocStore)(nil)
)

// NewDocStore creates a filesystem document store over a corpus file or a
// directory of corpus files.
func NewDocStore(path string) (*DocStore, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return &DocStore{files: []string{path}}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && IsCorpusFile(e.Name()) {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no corpus files in %s", path)
	}

	return &DocStore{files: files}, nil
}

// IsCorpusFile reports whether name has a corpus file suffix.
func IsCorpusFile(name string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// LoadAll preloads all docs into memory.
// The callback is called for each file loaded (total, current_name).
func (h *DocStore) LoadAll(cb func(total int, name string)) error {
	if h.docs != nil {
		return nil
	}

	docs := []*sent.Document{}
	index := map[string]int{}

	total := len(h.files)
	for _, path := range h.files {
		if cb != nil {
			cb(total, filepath.Base(path))
		}

		err := ReadFile(path, func(doc *sent.Document) error {
			if _, ok := index[doc.Name]; ok {
				return fmt.Errorf("duplicate doc name %q", doc.Name)
			}
			index[doc.Name] = len(docs)
			docs = append(docs, doc)
			return nil
		})
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	h.docs = docs
	h.index = index
	return nil
}

func (h *DocStore) List() ([]string, error) {
	if err := h.LoadAll(nil); err != nil {
		return nil, err
	}

	names := make([]string, len(h.docs))
	for i, doc := range h.docs {
		names[i] = doc.Name
	}
	return names, nil
}

func (h *DocStore) Read(name string) (*sent.Document, error) {
	if err := h.LoadAll(nil); err != nil {
		return nil, err
	}

	i, ok := h.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, name)
	}
	return h.docs[i], nil
}

func (h *DocStore) Docs() ([]*sent.Document, error) {
	if err := h.LoadAll(nil); err != nil {
		return nil, err
	}
	return h.docs, nil
}

// ReadFile streams the documents of a corpus file to fn. Files ending in
// .gz are gunzipped.
func ReadFile(path string, fn func(*sent.Document) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return err
		}
		defer gz.Close()
		r = gz
	}

	return Read(r, fn)
}

// Read streams the JSONL documents of r to fn.
func Read(r io.Reader, fn func(*sent.Document) error) error {
	dec := json.NewDecoder(r)
	for n := 1; dec.More(); n++ {
		var rec storage.DocRecord
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("record %d: JSON decoding error: %w", n, err)
		}

		doc, err := rec.Document()
		if err != nil {
			return fmt.Errorf("record %d: %w", n, err)
		}

		if err := fn(doc); err != nil {
			return err
		}
	}
	return nil
}
