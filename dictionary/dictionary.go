package dictionary

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Dictionary is the term lookup capability consumed by matchers and
// labeling functions. How the terms were gathered is not its concern.
type Dictionary interface {
	Contains(term string) bool
}

// Set is a Dictionary backed by a set of normalized terms.
type Set map[string]struct{}

var _ Dictionary = Set(nil)

// NewSet returns a Set of the given terms, as is.
func NewSet(terms ...string) Set {
	s := make(Set, len(terms))
	for _, t := range terms {
		s[t] = struct{}{}
	}
	return s
}

func (s Set) Contains(term string) bool {
	_, ok := s[term]
	return ok
}

// Add inserts the terms.
func (s Set) Add(terms ...string) {
	for _, t := range terms {
		s[t] = struct{}{}
	}
}

// Terms returns the terms in no particular order.
func (s Set) Terms() []string {
	terms := make([]string, 0, len(s))
	for t := range s {
		terms = append(terms, t)
	}
	return terms
}

type loadOptions struct {
	ignoreCase bool
	stopwords  Set
	minLength  int
}

// LoadOption configures Load and Read.
type LoadOption func(*loadOptions)

// WithIgnoreCase lower-cases every term.
func WithIgnoreCase() LoadOption {
	return func(o *loadOptions) {
		o.ignoreCase = true
	}
}

// WithStopwords drops the given terms.
func WithStopwords(stopwords Set) LoadOption {
	return func(o *loadOptions) {
		o.stopwords = stopwords
	}
}

// WithMinLength drops terms shorter than n characters.
func WithMinLength(n int) LoadOption {
	return func(o *loadOptions) {
		o.minLength = n
	}
}

// Load reads a dictionary file with one term per line. Files ending in .gz,
// .bz2 or .xz are decompressed.
func Load(path string, opts ...LoadOption) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	switch filepath.Ext(path) {
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("dictionary %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	case ".bz2":
		r = bzip2.NewReader(f)
	case ".xz":
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("dictionary %s: %w", path, err)
		}
		r = xr
	}

	s, err := Read(r, opts...)
	if err != nil {
		return nil, fmt.Errorf("dictionary %s: %w", path, err)
	}

	return s, nil
}

// Read reads one term per line. Terms are trimmed and NFKC normalized;
// blank lines and stopwords are dropped.
func Read(r io.Reader, opts ...LoadOption) (Set, error) {
	o := loadOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	lower := cases.Lower(language.Und)

	s := Set{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		t := Normalize(sc.Text())
		if o.ignoreCase {
			t = lower.String(t)
		}

		if t == "" || len([]rune(t)) < o.minLength {
			continue
		}

		if o.stopwords.Contains(t) || o.stopwords.Contains(lower.String(t)) {
			continue
		}

		s[t] = struct{}{}
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	return s, nil
}

// Normalize applies NFKC and trims surrounding whitespace.
func Normalize(t string) string {
	return strings.TrimSpace(norm.NFKC.String(t))
}
