package storage

import (
	"errors"

	sent "github.com/revelaction/rwe/sentence"
)

var (
	ErrNotFound = errors.New("document not found")
	ErrReadOnly = errors.New("read-only storage")
)

// DocReader defines read operations for document storage
type DocReader interface {
	// List returns the names of the documents in corpus order.
	List() ([]string, error)

	// Read returns a document by name
	Read(name string) (*sent.Document, error)

	// Docs returns all documents in corpus order.
	Docs() ([]*sent.Document, error)
}

// DocWriter defines write operations for document storage
type DocWriter interface {
	// Write persists a document with its sentences and token attributes.
	Write(doc *sent.Document) error
}

// DocRepository combines read and write operations
type DocRepository interface {
	DocReader
	DocWriter
}

// Preloader defines an optional capability for repositories that require
// or support eager loading of data into memory.
type Preloader interface {
	LoadAll(cb func(total int, name string)) error
}
