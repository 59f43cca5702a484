package tagger

import (
	"fmt"

	"github.com/revelaction/rwe/parallel"
	sent "github.com/revelaction/rwe/sentence"
	"go.uber.org/zap"
)

// Server runs an ordered tagger list over document groups. Every document
// goes to exactly one worker.
type Server struct {
	taggers  []Tagger
	workers  int
	logger   *zap.Logger
	progress func(n int)
}

type Option func(*Server)

// WithWorkers sets the number of concurrent blocks. Values < 1 use the
// number of CPUs.
func WithWorkers(n int) Option {
	return func(s *Server) {
		s.workers = n
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithProgress sets a function called with the number of documents of every
// tagged block. It is called from the workers.
func WithProgress(fn func(n int)) Option {
	return func(s *Server) {
		s.progress = fn
	}
}

func NewServer(taggers []Tagger, opts ...Option) *Server {
	s := &Server{taggers: taggers, logger: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	s.workers = parallel.Workers(s.workers)
	return s
}

// Tag runs the taggers over one document.
func (s *Server) Tag(doc *sent.Document) error {
	for _, t := range s.taggers {
		if err := t.Tag(doc); err != nil {
			return fmt.Errorf("tagger %T: %w", t, err)
		}
	}
	return nil
}

// Apply tags the documents of groups in blocks of blockSize documents
// (parallel.AutoBlockSize, parallel.GroupBlocks or a number) and returns the
// groups, in order. Documents are tagged in place.
func (s *Server) Apply(groups [][]*sent.Document, blockSize int) ([][]*sent.Document, error) {
	flat, lengths := parallel.Flatten(groups)

	blocks, err := parallel.Partition(lengths, blockSize, s.workers)
	if err != nil {
		return nil, err
	}

	s.logger.Info("tagging",
		zap.Int("docs", len(flat)),
		zap.Int("taggers", len(s.taggers)),
		zap.Int("blocks", len(blocks)),
		zap.Int("workers", s.workers))

	_, err = parallel.Map(flat, blocks, s.workers, func(i int, block []*sent.Document) (struct{}, error) {
		for _, doc := range block {
			if err := s.Tag(doc); err != nil {
				return struct{}{}, fmt.Errorf("doc %s: %w", doc.Name, err)
			}
		}

		s.logger.Debug("tagged block", zap.Int("block", i), zap.Int("docs", len(block)))
		if s.progress != nil {
			s.progress(len(block))
		}
		return struct{}{}, nil
	})
	if err != nil {
		return nil, err
	}

	out := make([][]*sent.Document, len(lengths))
	start := 0
	for g, n := range lengths {
		out[g] = flat[start : start+n : start+n]
		start += n
	}

	return out, nil
}
