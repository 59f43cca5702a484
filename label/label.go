// Package label applies an ordered set of labeling functions to candidate
// groups and builds one sparse label matrix per group.
//
// The groups are flattened and cut into contiguous blocks. Blocks are
// labeled concurrently, stacked back in block order and split again by group
// lengths, so the result never depends on the block size or the number of
// workers.
package label

import (
	"errors"
	"fmt"
	"time"

	"github.com/revelaction/rwe/parallel"
	"go.uber.org/zap"
)

// ErrLabelingFunction is returned when a labeling function panics.
var ErrLabelingFunction = errors.New("labeling function failed")

// Server labels candidate groups with a bounded number of workers.
type Server struct {
	workers int
	logger  *zap.Logger
	metrics *Metrics
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

func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

func NewServer(opts ...Option) *Server {
	s := &Server{logger: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	s.workers = parallel.Workers(s.workers)
	return s
}

// Workers is the number of concurrent blocks.
func (s *Server) Workers() int {
	return s.workers
}

// Apply labels every candidate of groups with lfs and returns one matrix per
// group: row i of matrix g holds the votes for groups[g][i], column j the
// vote of lfs[j].
//
// blockSize is a number of candidates, parallel.AutoBlockSize or
// parallel.GroupBlocks. A panic in a labeling function aborts the run with
// ErrLabelingFunction and no matrix is returned.
func Apply[T any](s *Server, lfs []LF[T], groups [][]T, blockSize int) ([]*Matrix, error) {
	flat, lengths := parallel.Flatten(groups)

	blocks, err := parallel.Partition(lengths, blockSize, s.workers)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(lfs))
	for j, lf := range lfs {
		names[j] = lf.Name
	}

	s.logger.Info("labeling",
		zap.Int("groups", len(groups)),
		zap.Int("candidates", len(flat)),
		zap.Int("lfs", len(lfs)),
		zap.Int("blocks", len(blocks)),
		zap.Int("workers", s.workers))

	mats, err := parallel.Map(flat, blocks, s.workers, func(i int, block []T) (*Matrix, error) {
		start := time.Now()
		m, err := labelBlock(lfs, block)
		if err != nil {
			return nil, err
		}

		elapsed := time.Since(start)
		s.metrics.observeBlock(names, m, elapsed.Seconds())
		s.logger.Debug("labeled block",
			zap.Int("block", i),
			zap.Int("rows", m.rows),
			zap.Int("nnz", m.NNZ()),
			zap.Duration("elapsed", elapsed))

		return m, nil
	})
	if err != nil {
		return nil, err
	}

	full := Zeros(0, len(lfs))
	if len(mats) > 0 {
		full, err = VStack(mats...)
		if err != nil {
			return nil, err
		}
	}

	out := make([]*Matrix, len(lengths))
	start := 0
	for g, n := range lengths {
		out[g] = full.Rows(start, start+n)
		start += n
	}

	return out, nil
}

// Sequential labels the candidates of one group on the calling goroutine.
func Sequential[T any](lfs []LF[T], candidates []T) (*Matrix, error) {
	return labelBlock(lfs, candidates)
}

func labelBlock[T any](lfs []LF[T], block []T) (*Matrix, error) {
	dense := make([][]int, len(block))
	for i, c := range block {
		row := make([]int, len(lfs))
		for j, lf := range lfs {
			v, err := call(lf, c)
			if err != nil {
				return nil, err
			}
			row[j] = v
		}
		dense[i] = row
	}

	return FromDense(dense, len(lfs))
}

func call[T any](lf LF[T], c T) (v int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrLabelingFunction, lf.Name, r)
		}
	}()

	return lf.Fn(c), nil
}
