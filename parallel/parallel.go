// Package parallel partitions an ordered sequence into contiguous blocks and
// evaluates the blocks on a bounded number of goroutines, keeping the results
// in block order.
package parallel

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

const (
	// AutoBlockSize sizes the blocks so that every worker gets one.
	AutoBlockSize = 0

	// GroupBlocks makes every input group its own block.
	GroupBlocks = -1
)

var ErrBlockSize = errors.New("invalid block size")

// Block is the half-open range [Start, End) of the flattened sequence.
type Block struct {
	Start int
	End   int
}

func (b Block) Len() int {
	return b.End - b.Start
}

// Workers returns n, or the number of usable CPUs when n < 1.
func Workers(n int) int {
	if n < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// AutoSize is ceil(total / workers), at least 1.
func AutoSize(total, workers int) int {
	workers = Workers(workers)
	return max((total+workers-1)/workers, 1)
}

// Blocks cuts [0, total) into contiguous blocks of size items. The last block
// can be shorter.
func Blocks(total, size int) []Block {
	if size < 1 {
		size = 1
	}

	var blocks []Block
	for start := 0; start < total; start += size {
		blocks = append(blocks, Block{Start: start, End: min(start+size, total)})
	}
	return blocks
}

// Partition returns the blocks of the flattened groups of the given lengths.
// blockSize is a positive number of items, AutoBlockSize or GroupBlocks.
// Empty groups never produce a block.
func Partition(lengths []int, blockSize, workers int) ([]Block, error) {
	total := 0
	for _, n := range lengths {
		total += n
	}

	switch {
	case blockSize == GroupBlocks:
		var blocks []Block
		start := 0
		for _, n := range lengths {
			if n > 0 {
				blocks = append(blocks, Block{Start: start, End: start + n})
			}
			start += n
		}
		return blocks, nil

	case blockSize == AutoBlockSize:
		return Blocks(total, AutoSize(total, workers)), nil

	case blockSize > 0:
		return Blocks(total, blockSize), nil
	}

	return nil, fmt.Errorf("%w: %d", ErrBlockSize, blockSize)
}

// Map calls fn for every block of items on at most workers goroutines and
// returns the results in block order. The first error is returned once every
// started call has finished; no results are returned then.
func Map[T, R any](items []T, blocks []Block, workers int, fn func(i int, block []T) (R, error)) ([]R, error) {
	out := make([]R, len(blocks))

	var g errgroup.Group
	g.SetLimit(Workers(workers))

	for i, b := range blocks {
		g.Go(func() error {
			r, err := fn(i, items[b.Start:b.End])
			if err != nil {
				return err
			}

			// each call owns its slot
			out[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// Flatten concatenates groups and returns their lengths.
func Flatten[T any](groups [][]T) ([]T, []int) {
	lengths := make([]int, len(groups))
	total := 0
	for i, g := range groups {
		lengths[i] = len(g)
		total += len(g)
	}

	flat := make([]T, 0, total)
	for _, g := range groups {
		flat = append(flat, g...)
	}

	return flat, lengths
}
