package label

import (
	"errors"
	"fmt"
)

// Votes of a labeling function.
const (
	Reject  = -1
	Abstain = 0
	Accept  = 1
)

// LF is a labeling function: a named, pure, total function from a candidate
// to a vote.
type LF[T any] struct {
	Name string
	Fn   func(T) int
}

var ErrDuplicateLF = errors.New("duplicate labeling function")

// Registry is the ordered list of labeling functions of a run. The position
// of an LF in the registry is its column in the label matrices.
type Registry[T any] struct {
	lfs   []LF[T]
	names map[string]struct{}
}

func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{names: map[string]struct{}{}}
}

// Register appends an LF. Names must be unique.
func (r *Registry[T]) Register(name string, fn func(T) int) error {
	if _, ok := r.names[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateLF, name)
	}

	r.names[name] = struct{}{}
	r.lfs = append(r.lfs, LF[T]{Name: name, Fn: fn})
	return nil
}

// MustRegister is Register for static LF sets. It panics on duplicates.
func (r *Registry[T]) MustRegister(name string, fn func(T) int) *Registry[T] {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
	return r
}

// LFs returns the labeling functions in column order.
func (r *Registry[T]) LFs() []LF[T] {
	out := make([]LF[T], len(r.lfs))
	copy(out, r.lfs)
	return out
}

// Names returns the LF names in column order.
func (r *Registry[T]) Names() []string {
	names := make([]string, len(r.lfs))
	for i, lf := range r.lfs {
		names[i] = lf.Name
	}
	return names
}

func (r *Registry[T]) Len() int {
	return len(r.lfs)
}
