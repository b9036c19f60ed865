package tensor

import (
	"fmt"
	"sync/atomic"
)

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ShapeRef is a shape shared by reference between tensors.
//
// Exactly one tensor owns a ShapeRef and may change it; every other holder is
// an alias that observes the owner's changes. Holders are counted so tests and
// planners can see who still refers to a shape.
type ShapeRef struct {
	dims Shape
	refs atomic.Int32
}

// NewShapeRef creates a shape handle with one holder.
func NewShapeRef(dims ...int) (*ShapeRef, error) {
	s := Shape(dims)
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	ref := &ShapeRef{dims: s.Clone()}
	ref.refs.Store(1)
	return ref, nil
}

// Dims returns the current dimensions. The slice must be treated as read-only.
func (r *ShapeRef) Dims() Shape {
	return r.dims
}

// Rank returns the number of dimensions.
func (r *ShapeRef) Rank() int {
	return len(r.dims)
}

// NumElements returns the element count of the current dimensions.
func (r *ShapeRef) NumElements() int {
	return r.dims.NumElements()
}

// Share registers one more holder and returns the same handle.
func (r *ShapeRef) Share() *ShapeRef {
	r.refs.Add(1)
	return r
}

// Release drops one holder.
func (r *ShapeRef) Release() {
	if r.refs.Add(-1) < 0 {
		panic("tensor: ShapeRef released more times than shared")
	}
}

// Refs returns the number of current holders.
func (r *ShapeRef) Refs() int {
	return int(r.refs.Load())
}

// set replaces the dimensions in place. Only the owning tensor calls it.
func (r *ShapeRef) set(dims Shape) {
	copy(r.dims, dims)
}

func (r *ShapeRef) String() string {
	return fmt.Sprint([]int(r.dims))
}
