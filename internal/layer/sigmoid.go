package layer

import (
	"fmt"

	"github.com/born-ml/microlayer/internal/arena"
	"github.com/born-ml/microlayer/internal/tensor"
)

// Sigmoid is the logistic activation layer: y = 1 / (1 + exp(-x)).
//
// The derivative is expressed through the sigmoid output, s * (1 - s). The
// only cached activation available during Backward is the predecessor's
// result, so Backward recomputes s into a scratch tensor taken from Scratch
// and releases it before returning. Nothing is kept between calls.
type Sigmoid struct {
	Node

	Kernels SigmoidKernels

	// Scratch supplies the per-call scratch tensor. Init installs an
	// arena.Heap when it is nil.
	Scratch arena.Allocator
}

// NewSigmoid creates a Sigmoid layer after input. scratch may be nil.
func NewSigmoid(input Layer, kernels SigmoidKernels, scratch arena.Allocator) (*Sigmoid, error) {
	l := &Sigmoid{Kernels: kernels, Scratch: scratch}
	if _, err := l.Init(input); err != nil {
		return nil, err
	}
	return l, nil
}

// Init links a caller-allocated layer to input and returns it as a graph handle.
func (l *Sigmoid) Init(input Layer) (Layer, error) {
	err := l.link(l, SigmoidType, input, func(dtype tensor.DataType) error {
		if l.Kernels != nil && l.Kernels.DType() != dtype {
			return fmt.Errorf("%w: kernels are %s, input is %s", ErrDTypeMismatch, l.Kernels.DType(), dtype)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if l.Scratch == nil {
		l.Scratch = arena.NewHeap()
	}
	return l, nil
}

// Base returns the node record.
func (l *Sigmoid) Base() *Node {
	if l == nil {
		return nil
	}
	return &l.Node
}

// ScratchSize returns the footprint of the predecessor's result, which is
// what one Backward call acquires.
func (l *Sigmoid) ScratchSize() int {
	if !l.Initialized() || l.input == nil {
		return 0
	}
	return l.input.Base().result.Footprint()
}

// Forward computes result = sigmoid(x_in).
func (l *Sigmoid) Forward() error {
	x, err := l.forwardOperands()
	if err != nil {
		return newError(SigmoidType, "forward", err)
	}
	if l.Kernels == nil {
		return newError(SigmoidType, "forward", fmt.Errorf("%w: sigmoid kernels are not set", ErrMissingCapability))
	}
	if err := l.Kernels.Sigmoid(x, l.result); err != nil {
		return newError(SigmoidType, "forward", err)
	}
	return nil
}

// Backward computes deltas = sigmoid'(sigmoid(x_in)) ⊙ successor deltas.
func (l *Sigmoid) Backward() error {
	x, succ, err := l.backwardOperands()
	if err != nil {
		return newError(SigmoidType, "backward", err)
	}
	if l.Kernels == nil {
		return newError(SigmoidType, "backward", fmt.Errorf("%w: sigmoid kernels are not set", ErrMissingCapability))
	}
	if l.Scratch == nil {
		return newError(SigmoidType, "backward", fmt.Errorf("%w: scratch allocator is not set", ErrMissingCapability))
	}

	scratch, release, err := acquireScratch(l.Scratch, x)
	if err != nil {
		return newError(SigmoidType, "backward", err)
	}
	defer release()

	if err := l.Kernels.Sigmoid(x, scratch); err != nil {
		return newError(SigmoidType, "backward", err)
	}
	if err := l.Kernels.SigmoidDerivative(scratch, scratch); err != nil {
		return newError(SigmoidType, "backward", err)
	}
	if err := l.Kernels.Multiply(scratch, succ, l.deltas); err != nil {
		return newError(SigmoidType, "backward", err)
	}
	return nil
}
