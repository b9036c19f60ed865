package layer

import (
	"fmt"

	"github.com/born-ml/microlayer/internal/tensor"
)

// LeakyReLU is the Leaky ReLU activation layer.
//
//	y = alpha * x   if x < 0
//	y = x           if x >= 0
//
// Alpha and Kernels are configured before Init. Alpha is read-only and owned
// by the caller; its dtype must match the input's.
type LeakyReLU struct {
	Node

	Alpha   tensor.Scalar
	Kernels LeakyReLUKernels
}

// NewLeakyReLU creates a Leaky ReLU layer after input.
func NewLeakyReLU(input Layer, alpha tensor.Scalar, kernels LeakyReLUKernels) (*LeakyReLU, error) {
	l := &LeakyReLU{Alpha: alpha, Kernels: kernels}
	if _, err := l.Init(input); err != nil {
		return nil, err
	}
	return l, nil
}

// Init links a caller-allocated layer to input and returns it as a graph handle.
func (l *LeakyReLU) Init(input Layer) (Layer, error) {
	err := l.link(l, LeakyReLUType, input, func(dtype tensor.DataType) error {
		if l.Kernels != nil && l.Kernels.DType() != dtype {
			return fmt.Errorf("%w: kernels are %s, input is %s", ErrDTypeMismatch, l.Kernels.DType(), dtype)
		}
		if l.Alpha != nil && l.Alpha.DType() != dtype {
			return fmt.Errorf("%w: alpha is %s, input is %s", ErrDTypeMismatch, l.Alpha.DType(), dtype)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Base returns the node record.
func (l *LeakyReLU) Base() *Node {
	if l == nil {
		return nil
	}
	return &l.Node
}

func (l *LeakyReLU) capabilities() error {
	if l.Kernels == nil {
		return fmt.Errorf("%w: leaky relu kernels are not set", ErrMissingCapability)
	}
	if l.Alpha == nil {
		return fmt.Errorf("%w: alpha is not set", ErrMissingCapability)
	}
	return nil
}

// Forward computes result = LeakyReLU(x_in).
func (l *LeakyReLU) Forward() error {
	x, err := l.forwardOperands()
	if err != nil {
		return newError(LeakyReLUType, "forward", err)
	}
	if err := l.capabilities(); err != nil {
		return newError(LeakyReLUType, "forward", err)
	}
	if err := l.Kernels.LeakyReLU(x, l.Alpha, l.result); err != nil {
		return newError(LeakyReLUType, "forward", err)
	}
	return nil
}

// Backward computes deltas = LeakyReLU'(x_in) ⊙ successor deltas.
//
// The derivative is written into the deltas slot first and multiplied in
// place; it depends only on x_in, so the slot's previous contents are never read.
func (l *LeakyReLU) Backward() error {
	x, succ, err := l.backwardOperands()
	if err != nil {
		return newError(LeakyReLUType, "backward", err)
	}
	if err := l.capabilities(); err != nil {
		return newError(LeakyReLUType, "backward", err)
	}
	if err := l.Kernels.LeakyReLUDerivative(x, l.Alpha, l.deltas); err != nil {
		return newError(LeakyReLUType, "backward", err)
	}
	if err := l.Kernels.Multiply(l.deltas, succ, l.deltas); err != nil {
		return newError(LeakyReLUType, "backward", err)
	}
	return nil
}
