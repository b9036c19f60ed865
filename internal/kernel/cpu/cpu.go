// Package cpu implements the elementwise activation kernels in pure Go.
//
// One kernel set exists per numeric representation (Float32, Float64, Q7).
// A set is attached to a layer at construction and is the only place where
// arithmetic on tensor payloads happens.
package cpu

import (
	"errors"
	"fmt"

	"github.com/born-ml/microlayer/internal/parallel"
	"github.com/born-ml/microlayer/internal/tensor"
)

// Printf matches fmt.Printf and is used for diagnostic scalar printing.
type Printf = func(format string, args ...any) (int, error)

// Kernels is the full capability set of a CPU kernel implementation.
type Kernels interface {
	DType() tensor.DataType
	LeakyReLU(x *tensor.Tensor, alpha tensor.Scalar, result *tensor.Tensor) error
	LeakyReLUDerivative(x *tensor.Tensor, alpha tensor.Scalar, result *tensor.Tensor) error
	Sigmoid(x, result *tensor.Tensor) error
	SigmoidDerivative(s, result *tensor.Tensor) error
	Multiply(a, b, result *tensor.Tensor) error
	PrintScalar(s tensor.Scalar, print Printf)
}

// ErrUnsupportedDType is returned by New for data types without a kernel set.
var ErrUnsupportedDType = errors.New("cpu: unsupported dtype")

// New returns the kernel set for dtype.
func New(dtype tensor.DataType, cfg parallel.Config) (Kernels, error) {
	switch dtype {
	case tensor.Float32:
		return NewFloat32(cfg), nil
	case tensor.Float64:
		return NewFloat64(cfg), nil
	case tensor.Q7:
		return NewQ7(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDType, dtype)
	}
}

// Default returns the kernel set for dtype with parallel.DefaultConfig.
func Default(dtype tensor.DataType) (Kernels, error) {
	return New(dtype, parallel.DefaultConfig())
}

// negative is the single branch predicate of Leaky ReLU and its derivative.
// Zero is non-negative for both, so the forward value and the derivative
// always come from the same piece of the function.
func negative[T int | float32 | float64](v T) bool {
	return v < 0
}

// checkDType verifies that every tensor has the kernel's dtype.
func checkDType(dtype tensor.DataType, ts ...*tensor.Tensor) error {
	for i, t := range ts {
		if t.DType() != dtype {
			return fmt.Errorf("%w: tensor %d is %s, kernel is %s", tensor.ErrDTypeMismatch, i, t.DType(), dtype)
		}
	}
	return nil
}

// checkOperands runs dtype and extent checks before any write.
func checkOperands(dtype tensor.DataType, ts ...*tensor.Tensor) error {
	if err := checkDType(dtype, ts...); err != nil {
		return err
	}
	return tensor.SameExtent(ts...)
}
