package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/microlayer/internal/parallel"
	"github.com/born-ml/microlayer/internal/tensor"
)

// Float is the kernel set for a float representation.
type Float[T float32 | float64] struct {
	dtype tensor.DataType
	cfg   parallel.Config
}

// Float32 is the float32 kernel set.
type Float32 = Float[float32]

// Float64 is the float64 kernel set.
type Float64 = Float[float64]

// NewFloat32 creates the float32 kernel set.
func NewFloat32(cfg parallel.Config) *Float32 {
	return &Float32{dtype: tensor.Float32, cfg: cfg}
}

// NewFloat64 creates the float64 kernel set.
func NewFloat64(cfg parallel.Config) *Float64 {
	return &Float64{dtype: tensor.Float64, cfg: cfg}
}

// DType returns the representation this kernel set works on.
func (k *Float[T]) DType() tensor.DataType {
	return k.dtype
}

func values[T float32 | float64](t *tensor.Tensor) []T {
	var zero T
	switch any(zero).(type) {
	case float32:
		return any(t.Float32s()).([]T)
	default:
		return any(t.Float64s()).([]T)
	}
}

func (k *Float[T]) scalar(s tensor.Scalar) (T, error) {
	if s == nil {
		return 0, fmt.Errorf("%w: nil scalar", tensor.ErrDTypeMismatch)
	}
	if s.DType() != k.dtype {
		return 0, fmt.Errorf("%w: scalar is %s, kernel is %s", tensor.ErrDTypeMismatch, s.DType(), k.dtype)
	}
	return T(s.Float64()), nil
}

// LeakyReLU computes result = alpha*x for x < 0, x otherwise.
func (k *Float[T]) LeakyReLU(x *tensor.Tensor, alpha tensor.Scalar, result *tensor.Tensor) error {
	if err := checkOperands(k.dtype, x, result); err != nil {
		return fmt.Errorf("leaky relu: %w", err)
	}
	a, err := k.scalar(alpha)
	if err != nil {
		return fmt.Errorf("leaky relu: %w", err)
	}

	src, dst := values[T](x), values[T](result)
	parallel.ForRange(len(src), func(start, end int) {
		for i := start; i < end; i++ {
			if v := src[i]; negative(v) {
				dst[i] = a * v
			} else {
				dst[i] = v
			}
		}
	}, k.cfg)
	return nil
}

// LeakyReLUDerivative computes result = alpha for x < 0, 1 otherwise.
func (k *Float[T]) LeakyReLUDerivative(x *tensor.Tensor, alpha tensor.Scalar, result *tensor.Tensor) error {
	if err := checkOperands(k.dtype, x, result); err != nil {
		return fmt.Errorf("leaky relu derivative: %w", err)
	}
	a, err := k.scalar(alpha)
	if err != nil {
		return fmt.Errorf("leaky relu derivative: %w", err)
	}

	src, dst := values[T](x), values[T](result)
	parallel.ForRange(len(src), func(start, end int) {
		for i := start; i < end; i++ {
			if negative(src[i]) {
				dst[i] = a
			} else {
				dst[i] = 1
			}
		}
	}, k.cfg)
	return nil
}

// Sigmoid computes result = 1 / (1 + exp(-x)).
func (k *Float[T]) Sigmoid(x, result *tensor.Tensor) error {
	if err := checkOperands(k.dtype, x, result); err != nil {
		return fmt.Errorf("sigmoid: %w", err)
	}

	src, dst := values[T](x), values[T](result)
	parallel.ForRange(len(src), func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = T(sigmoid(float64(src[i])))
		}
	}, k.cfg)
	return nil
}

// SigmoidDerivative computes result = s * (1 - s) where s is a sigmoid output.
func (k *Float[T]) SigmoidDerivative(s, result *tensor.Tensor) error {
	if err := checkOperands(k.dtype, s, result); err != nil {
		return fmt.Errorf("sigmoid derivative: %w", err)
	}

	src, dst := values[T](s), values[T](result)
	parallel.ForRange(len(src), func(start, end int) {
		for i := start; i < end; i++ {
			v := src[i]
			dst[i] = v * (1 - v)
		}
	}, k.cfg)
	return nil
}

// Multiply computes result = a ⊙ b. result may alias a or b.
func (k *Float[T]) Multiply(a, b, result *tensor.Tensor) error {
	if err := checkOperands(k.dtype, a, b, result); err != nil {
		return fmt.Errorf("multiply: %w", err)
	}

	lhs, rhs, dst := values[T](a), values[T](b), values[T](result)
	parallel.ForRange(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = lhs[i] * rhs[i]
		}
	}, k.cfg)
	return nil
}

// PrintScalar prints a float scalar.
func (k *Float[T]) PrintScalar(s tensor.Scalar, print Printf) {
	_, _ = print("%g", s.Float64())
}

// sigmoid is split by sign so exp never overflows.
func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}
