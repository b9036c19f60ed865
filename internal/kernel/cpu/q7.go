package cpu

import (
	"fmt"

	"github.com/born-ml/microlayer/internal/parallel"
	"github.com/born-ml/microlayer/internal/tensor"
)

// Output quantization of the Q7 kernels whose value range is known.
const (
	sigmoidShift     = 8 // [0, 1) with zero point -128
	sigmoidZeroPoint = -128

	dSigmoidShift     = 10 // [0, 0.25] with zero point -128
	dSigmoidZeroPoint = -128

	dLeakyShift = 6 // {alpha, 1}, zero point 0
)

// Q7 is the kernel set for 8-bit affine quantized tensors.
//
// Every kernel reads the input parameters before writing the result
// parameters, so result may alias an input.
type Q7 struct {
	cfg parallel.Config
}

// NewQ7 creates the q7 kernel set.
func NewQ7(cfg parallel.Config) *Q7 {
	return &Q7{cfg: cfg}
}

// DType returns tensor.Q7.
func (k *Q7) DType() tensor.DataType {
	return tensor.Q7
}

func q7Alpha(alpha tensor.Scalar) (float64, error) {
	if alpha == nil {
		return 0, fmt.Errorf("%w: nil scalar", tensor.ErrDTypeMismatch)
	}
	if alpha.DType() != tensor.Q7 {
		return 0, fmt.Errorf("%w: scalar is %s, kernel is q7", tensor.ErrDTypeMismatch, alpha.DType())
	}
	return alpha.Float64(), nil
}

// LeakyReLU keeps the input quantization; negative values are scaled by alpha.
func (k *Q7) LeakyReLU(x *tensor.Tensor, alpha tensor.Scalar, result *tensor.Tensor) error {
	if err := checkOperands(tensor.Q7, x, result); err != nil {
		return fmt.Errorf("leaky relu: %w", err)
	}
	a, err := q7Alpha(alpha)
	if err != nil {
		return fmt.Errorf("leaky relu: %w", err)
	}

	shift, zp := x.Q7Params()
	result.SetQ7Params(shift, zp)

	src, dst := x.Q7s(), result.Q7s()
	parallel.ForRange(len(src), func(start, end int) {
		for i := start; i < end; i++ {
			centered := int(src[i]) - int(zp)
			if negative(centered) {
				dst[i] = tensor.Quantize(a*tensor.Dequantize(src[i], shift, zp), shift, zp)
			} else {
				dst[i] = src[i]
			}
		}
	}, k.cfg)
	return nil
}

// LeakyReLUDerivative writes alpha or 1 at shift 6, zero point 0.
func (k *Q7) LeakyReLUDerivative(x *tensor.Tensor, alpha tensor.Scalar, result *tensor.Tensor) error {
	if err := checkOperands(tensor.Q7, x, result); err != nil {
		return fmt.Errorf("leaky relu derivative: %w", err)
	}
	a, err := q7Alpha(alpha)
	if err != nil {
		return fmt.Errorf("leaky relu derivative: %w", err)
	}

	_, zp := x.Q7Params()
	qAlpha := tensor.Quantize(a, dLeakyShift, 0)
	qOne := tensor.Quantize(1, dLeakyShift, 0)
	src, dst := x.Q7s(), result.Q7s()
	result.SetQ7Params(dLeakyShift, 0)

	parallel.ForRange(len(src), func(start, end int) {
		for i := start; i < end; i++ {
			if negative(int(src[i]) - int(zp)) {
				dst[i] = qAlpha
			} else {
				dst[i] = qOne
			}
		}
	}, k.cfg)
	return nil
}

// Sigmoid writes 1 / (1 + exp(-x)) at shift 8, zero point -128.
func (k *Q7) Sigmoid(x, result *tensor.Tensor) error {
	if err := checkOperands(tensor.Q7, x, result); err != nil {
		return fmt.Errorf("sigmoid: %w", err)
	}

	shift, zp := x.Q7Params()
	src, dst := x.Q7s(), result.Q7s()
	result.SetQ7Params(sigmoidShift, sigmoidZeroPoint)

	parallel.ForRange(len(src), func(start, end int) {
		for i := start; i < end; i++ {
			s := sigmoid(tensor.Dequantize(src[i], shift, zp))
			dst[i] = tensor.Quantize(s, sigmoidShift, sigmoidZeroPoint)
		}
	}, k.cfg)
	return nil
}

// SigmoidDerivative writes s * (1 - s) at shift 10, zero point -128.
func (k *Q7) SigmoidDerivative(s, result *tensor.Tensor) error {
	if err := checkOperands(tensor.Q7, s, result); err != nil {
		return fmt.Errorf("sigmoid derivative: %w", err)
	}

	shift, zp := s.Q7Params()
	src, dst := s.Q7s(), result.Q7s()
	result.SetQ7Params(dSigmoidShift, dSigmoidZeroPoint)

	parallel.ForRange(len(src), func(start, end int) {
		for i := start; i < end; i++ {
			v := tensor.Dequantize(src[i], shift, zp)
			dst[i] = tensor.Quantize(v*(1-v), dSigmoidShift, dSigmoidZeroPoint)
		}
	}, k.cfg)
	return nil
}

// Multiply computes result = a ⊙ b. The result shift is the largest one at
// which every product fits, with zero point 0.
func (k *Q7) Multiply(a, b, result *tensor.Tensor) error {
	if err := checkOperands(tensor.Q7, a, b, result); err != nil {
		return fmt.Errorf("multiply: %w", err)
	}

	sa, za := a.Q7Params()
	sb, zb := b.Q7Params()
	lhs, rhs, dst := a.Q7s(), b.Q7s(), result.Q7s()

	product := func(i int) float64 {
		return tensor.Dequantize(lhs[i], sa, za) * tensor.Dequantize(rhs[i], sb, zb)
	}

	maxAbs := 0.0
	for i := range dst {
		p := product(i)
		if p < 0 {
			p = -p
		}
		maxAbs = max(maxAbs, p)
	}
	shift := tensor.ShiftFor(maxAbs)
	result.SetQ7Params(shift, 0)

	parallel.ForRange(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = tensor.Quantize(product(i), shift, 0)
		}
	}, k.cfg)
	return nil
}

// PrintScalar prints the dequantized value and its raw q7 representation.
func (k *Q7) PrintScalar(s tensor.Scalar, print Printf) {
	if q, ok := s.(tensor.Q7Scalar); ok {
		_, _ = print("%g (q7 %d, shift %d, zero point %d)", q.Float64(), q.Value, q.Shift, q.ZeroPoint)
		return
	}
	_, _ = print("%g", s.Float64())
}
