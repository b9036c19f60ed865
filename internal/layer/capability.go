package layer

import "github.com/born-ml/microlayer/internal/tensor"

// Multiplier multiplies two tensors element wise: result = a ⊙ b.
// result may alias a or b.
type Multiplier interface {
	Multiply(a, b, result *tensor.Tensor) error
}

// LeakyReLUKernels is the math a LeakyReLU layer needs from one numeric
// representation.
//
//	LeakyReLU:           result_i = alpha * x_i if x_i < 0, x_i otherwise
//	LeakyReLUDerivative: result_i = alpha     if x_i < 0, 1   otherwise
//
// Both must put x_i = 0 on the non-negative branch.
type LeakyReLUKernels interface {
	DType() tensor.DataType
	LeakyReLU(x *tensor.Tensor, alpha tensor.Scalar, result *tensor.Tensor) error
	LeakyReLUDerivative(x *tensor.Tensor, alpha tensor.Scalar, result *tensor.Tensor) error
	Multiplier
}

// SigmoidKernels is the math a Sigmoid layer needs from one numeric
// representation.
//
//	Sigmoid:           result_i = 1 / (1 + exp(-x_i))
//	SigmoidDerivative: result_i = s_i * (1 - s_i), s being a sigmoid output
type SigmoidKernels interface {
	DType() tensor.DataType
	Sigmoid(x, result *tensor.Tensor) error
	SigmoidDerivative(s, result *tensor.Tensor) error
	Multiplier
}

// ScalarPrinter is an optional kernel capability used by debug layer printing.
type ScalarPrinter interface {
	PrintScalar(s tensor.Scalar, print Printf)
}
