package cpu

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/born-ml/microlayer/internal/parallel"
	"github.com/born-ml/microlayer/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sigmoidRef computes sigmoid for testing.
func sigmoidRef(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func mustTensor(t *testing.T, dtype tensor.DataType, values []float64) *tensor.Tensor {
	t.Helper()
	x, err := tensor.FromFloat64s(dtype, values, 1, len(values))
	require.NoError(t, err)
	return x
}

func emptyLike(t *testing.T, x *tensor.Tensor) *tensor.Tensor {
	t.Helper()
	out := tensor.Alias(x.DType(), x.ShapeRef())
	require.NoError(t, tensor.Allocate(out))
	return out
}

func floatKernels() map[string]Kernels {
	return map[string]Kernels{
		"float32": NewFloat32(parallel.Sequential()),
		"float64": NewFloat64(parallel.Sequential()),
	}
}

func TestNew(t *testing.T) {
	for _, dtype := range []tensor.DataType{tensor.Float32, tensor.Float64, tensor.Q7} {
		k, err := Default(dtype)
		require.NoError(t, err)
		assert.Equal(t, dtype, k.DType())
	}
	_, err := New(tensor.DataType(99), parallel.Sequential())
	assert.ErrorIs(t, err, ErrUnsupportedDType)
}

func TestLeakyReLU(t *testing.T) {
	input := []float64{-2, -0.5, 0, 0.5, 3}
	want := []float64{-0.2, -0.05, 0, 0.5, 3}
	wantD := []float64{0.1, 0.1, 1, 1, 1}

	for name, k := range floatKernels() {
		t.Run(name, func(t *testing.T) {
			x := mustTensor(t, k.DType(), input)
			alpha := tensor.ScalarOf(k.DType(), 0.1)

			out := emptyLike(t, x)
			require.NoError(t, k.LeakyReLU(x, alpha, out))
			for i, v := range tensor.Values(out) {
				assert.InDelta(t, want[i], v, 1e-6, "LeakyReLU(%v)", input[i])
			}

			d := emptyLike(t, x)
			require.NoError(t, k.LeakyReLUDerivative(x, alpha, d))
			for i, v := range tensor.Values(d) {
				assert.InDelta(t, wantD[i], v, 1e-6, "LeakyReLU'(%v)", input[i])
			}
		})
	}
}

// TestLeakyReLUZeroBoundary checks that x = 0 takes the non-negative branch
// in both the function and its derivative, even with a slope that would make
// the two branches distinguishable at zero.
func TestLeakyReLUZeroBoundary(t *testing.T) {
	for name, k := range floatKernels() {
		t.Run(name, func(t *testing.T) {
			x := mustTensor(t, k.DType(), []float64{0, math.Copysign(0, -1)})
			alpha := tensor.ScalarOf(k.DType(), -3)

			d := emptyLike(t, x)
			require.NoError(t, k.LeakyReLUDerivative(x, alpha, d))
			assert.Equal(t, []float64{1, 1}, tensor.Values(d))

			out := emptyLike(t, x)
			require.NoError(t, k.LeakyReLU(x, alpha, out))
			for _, v := range tensor.Values(out) {
				assert.Zero(t, v)
			}
		})
	}
}

func TestSigmoid(t *testing.T) {
	input := []float64{-50, -2, 0, 1, 50}

	for name, k := range floatKernels() {
		t.Run(name, func(t *testing.T) {
			x := mustTensor(t, k.DType(), input)
			out := emptyLike(t, x)
			require.NoError(t, k.Sigmoid(x, out))

			got := tensor.Values(out)
			assert.InDelta(t, 0.5, got[2], 1e-7)
			for i, v := range got {
				assert.InDelta(t, sigmoidRef(input[i]), v, 1e-6)
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
			}
			for _, v := range got[1:4] {
				assert.Greater(t, v, 0.0)
				assert.Less(t, v, 1.0)
			}
		})
	}
}

func TestSigmoidDerivativeOfSigmoid(t *testing.T) {
	input := []float64{-3, -1, 0, 0.5, 2}

	for name, k := range floatKernels() {
		t.Run(name, func(t *testing.T) {
			x := mustTensor(t, k.DType(), input)
			s := emptyLike(t, x)
			require.NoError(t, k.Sigmoid(x, s))

			// In place, as the Sigmoid layer does with its scratch tensor.
			sv := tensor.Values(s)
			require.NoError(t, k.SigmoidDerivative(s, s))
			for i, v := range tensor.Values(s) {
				assert.InDelta(t, sv[i]*(1-sv[i]), v, 1e-6)
			}
			assert.InDelta(t, 0.25, tensor.Values(s)[2], 1e-7)
		})
	}
}

func TestMultiplyInPlace(t *testing.T) {
	for name, k := range floatKernels() {
		t.Run(name, func(t *testing.T) {
			a := mustTensor(t, k.DType(), []float64{1, -2, 3})
			b := mustTensor(t, k.DType(), []float64{4, 5, -6})
			require.NoError(t, k.Multiply(a, b, a))
			assert.Equal(t, []float64{4, -10, -18}, tensor.Values(a))
		})
	}
}

func TestKernelChecks(t *testing.T) {
	k := NewFloat32(parallel.Sequential())
	x := mustTensor(t, tensor.Float32, []float64{1, 2})
	wrongShape := mustTensor(t, tensor.Float32, []float64{1, 2, 3})
	wrongType := mustTensor(t, tensor.Float64, []float64{1, 2})
	unbound := tensor.Alias(tensor.Float32, x.ShapeRef())

	assert.ErrorIs(t, k.Sigmoid(x, wrongShape), tensor.ErrShapeMismatch)
	assert.ErrorIs(t, k.Sigmoid(wrongType, wrongType), tensor.ErrDTypeMismatch)
	assert.ErrorIs(t, k.Multiply(x, x, unbound), tensor.ErrUnbound)
	assert.ErrorIs(t, k.LeakyReLU(x, tensor.F64(0.1), x), tensor.ErrDTypeMismatch)
	assert.ErrorIs(t, k.LeakyReLUDerivative(x, nil, x), tensor.ErrDTypeMismatch)

	// Failed checks leave the result untouched.
	assert.Equal(t, []float64{1, 2}, tensor.Values(x))
}

func TestParallelMatchesSequential(t *testing.T) {
	n := 10000
	input := make([]float64, n)
	for i := range input {
		input[i] = float64(i-n/2) / 100
	}

	seq := NewFloat32(parallel.Sequential())
	par := NewFloat32(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 128})

	x := mustTensor(t, tensor.Float32, input)
	a, b := emptyLike(t, x), emptyLike(t, x)
	alpha := tensor.F32(0.01)

	require.NoError(t, seq.LeakyReLU(x, alpha, a))
	require.NoError(t, par.LeakyReLU(x, alpha, b))
	assert.Equal(t, a.Float32s(), b.Float32s())

	require.NoError(t, seq.Sigmoid(x, a))
	require.NoError(t, par.Sigmoid(x, b))
	assert.Equal(t, a.Float32s(), b.Float32s())
}

func TestQ7MatchesFloat(t *testing.T) {
	input := []float64{-1.5, -0.5, 0, 0.25, 1.5}
	q := NewQ7(parallel.Sequential())
	x := mustTensor(t, tensor.Q7, input)
	alpha := tensor.ScalarOf(tensor.Q7, 0.1)

	out := emptyLike(t, x)
	require.NoError(t, q.LeakyReLU(x, alpha, out))
	for i, v := range tensor.Values(out) {
		want := input[i]
		if want < 0 {
			want *= 0.1
		}
		assert.InDelta(t, want, v, 0.02, "LeakyReLU(%v)", input[i])
	}

	d := emptyLike(t, x)
	require.NoError(t, q.LeakyReLUDerivative(x, alpha, d))
	for i, v := range tensor.Values(d) {
		want := 1.0
		if input[i] < 0 {
			want = 0.1
		}
		assert.InDelta(t, want, v, 0.02, "LeakyReLU'(%v)", input[i])
	}

	s := emptyLike(t, x)
	require.NoError(t, q.Sigmoid(x, s))
	shift, zp := s.Q7Params()
	assert.Equal(t, uint16(8), shift)
	assert.Equal(t, int8(-128), zp)
	for i, v := range tensor.Values(s) {
		assert.InDelta(t, sigmoidRef(input[i]), v, 0.01)
	}

	sv := tensor.Values(s)
	require.NoError(t, q.SigmoidDerivative(s, s))
	for i, v := range tensor.Values(s) {
		assert.InDelta(t, sv[i]*(1-sv[i]), v, 0.002)
	}
}

func TestQ7MultiplyPicksShift(t *testing.T) {
	q := NewQ7(parallel.Sequential())
	a := mustTensor(t, tensor.Q7, []float64{0.5, -0.25, 1})
	b := mustTensor(t, tensor.Q7, []float64{3, 2, -1.5})

	require.NoError(t, q.Multiply(a, b, a))
	shift, zp := a.Q7Params()
	assert.Equal(t, uint16(6), shift)
	assert.Equal(t, int8(0), zp)

	want := []float64{1.5, -0.5, -1.5}
	for i, v := range tensor.Values(a) {
		assert.InDelta(t, want[i], v, 1.0/64)
	}
}

func TestPrintScalar(t *testing.T) {
	var sb strings.Builder
	printf := func(format string, args ...any) (int, error) {
		return fmt.Fprintf(&sb, format, args...)
	}

	NewFloat32(parallel.Sequential()).PrintScalar(tensor.F32(0.5), printf)
	assert.Equal(t, "0.5", sb.String())

	sb.Reset()
	NewQ7(parallel.Sequential()).PrintScalar(tensor.QuantizeScalar(0.5, 7, 0), printf)
	assert.Equal(t, "0.5 (q7 64, shift 7, zero point 0)", sb.String())
}
