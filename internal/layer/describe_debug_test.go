//go:build aidebug

package layer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/born-ml/microlayer/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	in := inputWith(t, tensor.Float32, []float64{1, 2, 3}, 1, 3)
	k := kernelsFor(t, tensor.Float32)
	lr, err := NewLeakyReLU(in, tensor.F32(0.1), k)
	require.NoError(t, err)
	sg, err := NewSigmoid(lr, k, nil)
	require.NoError(t, err)

	var sb strings.Builder
	printf := func(format string, args ...any) (int, error) {
		return fmt.Fprintf(&sb, format, args...)
	}
	for _, l := range []Layer{in, lr, sg} {
		require.NoError(t, Describe(l, printf))
	}

	want := "Input (shape: [1 3])\n" +
		"Leaky ReLU (alpha: 0.1)\n" +
		"Sigmoid ()\n"
	assert.Equal(t, want, sb.String())
}

func TestDescribeQ7Alpha(t *testing.T) {
	in := inputWith(t, tensor.Q7, []float64{1, -1}, 1, 2)
	lr, err := NewLeakyReLU(in, tensor.QuantizeScalar(0.5, 7, 0), kernelsFor(t, tensor.Q7))
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, Describe(lr, func(format string, args ...any) (int, error) {
		return fmt.Fprintf(&sb, format, args...)
	}))
	assert.Equal(t, "Leaky ReLU (alpha: 0.5 (q7 64, shift 7, zero point 0))\n", sb.String())
}
