// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu_test

import (
	"testing"

	"github.com/born-ml/microlayer/backend/cpu"
	"github.com/born-ml/microlayer/layer"
	"github.com/born-ml/microlayer/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestChain runs x = [-2, 0, 3] through Leaky ReLU (alpha 0.1) into a sink
// holding ones. The Leaky ReLU gradient is [0.1, 1, 1].
func TestChain(t *testing.T) {
	for _, dtype := range []tensor.DataType{tensor.Float32, tensor.Float64} {
		k, err := cpu.NewWithConfig(dtype, cpu.Sequential())
		require.NoError(t, err)

		in, err := layer.NewInput(dtype, 1, 3)
		require.NoError(t, err)
		lr, err := layer.NewLeakyReLU(in, tensor.ScalarOf(dtype, 0.1), k)
		require.NoError(t, err)
		out, err := layer.NewSink(lr)
		require.NoError(t, err)

		for _, tt := range []*tensor.Tensor{in.Result(), lr.Result(), lr.Deltas(), out.Deltas()} {
			require.NoError(t, tensor.Allocate(tt))
		}
		require.NoError(t, tensor.Fill(in.Result(), []float64{-2, 0, 3}))
		require.NoError(t, tensor.Fill(out.Deltas(), []float64{1, 1, 1}))

		require.NoError(t, layer.Forward(in, lr, out))
		require.NoError(t, layer.Backward(in, lr, out))
		assert.InDeltaSlice(t, []float64{0.1, 1, 1}, tensor.Values(lr.Deltas()), 1e-6)
	}
}

func TestNewRejectsUnknownDType(t *testing.T) {
	_, err := cpu.New(tensor.DataType(42))
	assert.ErrorIs(t, err, cpu.ErrUnsupportedDType)
}
