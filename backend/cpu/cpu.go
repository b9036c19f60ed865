// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/microlayer/internal/kernel/cpu"
	"github.com/born-ml/microlayer/internal/parallel"
	"github.com/born-ml/microlayer/layer"
	"github.com/born-ml/microlayer/tensor"
)

// Kernels is a CPU kernel set for one data type.
type Kernels = internalcpu.Kernels

// Config controls how kernels split work across goroutines.
type Config = parallel.Config

// ErrUnsupportedDType is returned for data types without a kernel set.
var ErrUnsupportedDType = internalcpu.ErrUnsupportedDType

// Compile-time checks that every kernel set serves both activation layers.
var (
	_ layer.LeakyReLUKernels = Kernels(nil)
	_ layer.SigmoidKernels   = Kernels(nil)
	_ layer.ScalarPrinter    = Kernels(nil)
)

// New returns the kernel set for dtype with the default parallel settings.
func New(dtype tensor.DataType) (Kernels, error) {
	return internalcpu.Default(dtype)
}

// NewWithConfig returns the kernel set for dtype using cfg.
func NewWithConfig(dtype tensor.DataType, cfg Config) (Kernels, error) {
	return internalcpu.New(dtype, cfg)
}

// DefaultConfig uses every CPU and splits tensors of 8192 elements or more.
func DefaultConfig() Config {
	return parallel.DefaultConfig()
}

// Sequential runs every kernel on the calling goroutine.
func Sequential() Config {
	return parallel.Sequential()
}
