//go:build windows

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides float32 activation kernels running as WebGPU
// compute shaders.
//
// Example:
//
//	import (
//	    "github.com/born-ml/microlayer/backend/cpu"
//	    "github.com/born-ml/microlayer/backend/webgpu"
//	    "github.com/born-ml/microlayer/layer"
//	    "github.com/born-ml/microlayer/tensor"
//	)
//
//	func main() {
//	    var k interface {
//	        layer.LeakyReLUKernels
//	        layer.SigmoidKernels
//	    }
//	    if webgpu.IsAvailable() {
//	        gpu, err := webgpu.New()
//	        if err != nil {
//	            log.Fatal(err)
//	        }
//	        defer gpu.Release()
//	        k = gpu
//	    } else {
//	        k, _ = cpu.New(tensor.Float32)
//	    }
//	}
package webgpu

import (
	internalwebgpu "github.com/born-ml/microlayer/internal/kernel/webgpu"
	"github.com/born-ml/microlayer/layer"
)

// Kernels is a float32 kernel set on a WebGPU device.
type Kernels = internalwebgpu.Kernels

// ErrUnavailable is returned by New when no adapter can be used.
var ErrUnavailable = internalwebgpu.ErrUnavailable

// Compile-time checks that Kernels serves both activation layers.
var (
	_ layer.LeakyReLUKernels = (*Kernels)(nil)
	_ layer.SigmoidKernels   = (*Kernels)(nil)
	_ layer.ScalarPrinter    = (*Kernels)(nil)
)

// New opens the default WebGPU device. Call Release when done.
func New() (*Kernels, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if a WebGPU adapter can be requested on this system.
// It is useful for graceful fallback to the CPU kernels.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
