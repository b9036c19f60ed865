// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides pure Go activation kernels.
//
// # Overview
//
// This package implements one kernel set per data type:
//   - Pure Go implementation (no CGO)
//   - Float32, Float64 and Q7 support
//   - Large tensors split across goroutines
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/microlayer/backend/cpu"
//	    "github.com/born-ml/microlayer/tensor"
//	)
//
//	func main() {
//	    k, err := cpu.New(tensor.Float32)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    x, _ := tensor.FromFloat64s(tensor.Float32, []float64{-1, 2}, 1, 2)
//	    _ = k.Sigmoid(x, x)
//	}
//
// For GPU compute on Windows, see the webgpu package.
package cpu
