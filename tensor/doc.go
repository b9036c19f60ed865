// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the tensor descriptors exchanged between layers.
//
// # Overview
//
// A Tensor is a descriptor: a data type, a shared shape handle, and storage
// bound by the caller. Layers never allocate tensor storage themselves.
//
//   - Float32, Float64 and Q7 (8-bit affine quantized) data types
//   - Shapes shared by reference between a producer and its consumers
//   - Zero-copy typed views over bound storage
//
// # Basic Usage
//
//	import "github.com/born-ml/microlayer/tensor"
//
//	func main() {
//	    x, _ := tensor.FromFloat64s(tensor.Float32, []float64{-2, 0, 3}, 1, 3)
//	    fmt.Println(x, x.Float32s())
//
//	    // A consumer aliases the shape and binds its own storage.
//	    y := tensor.Alias(tensor.Float32, x.ShapeRef())
//	    _ = tensor.Allocate(y)
//	}
//
// # Quantization
//
// Q7 tensors carry a 4-byte parameter block (shift, zero point) in front of
// their data. A value q stands for (q - zero point) / 2^shift.
package tensor
