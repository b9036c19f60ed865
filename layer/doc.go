// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package layer provides the layer graph and the Leaky ReLU and Sigmoid
// activation layers.
//
// # Overview
//
// A network is a chain built front to back. Each layer is initialized with its
// already-initialized predecessor; the result and deltas tensors of an
// activation alias the predecessor's shape. Storage is bound afterwards by
// the caller, then Forward runs front to back and Backward back to front.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/microlayer/backend/cpu"
//	    "github.com/born-ml/microlayer/layer"
//	    "github.com/born-ml/microlayer/tensor"
//	)
//
//	func main() {
//	    k, _ := cpu.New(tensor.Float32)
//
//	    in, _ := layer.NewInput(tensor.Float32, 1, 3)
//	    lr, _ := layer.NewLeakyReLU(in, tensor.F32(0.01), k)
//	    sg, _ := layer.NewSigmoid(lr, k, nil)
//	    out, _ := layer.NewSink(sg)
//
//	    // Bind storage, write inputs and the loss gradient, then:
//	    _ = layer.Forward(in, lr, sg, out)
//	    _ = layer.Backward(in, lr, sg, out)
//	}
//
// # Debug Output
//
// Describe prints a layer's specs in builds with the aidebug tag and
// returns ErrMissingCapability otherwise.
package layer
