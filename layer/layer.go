// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package layer

import (
	"github.com/born-ml/microlayer/internal/arena"
	"github.com/born-ml/microlayer/internal/layer"
	"github.com/born-ml/microlayer/tensor"
)

// Layer is a node of the computation graph.
type Layer = layer.Layer

// Node is the record every layer embeds.
type Node = layer.Node

// Type identifies a kind of layer.
type Type = layer.Type

// Printf matches fmt.Printf.
type Printf = layer.Printf

// Error wraps a failure with the layer type and operation.
type Error = layer.Error

// Layers.
type (
	Input     = layer.Input
	LeakyReLU = layer.LeakyReLU
	Sigmoid   = layer.Sigmoid
	Sink      = layer.Sink
)

// Kernel capabilities.
type (
	Multiplier       = layer.Multiplier
	LeakyReLUKernels = layer.LeakyReLUKernels
	SigmoidKernels   = layer.SigmoidKernels
	ScalarPrinter    = layer.ScalarPrinter
)

// Allocator supplies scratch memory to layers that need it during Backward.
type Allocator = arena.Allocator

// Layer types.
var (
	InputType     = layer.InputType
	LeakyReLUType = layer.LeakyReLUType
	SigmoidType   = layer.SigmoidType
	SinkType      = layer.SinkType
)

// Errors.
var (
	ErrInvalidGraph      = layer.ErrInvalidGraph
	ErrShapeMismatch     = layer.ErrShapeMismatch
	ErrDTypeMismatch     = layer.ErrDTypeMismatch
	ErrUnbound           = layer.ErrUnbound
	ErrMissingCapability = layer.ErrMissingCapability
	ErrResourceExhausted = layer.ErrResourceExhausted
)

// NewInput creates the head of a chain producing batch x features tensors.
func NewInput(dtype tensor.DataType, batch, features int) (*Input, error) {
	return layer.NewInput(dtype, batch, features)
}

// NewLeakyReLU creates a Leaky ReLU layer after input.
func NewLeakyReLU(input Layer, alpha tensor.Scalar, kernels LeakyReLUKernels) (*LeakyReLU, error) {
	return layer.NewLeakyReLU(input, alpha, kernels)
}

// NewSigmoid creates a Sigmoid layer after input. A nil scratch allocator
// means heap allocation.
func NewSigmoid(input Layer, kernels SigmoidKernels, scratch Allocator) (*Sigmoid, error) {
	return layer.NewSigmoid(input, kernels, scratch)
}

// NewSink creates the terminal node of a chain.
func NewSink(input Layer) (*Sink, error) {
	return layer.NewSink(input)
}

// Is reports whether l is an initialized layer of kind t.
func Is(l Layer, t *Type) bool {
	return layer.Is(l, t)
}

// Describe prints the layer name and specs.
func Describe(l Layer, print Printf) error {
	return layer.Describe(l, print)
}

// Forward runs Forward on each layer in order.
func Forward(layers ...Layer) error {
	for _, l := range layers {
		if err := l.Forward(); err != nil {
			return err
		}
	}
	return nil
}

// Backward runs Backward on each layer in reverse order.
func Backward(layers ...Layer) error {
	for i := len(layers) - 1; i >= 0; i-- {
		if err := layers[i].Backward(); err != nil {
			return err
		}
	}
	return nil
}
