// Package layer implements the layer execution contract of microlayer and
// its stateless activation layers.
//
// A network is a chain of layers built front to back: every layer is
// initialized with its predecessor, which must already be initialized. The
// initializer links both neighbours, derives the result and deltas tensors
// from the predecessor's result, and fixes the trainable parameter count.
// Storage for those tensors is bound afterwards by an external planner.
//
// Execution is synchronous. Forward passes run predecessor to successor;
// backward passes run successor to predecessor, because a layer's backward
// reads the gradient its successor deposited in the successor's deltas slot.
// Each slot has a single writer, the layer that owns it.
//
// Activation layers never reshape. Their result and deltas tensors alias the
// predecessor's shape handle, so CalcResultShape has nothing to do and a
// reshape of the chain input is seen by every activation downstream.
package layer

import (
	"fmt"

	"github.com/born-ml/microlayer/internal/tensor"
)

// Layer is a node of the computation graph.
type Layer interface {
	// Base returns the common node record, or nil for a nil layer.
	Base() *Node

	// Forward computes the result tensor from the predecessor's result.
	Forward() error

	// Backward computes this layer's deltas from the successor's deltas and
	// the predecessor's result.
	Backward() error

	// CalcResultShape recomputes the result shape after the predecessor's
	// shape changed.
	CalcResultShape() error

	// ParamMemSize returns the bytes of trainable parameter memory needed.
	ParamMemSize() int

	// SetParamMem distributes parameter memory of ParamMemSize bytes.
	SetParamMem(mem []byte) error

	// TrainMemSize returns the bytes of training memory (gradients,
	// optimizer state) needed.
	TrainMemSize() int

	// SetTrainMem distributes training memory of TrainMemSize bytes.
	SetTrainMem(mem []byte) error

	// ScratchSize returns the bytes of transient memory one Backward call
	// acquires from its scratch allocator.
	ScratchSize() int
}

// Node is the record every layer embeds.
type Node struct {
	typ    *Type
	input  Layer
	output Layer

	result *tensor.Tensor
	deltas *tensor.Tensor

	trainableParams int
}

// Base returns n.
func (n *Node) Base() *Node {
	return n
}

// Type returns the layer type, nil before initialization.
func (n *Node) Type() *Type {
	return n.typ
}

// Input returns the predecessor.
func (n *Node) Input() Layer {
	return n.input
}

// Output returns the successor, nil until the successor is initialized.
func (n *Node) Output() Layer {
	return n.output
}

// Result returns the forward result tensor.
func (n *Node) Result() *tensor.Tensor {
	return n.result
}

// Deltas returns the gradient slot, nil for layers without one.
func (n *Node) Deltas() *tensor.Tensor {
	return n.deltas
}

// TrainableParams returns the number of trainable parameters.
func (n *Node) TrainableParams() int {
	return n.trainableParams
}

// Initialized reports whether the layer has been initialized.
func (n *Node) Initialized() bool {
	return n.typ != nil && n.result != nil
}

// BindResult attaches storage to the result tensor.
func (n *Node) BindResult(data, params []byte) error {
	if !n.Initialized() {
		return newError(n.typ, "bind result", fmt.Errorf("%w: layer is not initialized", ErrInvalidGraph))
	}
	if err := n.result.Bind(data, params); err != nil {
		return newError(n.typ, "bind result", err)
	}
	return nil
}

// BindDeltas attaches storage to the deltas tensor.
func (n *Node) BindDeltas(data, params []byte) error {
	if !n.Initialized() || n.deltas == nil {
		return newError(n.typ, "bind deltas", fmt.Errorf("%w: layer has no deltas slot", ErrInvalidGraph))
	}
	if err := n.deltas.Bind(data, params); err != nil {
		return newError(n.typ, "bind deltas", err)
	}
	return nil
}

// CalcResultShape verifies that the result still shares the predecessor's
// shape. Shape-preserving layers need nothing else.
func (n *Node) CalcResultShape() error {
	if !n.Initialized() {
		return newError(n.typ, "calc result shape", fmt.Errorf("%w: layer is not initialized", ErrInvalidGraph))
	}
	if n.input == nil {
		return nil
	}
	if n.input.Base().result.ShapeRef() != n.result.ShapeRef() {
		return newError(n.typ, "calc result shape", fmt.Errorf("%w: result no longer aliases the input shape", ErrShapeMismatch))
	}
	return nil
}

// ParamMemSize returns 0: the node record has no parameters.
func (n *Node) ParamMemSize() int { return 0 }

// SetParamMem accepts only empty memory.
func (n *Node) SetParamMem(mem []byte) error {
	return n.rejectMem("set param mem", mem)
}

// TrainMemSize returns 0.
func (n *Node) TrainMemSize() int { return 0 }

// SetTrainMem accepts only empty memory.
func (n *Node) SetTrainMem(mem []byte) error {
	return n.rejectMem("set train mem", mem)
}

// ScratchSize returns 0.
func (n *Node) ScratchSize() int { return 0 }

func (n *Node) rejectMem(op string, mem []byte) error {
	if len(mem) != 0 {
		return newError(n.typ, op, fmt.Errorf("%w: layer holds no trainable weights, got %d bytes", tensor.ErrStorageSize, len(mem)))
	}
	return nil
}

// link initializes n as the successor of input. self is the layer that
// embeds n. Nothing is modified unless every check passes.
func (n *Node) link(self Layer, typ *Type, input Layer, dtype func(tensor.DataType) error) error {
	if n.Initialized() {
		return newError(typ, "init", fmt.Errorf("%w: layer is already initialized", ErrInvalidGraph))
	}
	if input == nil {
		return newError(typ, "init", fmt.Errorf("%w: nil input layer", ErrInvalidGraph))
	}
	pred := input.Base()
	if pred == nil || !pred.Initialized() {
		return newError(typ, "init", fmt.Errorf("%w: input layer is not initialized", ErrInvalidGraph))
	}
	if pred == n {
		return newError(typ, "init", fmt.Errorf("%w: layer cannot be its own input", ErrInvalidGraph))
	}
	if pred.output != nil {
		return newError(typ, "init", fmt.Errorf("%w: input layer %s already has a successor", ErrInvalidGraph, pred.typ))
	}
	if d := pred.result.Dim(); d != 2 {
		return newError(typ, "init", fmt.Errorf("%w: activation input must be 2-D (batch x features), got %d-D", ErrShapeMismatch, d))
	}
	if dtype != nil {
		if err := dtype(pred.result.DType()); err != nil {
			return newError(typ, "init", err)
		}
	}

	n.typ = typ
	n.input = input
	pred.output = self

	n.result = tensor.Alias(pred.result.DType(), pred.result.ShapeRef())
	n.deltas = tensor.Alias(n.result.DType(), n.result.ShapeRef())
	n.trainableParams = 0
	return nil
}

// forwardOperands checks the forward preconditions and returns the input.
func (n *Node) forwardOperands() (*tensor.Tensor, error) {
	if !n.Initialized() || n.input == nil {
		return nil, fmt.Errorf("%w: layer is not initialized", ErrInvalidGraph)
	}
	x := n.input.Base().result
	if err := tensor.SameExtent(x, n.result); err != nil {
		return nil, err
	}
	return x, nil
}

// backwardOperands checks the backward preconditions and returns the input
// and the successor's deltas.
func (n *Node) backwardOperands() (x, succ *tensor.Tensor, err error) {
	if !n.Initialized() || n.input == nil {
		return nil, nil, fmt.Errorf("%w: layer is not initialized", ErrInvalidGraph)
	}
	if n.output == nil {
		return nil, nil, fmt.Errorf("%w: backward needs a successor", ErrInvalidGraph)
	}
	succ = n.output.Base().deltas
	if succ == nil {
		return nil, nil, fmt.Errorf("%w: successor %s has no deltas slot", ErrInvalidGraph, n.output.Base().typ)
	}
	x = n.input.Base().result
	if err := tensor.SameExtent(x, n.deltas, succ); err != nil {
		return nil, nil, err
	}
	return x, succ, nil
}
