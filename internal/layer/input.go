package layer

import (
	"fmt"

	"github.com/born-ml/microlayer/internal/tensor"
)

// Input is the head of a chain. It owns the shape that every activation
// downstream aliases and has no deltas slot.
type Input struct {
	Node
}

// NewInput creates an input layer producing batch x features tensors.
func NewInput(dtype tensor.DataType, batch, features int) (*Input, error) {
	l := &Input{}
	if _, err := l.Init(dtype, batch, features); err != nil {
		return nil, err
	}
	return l, nil
}

// Init initializes a caller-allocated input layer.
func (l *Input) Init(dtype tensor.DataType, batch, features int) (Layer, error) {
	if l.Initialized() {
		return nil, newError(InputType, "init", fmt.Errorf("%w: layer is already initialized", ErrInvalidGraph))
	}
	result, err := tensor.New(dtype, batch, features)
	if err != nil {
		return nil, newError(InputType, "init", fmt.Errorf("%w: %w", ErrShapeMismatch, err))
	}
	l.typ = InputType
	l.result = result
	l.trainableParams = 0
	return l, nil
}

// Base returns the node record.
func (l *Input) Base() *Node {
	if l == nil {
		return nil
	}
	return &l.Node
}

// Forward does nothing: the result is written by the caller.
func (l *Input) Forward() error { return nil }

// Backward does nothing.
func (l *Input) Backward() error { return nil }

// SetBatchSize changes the batch dimension of the chain. Every layer that
// aliases the input shape sees the change; storage must be rebound by the
// caller before the next pass.
func (l *Input) SetBatchSize(batch int) error {
	if !l.Initialized() {
		return newError(InputType, "set batch size", fmt.Errorf("%w: layer is not initialized", ErrInvalidGraph))
	}
	if err := l.result.Reshape(batch, l.result.Shape()[1]); err != nil {
		return newError(InputType, "set batch size", err)
	}
	return nil
}
