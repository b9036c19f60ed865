package layer

import (
	"errors"
	"fmt"

	"github.com/born-ml/microlayer/internal/arena"
	"github.com/born-ml/microlayer/internal/tensor"
)

// Common errors.
var (
	ErrInvalidGraph      = errors.New("invalid graph")
	ErrMissingCapability = errors.New("missing capability")

	ErrShapeMismatch     = tensor.ErrShapeMismatch
	ErrDTypeMismatch     = tensor.ErrDTypeMismatch
	ErrUnbound           = tensor.ErrUnbound
	ErrResourceExhausted = arena.ErrResourceExhausted
)

// Error records the layer and operation that failed.
type Error struct {
	Layer string // Layer type name
	Op    string // "init", "forward", "backward", ...
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Layer, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(typ *Type, op string, err error) error {
	name := "layer"
	if typ != nil {
		name = typ.Name
	}
	return &Error{Layer: name, Op: op, Err: err}
}
