package tensor

import "errors"

// Common errors.
var (
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrDTypeMismatch = errors.New("dtype mismatch")
	ErrUnbound       = errors.New("tensor storage is not bound")
	ErrStorageSize   = errors.New("storage size does not match tensor footprint")
	ErrShapeAliased  = errors.New("shape is aliased and cannot be changed through this tensor")
)
