// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/microlayer/internal/tensor"

// DataType identifies the numeric representation of tensor elements.
type DataType = tensor.DataType

// Supported data types.
const (
	Float32 = tensor.Float32
	Float64 = tensor.Float64
	Q7      = tensor.Q7
)

// Shape is a list of dimensions.
type Shape = tensor.Shape

// ShapeRef is a shape shared between tensors.
type ShapeRef = tensor.ShapeRef

// Tensor is a typed, shaped view over caller-bound storage.
type Tensor = tensor.Tensor

// Scalar is a single value of one data type.
type Scalar = tensor.Scalar

// Scalar types.
type (
	F32      = tensor.F32
	F64      = tensor.F64
	Q7Scalar = tensor.Q7Scalar
)

// Errors returned by tensor operations.
var (
	ErrShapeMismatch = tensor.ErrShapeMismatch
	ErrDTypeMismatch = tensor.ErrDTypeMismatch
	ErrUnbound       = tensor.ErrUnbound
	ErrStorageSize   = tensor.ErrStorageSize
	ErrShapeAliased  = tensor.ErrShapeAliased
)

// New creates a tensor that owns a new shape. Storage is not bound.
func New(dtype DataType, dims ...int) (*Tensor, error) {
	return tensor.New(dtype, dims...)
}

// Alias creates a tensor sharing ref. Storage is not bound.
func Alias(dtype DataType, ref *ShapeRef) *Tensor {
	return tensor.Alias(dtype, ref)
}

// ParseDataType parses names such as "f32", "float64" or "q7".
func ParseDataType(name string) (DataType, bool) {
	return tensor.ParseDataType(name)
}

// Footprint returns the bytes of parameters plus data for dtype and shape.
func Footprint(dtype DataType, shape Shape) int {
	return tensor.Footprint(dtype, shape)
}

// Allocate binds freshly allocated storage to t.
func Allocate(t *Tensor) error {
	return tensor.Allocate(t)
}

// FromFloat64s creates and fills a bound tensor. Q7 parameters are chosen
// to cover the values.
//
// Example:
//
//	x, err := tensor.FromFloat64s(tensor.Q7, []float64{-1, 0.5}, 1, 2)
func FromFloat64s(dtype DataType, values []float64, dims ...int) (*Tensor, error) {
	return tensor.FromFloat64s(dtype, values, dims...)
}

// Fill writes values into t's storage.
func Fill(t *Tensor, values []float64) error {
	return tensor.Fill(t, values)
}

// Values returns the elements of t as float64, dequantizing Q7.
func Values(t *Tensor) []float64 {
	return tensor.Values(t)
}

// ScalarOf converts v to a scalar of dtype.
func ScalarOf(dtype DataType, v float64) Scalar {
	return tensor.ScalarOf(dtype, v)
}

// QuantizeScalar quantizes v with the given parameters.
func QuantizeScalar(v float64, shift uint16, zeroPoint int8) Q7Scalar {
	return tensor.QuantizeScalar(v, shift, zeroPoint)
}
