package tensor

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

// Tensor is an n-dimensional view over externally owned storage.
//
// The shape is held through a ShapeRef. A tensor created with New owns its
// shape and may Reshape it; a tensor created with Alias shares another
// tensor's shape and follows it.
type Tensor struct {
	dtype     DataType
	shape     *ShapeRef
	ownsShape bool
	data      []byte
	params    []byte
}

// New creates a shape-owning tensor with unbound storage.
func New(dtype DataType, dims ...int) (*Tensor, error) {
	ref, err := NewShapeRef(dims...)
	if err != nil {
		return nil, err
	}
	return &Tensor{dtype: dtype, shape: ref, ownsShape: true}, nil
}

// Alias creates a tensor with unbound storage that shares ref.
func Alias(dtype DataType, ref *ShapeRef) *Tensor {
	return &Tensor{dtype: dtype, shape: ref.Share()}
}

// DType returns the tensor's data type.
func (t *Tensor) DType() DataType {
	return t.dtype
}

// Shape returns the current dimensions (read-only).
func (t *Tensor) Shape() Shape {
	return t.shape.Dims()
}

// ShapeRef returns the shared shape handle.
func (t *Tensor) ShapeRef() *ShapeRef {
	return t.shape
}

// OwnsShape reports whether this tensor is the owner of its shape.
func (t *Tensor) OwnsShape() bool {
	return t.ownsShape
}

// Dim returns the dimensionality.
func (t *Tensor) Dim() int {
	return t.shape.Rank()
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return t.shape.NumElements()
}

// DataSize returns the payload byte size of a tensor of the given type and shape.
func DataSize(dtype DataType, shape Shape) int {
	return shape.NumElements() * dtype.Size()
}

// ParamsSize returns the parameter block byte size for dtype.
func ParamsSize(dtype DataType) int {
	return dtype.ParamsSize()
}

// Footprint returns the total bytes (parameter block plus payload) a tensor
// of the given type and shape needs.
func Footprint(dtype DataType, shape Shape) int {
	return ParamsSize(dtype) + DataSize(dtype, shape)
}

// SizeofData returns the payload byte size for the current shape.
func (t *Tensor) SizeofData() int {
	return DataSize(t.dtype, t.Shape())
}

// SizeofParams returns the parameter block byte size.
func (t *Tensor) SizeofParams() int {
	return ParamsSize(t.dtype)
}

// Footprint returns SizeofParams() + SizeofData().
func (t *Tensor) Footprint() int {
	return Footprint(t.dtype, t.Shape())
}

// Bind attaches externally owned storage. data must be exactly SizeofData()
// bytes and params exactly SizeofParams() bytes (nil for float types).
func (t *Tensor) Bind(data, params []byte) error {
	if len(data) != t.SizeofData() {
		return fmt.Errorf("%w: data is %d bytes, shape %v of %s needs %d",
			ErrStorageSize, len(data), t.Shape(), t.dtype, t.SizeofData())
	}
	if len(params) != t.SizeofParams() {
		return fmt.Errorf("%w: params are %d bytes, %s needs %d",
			ErrStorageSize, len(params), t.dtype, t.SizeofParams())
	}
	t.data = data
	t.params = params
	return nil
}

// BindBlock splits one contiguous block of Footprint() bytes into the
// parameter block followed by the payload and binds both.
func (t *Tensor) BindBlock(block []byte) error {
	if len(block) != t.Footprint() {
		return fmt.Errorf("%w: block is %d bytes, tensor needs %d", ErrStorageSize, len(block), t.Footprint())
	}
	p := t.SizeofParams()
	var params []byte
	if p > 0 {
		params = block[:p:p]
	}
	return t.Bind(block[p:], params)
}

// Unbind detaches storage.
func (t *Tensor) Unbind() {
	t.data = nil
	t.params = nil
}

// Bound reports whether storage is attached.
func (t *Tensor) Bound() bool {
	return t.data != nil
}

// Data returns the raw payload bytes.
func (t *Tensor) Data() []byte {
	return t.data
}

// Params returns the raw parameter block.
func (t *Tensor) Params() []byte {
	return t.params
}

// CheckStorage verifies that storage is bound and matches the current shape.
func (t *Tensor) CheckStorage() error {
	if !t.Bound() {
		return ErrUnbound
	}
	if len(t.data) != t.SizeofData() || len(t.params) != t.SizeofParams() {
		return fmt.Errorf("%w: storage holds %d bytes, shape %v of %s needs %d",
			ErrShapeMismatch, len(t.data), t.Shape(), t.dtype, t.SizeofData())
	}
	return nil
}

// Reshape changes the dimensions of an owned shape. Every alias observes the
// change. The rank must stay the same; storage must be rebound by the caller
// if the element count changes.
func (t *Tensor) Reshape(dims ...int) error {
	if !t.ownsShape {
		return ErrShapeAliased
	}
	s := Shape(dims)
	if err := s.Validate(); err != nil {
		return fmt.Errorf("reshape: %w", err)
	}
	if len(s) != t.shape.Rank() {
		return fmt.Errorf("%w: reshape from rank %d to rank %d", ErrShapeMismatch, t.shape.Rank(), len(s))
	}
	t.shape.set(s)
	return nil
}

// Release drops this tensor's hold on its shape and detaches storage.
func (t *Tensor) Release() {
	t.Unbind()
	if t.shape != nil {
		t.shape.Release()
		t.shape = nil
	}
}

// SameExtent checks that every tensor is bound, has the same dtype as the
// first one, and has the same dimensions.
func SameExtent(ts ...*Tensor) error {
	if len(ts) == 0 {
		return nil
	}
	first := ts[0]
	for i, t := range ts {
		if err := t.CheckStorage(); err != nil {
			return fmt.Errorf("tensor %d: %w", i, err)
		}
		if t.dtype != first.dtype {
			return fmt.Errorf("%w: tensor %d is %s, expected %s", ErrDTypeMismatch, i, t.dtype, first.dtype)
		}
		if !t.Shape().Equal(first.Shape()) {
			return fmt.Errorf("%w: tensor %d has shape %v, expected %v", ErrShapeMismatch, i, t.Shape(), first.Shape())
		}
	}
	return nil
}

// Float32s interprets the payload as []float32.
// Panics if the tensor's dtype is not Float32.
func (t *Tensor) Float32s() []float32 {
	if t.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", t.dtype))
	}
	if len(t.data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by CheckStorage.
	return unsafe.Slice((*float32)(unsafe.Pointer(&t.data[0])), len(t.data)/4)
}

// Float64s interprets the payload as []float64.
// Panics if the tensor's dtype is not Float64.
func (t *Tensor) Float64s() []float64 {
	if t.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", t.dtype))
	}
	if len(t.data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by CheckStorage.
	return unsafe.Slice((*float64)(unsafe.Pointer(&t.data[0])), len(t.data)/8)
}

// Q7s interprets the payload as []int8.
// Panics if the tensor's dtype is not Q7.
func (t *Tensor) Q7s() []int8 {
	if t.dtype != Q7 {
		panic(fmt.Sprintf("tensor dtype is %s, not q7", t.dtype))
	}
	if len(t.data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by CheckStorage.
	return unsafe.Slice((*int8)(unsafe.Pointer(&t.data[0])), len(t.data))
}

// Q7Params reads the quantization parameters of a Q7 tensor.
func (t *Tensor) Q7Params() (shift uint16, zeroPoint int8) {
	if t.dtype != Q7 || len(t.params) < q7ParamsSize {
		panic("tensor: Q7Params on a tensor without a q7 parameter block")
	}
	return binary.LittleEndian.Uint16(t.params[0:2]), int8(t.params[2])
}

// SetQ7Params writes the quantization parameters of a Q7 tensor.
func (t *Tensor) SetQ7Params(shift uint16, zeroPoint int8) {
	if t.dtype != Q7 || len(t.params) < q7ParamsSize {
		panic("tensor: SetQ7Params on a tensor without a q7 parameter block")
	}
	binary.LittleEndian.PutUint16(t.params[0:2], shift)
	t.params[2] = byte(zeroPoint)
	t.params[3] = 0
}

// String returns a short description such as "float32[2 3]".
func (t *Tensor) String() string {
	return fmt.Sprintf("%s%v", t.dtype, []int(t.Shape()))
}
