package tensor

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataTypeSizes(t *testing.T) {
	tests := []struct {
		dtype  DataType
		size   int
		params int
		name   string
	}{
		{Float32, 4, 0, "float32"},
		{Float64, 8, 0, "float64"},
		{Q7, 1, 4, "q7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.size, tt.dtype.Size())
			assert.Equal(t, tt.params, tt.dtype.ParamsSize())
			assert.Equal(t, tt.name, tt.dtype.String())
			parsed, ok := ParseDataType(tt.name)
			assert.True(t, ok)
			assert.Equal(t, tt.dtype, parsed)
		})
	}
}

func TestFootprint(t *testing.T) {
	assert.Equal(t, 24, Footprint(Float32, Shape{2, 3}))
	assert.Equal(t, 48, Footprint(Float64, Shape{2, 3}))
	assert.Equal(t, 10, Footprint(Q7, Shape{2, 3}))

	x, err := New(Q7, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 6, x.SizeofData())
	assert.Equal(t, 4, x.SizeofParams())
	assert.Equal(t, 10, x.Footprint())
}

func TestNewRejectsInvalidShape(t *testing.T) {
	_, err := New(Float32, 2, 0)
	require.Error(t, err)
}

func TestAliasSharesShape(t *testing.T) {
	owner, err := New(Float32, 2, 3)
	require.NoError(t, err)

	alias := Alias(Float32, owner.ShapeRef())
	assert.Same(t, owner.ShapeRef(), alias.ShapeRef())
	assert.True(t, owner.OwnsShape())
	assert.False(t, alias.OwnsShape())
	assert.Equal(t, 2, owner.ShapeRef().Refs())

	require.NoError(t, owner.Reshape(4, 3))
	assert.Equal(t, Shape{4, 3}, alias.Shape())

	err = alias.Reshape(1, 3)
	assert.ErrorIs(t, err, ErrShapeAliased)

	alias.Release()
	assert.Equal(t, 1, owner.ShapeRef().Refs())
}

func TestReshapeKeepsRank(t *testing.T) {
	owner, err := New(Float32, 2, 3)
	require.NoError(t, err)
	err = owner.Reshape(6)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	assert.Equal(t, Shape{2, 3}, owner.Shape())
}

func TestBind(t *testing.T) {
	x, err := New(Float32, 2, 2)
	require.NoError(t, err)

	assert.ErrorIs(t, x.CheckStorage(), ErrUnbound)
	assert.ErrorIs(t, x.Bind(make([]byte, 15), nil), ErrStorageSize)
	assert.ErrorIs(t, x.Bind(make([]byte, 16), make([]byte, 4)), ErrStorageSize)

	require.NoError(t, x.Bind(make([]byte, 16), nil))
	assert.True(t, x.Bound())
	require.NoError(t, x.CheckStorage())

	// Growing the shape invalidates the bound storage.
	require.NoError(t, x.Reshape(3, 2))
	assert.ErrorIs(t, x.CheckStorage(), ErrShapeMismatch)

	x.Unbind()
	assert.False(t, x.Bound())
}

func TestBindBlock(t *testing.T) {
	x, err := New(Q7, 1, 3)
	require.NoError(t, err)

	block := make([]byte, x.Footprint())
	require.NoError(t, x.BindBlock(block))
	x.SetQ7Params(5, -3)
	shift, zp := x.Q7Params()
	assert.Equal(t, uint16(5), shift)
	assert.Equal(t, int8(-3), zp)
	assert.Len(t, x.Q7s(), 3)

	assert.ErrorIs(t, x.BindBlock(make([]byte, 3)), ErrStorageSize)
}

func TestFloatViewsAreZeroCopy(t *testing.T) {
	x, err := FromFloat64s(Float32, []float64{1, 2, 3, 4}, 2, 2)
	require.NoError(t, err)

	data := x.Float32s()
	data[0] = 42
	if x.Float32s()[0] != 42 {
		t.Error("Float32s should return zero-copy slice")
	}

	y, err := FromFloat64s(Float64, []float64{1, 2}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, y.Float64s())
}

func TestViewPanicsOnWrongDType(t *testing.T) {
	x, err := FromFloat64s(Float64, []float64{1}, 1, 1)
	require.NoError(t, err)
	assert.Panics(t, func() { x.Float32s() })
	assert.Panics(t, func() { x.Q7s() })
}

func TestSameExtent(t *testing.T) {
	a, err := FromFloat64s(Float32, []float64{1, 2}, 1, 2)
	require.NoError(t, err)
	b, err := FromFloat64s(Float32, []float64{3, 4}, 1, 2)
	require.NoError(t, err)
	c, err := FromFloat64s(Float32, []float64{1, 2}, 2, 1)
	require.NoError(t, err)
	d, err := FromFloat64s(Float64, []float64{1, 2}, 1, 2)
	require.NoError(t, err)

	require.NoError(t, SameExtent(a, b))
	assert.ErrorIs(t, SameExtent(a, c), ErrShapeMismatch)
	assert.ErrorIs(t, SameExtent(a, d), ErrDTypeMismatch)

	unbound, err := New(Float32, 1, 2)
	require.NoError(t, err)
	assert.True(t, errors.Is(SameExtent(a, unbound), ErrUnbound))
}

func TestQuantizeRoundTrip(t *testing.T) {
	values := []float64{-1.5, -0.25, 0, 0.5, 1.75}
	x, err := FromFloat64s(Q7, values, 1, 5)
	require.NoError(t, err)

	shift, zp := x.Q7Params()
	assert.Equal(t, uint16(6), shift)
	assert.Equal(t, int8(0), zp)

	for i, v := range Values(x) {
		assert.InDelta(t, values[i], v, 1.0/64)
	}
}

func TestQuantizeSaturates(t *testing.T) {
	assert.Equal(t, int8(math.MaxInt8), Quantize(10, 7, 0))
	assert.Equal(t, int8(math.MinInt8), Quantize(-10, 7, 0))
	assert.Equal(t, int8(-128), Quantize(0, 8, -128))
}

func TestScalars(t *testing.T) {
	assert.Equal(t, Float32, F32(0.1).DType())
	assert.Equal(t, Float64, F64(0.1).DType())
	assert.InDelta(t, 0.1, F32(0.1).Float64(), 1e-7)

	q := ScalarOf(Q7, 0.1)
	require.Equal(t, Q7, q.DType())
	assert.InDelta(t, 0.1, q.Float64(), 1.0/128)
	assert.Contains(t, q.(Q7Scalar).String(), "shift 7")
}

func TestShiftFor(t *testing.T) {
	assert.Equal(t, uint16(14), ShiftFor(0))
	assert.Equal(t, uint16(7), ShiftFor(0.99))
	assert.Equal(t, uint16(6), ShiftFor(1))
	assert.Equal(t, uint16(0), ShiftFor(127))
}
