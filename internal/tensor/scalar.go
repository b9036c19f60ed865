package tensor

import (
	"fmt"
	"math"
)

// Scalar is a single value in one of the supported numeric representations.
type Scalar interface {
	DType() DataType
	Float64() float64
}

// F32 is a float32 scalar.
type F32 float32

// DType returns Float32.
func (F32) DType() DataType { return Float32 }

// Float64 returns the value widened to float64.
func (s F32) Float64() float64 { return float64(s) }

// F64 is a float64 scalar.
type F64 float64

// DType returns Float64.
func (F64) DType() DataType { return Float64 }

// Float64 returns the value.
func (s F64) Float64() float64 { return float64(s) }

// Q7Scalar is a quantized scalar: real = (Value - ZeroPoint) * 2^-Shift.
type Q7Scalar struct {
	Value     int8
	Shift     uint16
	ZeroPoint int8
}

// DType returns Q7.
func (Q7Scalar) DType() DataType { return Q7 }

// Float64 returns the dequantized value.
func (s Q7Scalar) Float64() float64 {
	return Dequantize(s.Value, s.Shift, s.ZeroPoint)
}

func (s Q7Scalar) String() string {
	return fmt.Sprintf("%g (q7 %d, shift %d, zero point %d)", s.Float64(), s.Value, s.Shift, s.ZeroPoint)
}

// QuantizeScalar converts v to a Q7Scalar with the given parameters.
func QuantizeScalar(v float64, shift uint16, zeroPoint int8) Q7Scalar {
	return Q7Scalar{Value: Quantize(v, shift, zeroPoint), Shift: shift, ZeroPoint: zeroPoint}
}

// ScalarOf converts v to a scalar of the given dtype. Q7 uses shift 7 and zero point 0.
func ScalarOf(dtype DataType, v float64) Scalar {
	switch dtype {
	case Float32:
		return F32(v)
	case Float64:
		return F64(v)
	case Q7:
		return QuantizeScalar(v, 7, 0)
	default:
		panic("unknown data type")
	}
}

// Dequantize converts a q7 value to a real number.
func Dequantize(q int8, shift uint16, zeroPoint int8) float64 {
	return float64(int(q)-int(zeroPoint)) / float64(uint64(1)<<shift)
}

// Quantize converts a real number to q7, rounding to nearest and saturating.
func Quantize(v float64, shift uint16, zeroPoint int8) int8 {
	q := math.Round(v*float64(uint64(1)<<shift)) + float64(zeroPoint)
	switch {
	case q > math.MaxInt8:
		return math.MaxInt8
	case q < math.MinInt8:
		return math.MinInt8
	default:
		return int8(q)
	}
}
