// Package tensor provides the tensor descriptor consumed by microlayer layers.
//
// A Tensor is a view: it carries a dtype tag, a shared shape handle, and
// storage that is owned and bound by an external memory planner. Nothing in
// this package allocates tensor storage on behalf of a layer.
package tensor

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Float32 DataType = iota
	Float64
	// Q7 is an 8-bit affine quantized type: real = (q - zeroPoint) * 2^-shift.
	Q7
)

// q7ParamsSize is the byte size of the Q7 parameter block:
// uint16 shift (little endian), int8 zero point, one pad byte.
const q7ParamsSize = 4

// Size returns the byte size of one element of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32:
		return 4
	case Float64:
		return 8
	case Q7:
		return 1
	default:
		panic("unknown data type")
	}
}

// ParamsSize returns the byte size of the per-tensor parameter block.
// Float types carry no parameters.
func (dt DataType) ParamsSize() int {
	if dt == Q7 {
		return q7ParamsSize
	}
	return 0
}

// Quantized reports whether values of this type need a parameter block to be read.
func (dt DataType) Quantized() bool {
	return dt == Q7
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Q7:
		return "q7"
	default:
		return "unknown"
	}
}

// ParseDataType converts a short name (f32, float32, f64, float64, q7) to a DataType.
func ParseDataType(name string) (DataType, bool) {
	switch name {
	case "f32", "float32":
		return Float32, true
	case "f64", "float64":
		return Float64, true
	case "q7":
		return Q7, true
	default:
		return 0, false
	}
}
