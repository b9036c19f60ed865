package tensor

import "fmt"

// Allocate binds freshly allocated storage to t. Hosts and tests use it in
// place of a memory planner; layers never call it.
func Allocate(t *Tensor) error {
	var params []byte
	if n := t.SizeofParams(); n > 0 {
		params = make([]byte, n)
	}
	return t.Bind(make([]byte, t.SizeofData()), params)
}

// FromFloat64s creates an owning tensor of the given dtype and dims, allocates
// its storage, and fills it with values. Q7 tensors are quantized with shift
// and zero point chosen by ChooseQ7Params.
func FromFloat64s(dtype DataType, values []float64, dims ...int) (*Tensor, error) {
	t, err := New(dtype, dims...)
	if err != nil {
		return nil, err
	}
	if t.NumElements() != len(values) {
		return nil, fmt.Errorf("%w: shape %v requires %d elements, but got %d",
			ErrShapeMismatch, t.Shape(), t.NumElements(), len(values))
	}
	if err := Allocate(t); err != nil {
		return nil, err
	}
	if err := Fill(t, values); err != nil {
		return nil, err
	}
	return t, nil
}

// Fill writes values into a bound tensor, converting to its dtype.
func Fill(t *Tensor, values []float64) error {
	if err := t.CheckStorage(); err != nil {
		return err
	}
	if len(values) != t.NumElements() {
		return fmt.Errorf("%w: %d values for %d elements", ErrShapeMismatch, len(values), t.NumElements())
	}
	switch t.dtype {
	case Float32:
		dst := t.Float32s()
		for i, v := range values {
			dst[i] = float32(v)
		}
	case Float64:
		copy(t.Float64s(), values)
	case Q7:
		shift, zp := ChooseQ7Params(values)
		t.SetQ7Params(shift, zp)
		dst := t.Q7s()
		for i, v := range values {
			dst[i] = Quantize(v, shift, zp)
		}
	}
	return nil
}

// Values returns the tensor contents converted to float64.
func Values(t *Tensor) []float64 {
	out := make([]float64, t.NumElements())
	switch t.dtype {
	case Float32:
		for i, v := range t.Float32s() {
			out[i] = float64(v)
		}
	case Float64:
		copy(out, t.Float64s())
	case Q7:
		shift, zp := t.Q7Params()
		for i, q := range t.Q7s() {
			out[i] = Dequantize(q, shift, zp)
		}
	}
	return out
}

// ChooseQ7Params returns the largest shift (zero point 0) at which every value
// fits into int8. Shift is capped at 14.
func ChooseQ7Params(values []float64) (shift uint16, zeroPoint int8) {
	maxAbs := 0.0
	for _, v := range values {
		if v < 0 {
			v = -v
		}
		if v > maxAbs {
			maxAbs = v
		}
	}
	return ShiftFor(maxAbs), 0
}

// ShiftFor returns the largest shift in [0, 14] with round(maxAbs*2^shift) <= 127.
func ShiftFor(maxAbs float64) uint16 {
	shift := uint16(14)
	for shift > 0 && maxAbs*float64(uint64(1)<<shift) >= 127.5 {
		shift--
	}
	return shift
}
