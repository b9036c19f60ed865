package layer

import "fmt"

// Printf matches fmt.Printf.
type Printf = func(format string, args ...any) (int, error)

// Type identifies a kind of layer. There is one immutable Type value per
// kind, compared by pointer.
//
// PrintSpecs is set only in builds with the aidebug tag and must be checked
// for nil before use; Describe does that.
type Type struct {
	Name       string
	PrintSpecs func(l Layer, print Printf)
}

func (t *Type) String() string {
	return t.Name
}

// Layer types.
var (
	InputType     = &Type{Name: "Input", PrintSpecs: debugSpecs(printInputSpecs)}
	LeakyReLUType = &Type{Name: "Leaky ReLU", PrintSpecs: debugSpecs(printLeakyReLUSpecs)}
	SigmoidType   = &Type{Name: "Sigmoid", PrintSpecs: debugSpecs(printSigmoidSpecs)}
	SinkType      = &Type{Name: "Sink", PrintSpecs: debugSpecs(printSinkSpecs)}
)

// Is reports whether l is an initialized layer of kind t.
func Is(l Layer, t *Type) bool {
	if l == nil {
		return false
	}
	n := l.Base()
	return n != nil && n.typ == t
}

// Describe prints the layer name followed by its specs.
// It returns ErrMissingCapability when specs printing is compiled out.
func Describe(l Layer, print Printf) error {
	var n *Node
	if l != nil {
		n = l.Base()
	}
	if n == nil || n.typ == nil {
		return fmt.Errorf("%w: layer is not initialized", ErrInvalidGraph)
	}
	if n.typ.PrintSpecs == nil {
		return fmt.Errorf("%w: %s specs printing requires the aidebug build tag", ErrMissingCapability, n.typ.Name)
	}
	_, _ = print("%s (", n.typ.Name)
	n.typ.PrintSpecs(l, print)
	_, _ = print(")\n")
	return nil
}

func debugSpecs(f func(Layer, Printf)) func(Layer, Printf) {
	if !debugPrintSpecs {
		return nil
	}
	return f
}

func printInputSpecs(l Layer, print Printf) {
	_, _ = print("shape: %v", l.Base().Result().Shape())
}

func printLeakyReLUSpecs(l Layer, print Printf) {
	lr, ok := l.(*LeakyReLU)
	if !ok || lr.Alpha == nil {
		return
	}
	_, _ = print("alpha: ")
	if p, ok := lr.Kernels.(ScalarPrinter); ok {
		p.PrintScalar(lr.Alpha, print)
		return
	}
	_, _ = print("%g", lr.Alpha.Float64())
}

func printSigmoidSpecs(Layer, Printf) {}

func printSinkSpecs(Layer, Printf) {}
