// Package main provides the microlayer CLI.
//
// Usage:
//
//	microlayer version
//	microlayer run -dtype f32 -alpha 0.1 -x -2,0,3 -g 1,1,1
//
// run builds Input -> Leaky ReLU -> Sigmoid -> Sink with one batch row,
// performs a forward and a backward pass, and prints every tensor.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/born-ml/microlayer/backend/cpu"
	"github.com/born-ml/microlayer/layer"
	"github.com/born-ml/microlayer/tensor"
)

const version = "v0.0.1-dev"

// kernels is what the activation chain needs from a backend.
type kernels interface {
	layer.LeakyReLUKernels
	layer.SigmoidKernels
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("microlayer %s\n", version)
		return
	}
	if len(os.Args) > 1 && os.Args[1] == "run" {
		if err := run(os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "microlayer: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("microlayer - activation layers for small networks")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  run        Run one forward and backward pass")
}

func run(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(w)
	dtypeName := fs.String("dtype", "f32", "Data type: f32, f64 or q7")
	alpha := fs.Float64("alpha", 0.01, "Leaky ReLU slope for negative inputs")
	xFlag := fs.String("x", "-2,0,3", "Comma separated input values")
	gFlag := fs.String("g", "", "Comma separated loss gradient (default all ones)")
	arenaSize := fs.Int("arena", 0, "Scratch arena size in bytes (0 sizes it from the chain)")
	useGPU := fs.Bool("gpu", false, "Use WebGPU kernels (Windows, f32 only)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dtype, ok := tensor.ParseDataType(*dtypeName)
	if !ok {
		return fmt.Errorf("unknown dtype %q", *dtypeName)
	}
	x, err := parseValues(*xFlag)
	if err != nil {
		return fmt.Errorf("-x: %w", err)
	}
	g := make([]float64, len(x))
	for i := range g {
		g[i] = 1
	}
	if *gFlag != "" {
		if g, err = parseValues(*gFlag); err != nil {
			return fmt.Errorf("-g: %w", err)
		}
		if len(g) != len(x) {
			return fmt.Errorf("-g has %d values, -x has %d", len(g), len(x))
		}
	}

	k, release, err := newKernels(dtype, *useGPU)
	if err != nil {
		return err
	}
	defer release()

	in, err := layer.NewInput(dtype, 1, len(x))
	if err != nil {
		return err
	}
	lr, err := layer.NewLeakyReLU(in, tensor.ScalarOf(dtype, *alpha), k)
	if err != nil {
		return err
	}
	sg := &layer.Sigmoid{Kernels: k}
	if _, err := sg.Init(lr); err != nil {
		return err
	}
	out, err := layer.NewSink(sg)
	if err != nil {
		return err
	}

	size := *arenaSize
	if size == 0 {
		size = sg.ScratchSize()
	}
	scratch, err := layer.NewArena(size)
	if err != nil {
		return err
	}
	sg.Scratch = scratch

	for _, t := range []*tensor.Tensor{in.Result(), lr.Result(), lr.Deltas(), sg.Result(), sg.Deltas(), out.Deltas()} {
		if err := tensor.Allocate(t); err != nil {
			return err
		}
	}
	if err := tensor.Fill(in.Result(), x); err != nil {
		return err
	}
	if err := tensor.Fill(out.Deltas(), g); err != nil {
		return err
	}

	chain := []layer.Layer{in, lr, sg, out}
	for _, l := range chain {
		if err := layer.Describe(l, printer(w)); err != nil && !errors.Is(err, layer.ErrMissingCapability) {
			return err
		}
	}
	if err := layer.Forward(chain...); err != nil {
		return err
	}
	if err := layer.Backward(chain...); err != nil {
		return err
	}

	fmt.Fprintf(w, "input:            %v\n", tensor.Values(in.Result()))
	fmt.Fprintf(w, "leaky relu:       %v\n", tensor.Values(lr.Result()))
	fmt.Fprintf(w, "sigmoid:          %v\n", tensor.Values(sg.Result()))
	fmt.Fprintf(w, "loss gradient:    %v\n", tensor.Values(out.Deltas()))
	fmt.Fprintf(w, "sigmoid deltas:   %v\n", tensor.Values(sg.Deltas()))
	fmt.Fprintf(w, "leaky relu deltas: %v\n", tensor.Values(lr.Deltas()))

	stats := scratch.Stats()
	fmt.Fprintf(w, "scratch: peak %d of %d bytes, %d in use\n", stats.PeakBytes, scratch.Capacity(), stats.InUse)
	return nil
}

func newCPUKernels(dtype tensor.DataType) (kernels, func(), error) {
	k, err := cpu.New(dtype)
	if err != nil {
		return nil, nil, err
	}
	return k, func() {}, nil
}

func printer(w io.Writer) layer.Printf {
	return func(format string, args ...any) (int, error) {
		return fmt.Fprintf(w, format, args...)
	}
}

func parseValues(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	values := make([]float64, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, errors.New("no values")
	}
	return values, nil
}
