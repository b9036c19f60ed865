//go:build windows

package webgpu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/born-ml/microlayer/internal/tensor"
	"github.com/go-webgpu/webgpu/wgpu"
)

// Printf matches fmt.Printf.
type Printf = func(format string, args ...any) (int, error)

// ErrUnavailable is returned by New when no WebGPU adapter can be used.
var ErrUnavailable = errors.New("webgpu: not available")

// Kernels is a float32 kernel set running on a WebGPU device.
type Kernels struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	// Shader and pipeline cache
	shaders   map[string]*wgpu.ShaderModule
	pipelines map[string]*wgpu.ComputePipeline
	mu        sync.RWMutex

	// submit serializes dispatch and readback on the queue.
	submit sync.Mutex
}

// New opens the default adapter and device.
func New() (k *Kernels, err error) {
	// Recover from panic if wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			k = nil
			err = fmt.Errorf("%w: native library: %v", ErrUnavailable, r)
		}
	}()

	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %w", ErrUnavailable, err)
	}
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("%w: request adapter: %w", ErrUnavailable, err)
	}
	device, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: request device: %w", ErrUnavailable, err)
	}
	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: device has no queue", ErrUnavailable)
	}

	return &Kernels{
		instance:  instance,
		adapter:   adapter,
		device:    device,
		queue:     queue,
		shaders:   make(map[string]*wgpu.ShaderModule),
		pipelines: make(map[string]*wgpu.ComputePipeline),
	}, nil
}

// IsAvailable reports whether an adapter can be requested on this system.
func IsAvailable() (available bool) {
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		return false
	}
	defer instance.Release()

	adapter, err := instance.RequestAdapter(nil)
	if err != nil {
		return false
	}
	adapter.Release()
	return true
}

// Release frees the cached pipelines and the device.
func (k *Kernels) Release() {
	k.mu.Lock()
	defer k.mu.Unlock()

	for name, p := range k.pipelines {
		p.Release()
		delete(k.pipelines, name)
	}
	for name, s := range k.shaders {
		s.Release()
		delete(k.shaders, name)
	}
	if k.queue != nil {
		k.queue.Release()
		k.queue = nil
	}
	if k.device != nil {
		k.device.Release()
		k.device = nil
	}
	if k.adapter != nil {
		k.adapter.Release()
		k.adapter = nil
	}
	if k.instance != nil {
		k.instance.Release()
		k.instance = nil
	}
}

// Name returns "webgpu".
func (k *Kernels) Name() string {
	return "webgpu"
}

// DType returns tensor.Float32, the only type the shaders handle.
func (k *Kernels) DType() tensor.DataType {
	return tensor.Float32
}

// LeakyReLU computes result = x < 0 ? alpha*x : x.
func (k *Kernels) LeakyReLU(x *tensor.Tensor, alpha tensor.Scalar, result *tensor.Tensor) error {
	a, err := k.alpha(alpha)
	if err != nil {
		return err
	}
	if err := k.check(x, result); err != nil {
		return err
	}
	return k.run("leaky_relu", leakyReLUShader, result, a, x)
}

// LeakyReLUDerivative computes result = x < 0 ? alpha : 1.
func (k *Kernels) LeakyReLUDerivative(x *tensor.Tensor, alpha tensor.Scalar, result *tensor.Tensor) error {
	a, err := k.alpha(alpha)
	if err != nil {
		return err
	}
	if err := k.check(x, result); err != nil {
		return err
	}
	return k.run("leaky_relu_derivative", leakyReLUDerivativeShader, result, a, x)
}

// Sigmoid computes result = 1 / (1 + exp(-x)).
func (k *Kernels) Sigmoid(x, result *tensor.Tensor) error {
	if err := k.check(x, result); err != nil {
		return err
	}
	return k.run("sigmoid", sigmoidShader, result, 0, x)
}

// SigmoidDerivative computes result = s * (1 - s).
func (k *Kernels) SigmoidDerivative(s, result *tensor.Tensor) error {
	if err := k.check(s, result); err != nil {
		return err
	}
	return k.run("sigmoid_derivative", sigmoidDerivativeShader, result, 0, s)
}

// Multiply computes result = a * b. result may alias a or b.
func (k *Kernels) Multiply(a, b, result *tensor.Tensor) error {
	if err := k.check(a, b, result); err != nil {
		return err
	}
	return k.run("mul", mulShader, result, 0, a, b)
}

// PrintScalar prints s with %g.
func (k *Kernels) PrintScalar(s tensor.Scalar, print Printf) {
	_, _ = print("%g", s.Float64())
}

func (k *Kernels) alpha(s tensor.Scalar) (float32, error) {
	if s == nil || s.DType() != tensor.Float32 {
		return 0, fmt.Errorf("%w: alpha must be float32", tensor.ErrDTypeMismatch)
	}
	return float32(s.Float64()), nil
}

func (k *Kernels) check(ts ...*tensor.Tensor) error {
	for i, t := range ts {
		if t.DType() != tensor.Float32 {
			return fmt.Errorf("%w: tensor %d is %s, kernel is float32", tensor.ErrDTypeMismatch, i, t.DType())
		}
	}
	if err := tensor.SameExtent(ts...); err != nil {
		return err
	}
	if k.device == nil {
		return fmt.Errorf("%w: kernels have been released", ErrUnavailable)
	}
	return nil
}
