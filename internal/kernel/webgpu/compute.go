//go:build windows

package webgpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/born-ml/microlayer/internal/tensor"
	"github.com/go-webgpu/webgpu/wgpu"
)

// compileShader compiles WGSL shader code into a ShaderModule.
// Results are cached by name.
func (k *Kernels) compileShader(name, code string) *wgpu.ShaderModule {
	k.mu.RLock()
	if shader, exists := k.shaders[name]; exists {
		k.mu.RUnlock()
		return shader
	}
	k.mu.RUnlock()

	shader := k.device.CreateShaderModuleWGSL(code)

	k.mu.Lock()
	k.shaders[name] = shader
	k.mu.Unlock()

	return shader
}

// getOrCreatePipeline returns a cached ComputePipeline or creates a new one.
func (k *Kernels) getOrCreatePipeline(name string, shader *wgpu.ShaderModule) *wgpu.ComputePipeline {
	k.mu.RLock()
	if pipeline, exists := k.pipelines[name]; exists {
		k.mu.RUnlock()
		return pipeline
	}
	k.mu.RUnlock()

	// Auto layout (nil layout)
	pipeline := k.device.CreateComputePipelineSimple(nil, shader, "main")

	k.mu.Lock()
	k.pipelines[name] = pipeline
	k.mu.Unlock()

	return pipeline
}

// createBuffer creates a GPU buffer holding data.
func (k *Kernels) createBuffer(data []byte, usage wgpu.BufferUsage) *wgpu.Buffer {
	size := uint64(len(data))

	buffer := k.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer
}

// createUniformBuffer creates a uniform buffer rounded up to 16 bytes.
func (k *Kernels) createUniformBuffer(data []byte) *wgpu.Buffer {
	size := uint64(len(data))
	alignedSize := (size + 15) &^ 15

	buffer := k.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:             alignedSize,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, alignedSize)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), alignedSize)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer
}

// readBuffer copies size bytes of src into dst through a staging buffer.
func (k *Kernels) readBuffer(src *wgpu.Buffer, dst []byte) error {
	size := uint64(len(dst))
	staging := k.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer staging.Release()

	encoder := k.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(src, 0, staging, 0, size)
	cmdBuffer := encoder.Finish(nil)
	k.queue.Submit(cmdBuffer)

	if err := staging.MapAsync(k.device, wgpu.MapModeRead, 0, size); err != nil {
		return fmt.Errorf("webgpu: map staging buffer: %w", err)
	}

	mappedPtr := staging.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	copy(dst, unsafe.Slice((*byte)(mappedPtr), size))
	staging.Unmap()
	return nil
}

// run dispatches an elementwise shader over inputs and writes the output into
// result's bound storage. Inputs are uploaded before anything is written, so
// result may alias any of them.
func (k *Kernels) run(name, code string, result *tensor.Tensor, alpha float32, inputs ...*tensor.Tensor) error {
	n := result.NumElements()
	if n == 0 {
		return nil
	}

	k.submit.Lock()
	defer k.submit.Unlock()

	shader := k.compileShader(name, code)
	pipeline := k.getOrCreatePipeline(name, shader)

	//nolint:gosec // G115: SizeofData is non-negative
	size := uint64(result.SizeofData())

	entries := make([]wgpu.BindGroupEntry, 0, len(inputs)+2)
	for i, in := range inputs {
		buf := k.createBuffer(in.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
		defer buf.Release()
		//nolint:gosec // G115: at most two inputs
		entries = append(entries, wgpu.BufferBindingEntry(uint32(i), buf, 0, size))
	}

	bufferResult := k.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer bufferResult.Release()

	// Params: size u32, alpha f32
	params := make([]byte, 16)
	//nolint:gosec // G115: NumElements is non-negative
	binary.LittleEndian.PutUint32(params[0:4], uint32(n))
	binary.LittleEndian.PutUint32(params[4:8], math.Float32bits(alpha))
	bufferParams := k.createUniformBuffer(params)
	defer bufferParams.Release()

	//nolint:gosec // G115: at most two inputs
	next := uint32(len(inputs))
	entries = append(entries,
		wgpu.BufferBindingEntry(next, bufferResult, 0, size),
		wgpu.BufferBindingEntry(next+1, bufferParams, 0, 16),
	)

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := k.device.CreateBindGroupSimple(bindGroupLayout, entries)
	defer bindGroup.Release()

	encoder := k.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)
	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)

	//nolint:gosec // G115: workgroup count is non-negative
	workgroups := uint32((n + workgroupSize - 1) / workgroupSize)
	computePass.DispatchWorkgroups(workgroups, 1, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	k.queue.Submit(cmdBuffer)

	return k.readBuffer(bufferResult, result.Data())
}
