//go:build windows

package main

import (
	"fmt"

	"github.com/born-ml/microlayer/backend/webgpu"
	"github.com/born-ml/microlayer/tensor"
)

func newKernels(dtype tensor.DataType, gpu bool) (kernels, func(), error) {
	if !gpu {
		return newCPUKernels(dtype)
	}
	if dtype != tensor.Float32 {
		return nil, nil, fmt.Errorf("-gpu: WebGPU kernels support f32 only, got %s", dtype)
	}
	k, err := webgpu.New()
	if err != nil {
		return nil, nil, err
	}
	return k, k.Release, nil
}
