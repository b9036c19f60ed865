//go:build !windows

package main

import (
	"errors"

	"github.com/born-ml/microlayer/tensor"
)

func newKernels(dtype tensor.DataType, gpu bool) (kernels, func(), error) {
	if gpu {
		return nil, nil, errors.New("-gpu: WebGPU kernels are only built on Windows")
	}
	return newCPUKernels(dtype)
}
