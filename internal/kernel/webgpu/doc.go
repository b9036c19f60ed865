// Package webgpu implements the float32 activation kernels as WebGPU compute
// shaders. It uses go-webgpu (github.com/go-webgpu/webgpu) for zero-CGO
// bindings to wgpu-native and is built on Windows only.
//
// Every call uploads its operands, dispatches one shader, and copies the
// result back into the caller's storage before returning, so a kernel set can
// stand in for the CPU float32 kernels without changing how layers bind
// memory.
package webgpu
