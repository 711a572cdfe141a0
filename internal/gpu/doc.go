//go:build !nogpu

// Package gpu implements the Mandelbrot compute renderer on the Pure Go
// WebGPU HAL (github.com/gogpu/wgpu/hal, Vulkan backend, zero CGO).
//
// A render is one offline compute-and-capture pass, in this order:
//
//	probe adapters -> instance -> device + queue -> storage/staging/uniform
//	buffers -> bind group layout + bind group -> shader module -> pipeline
//	layout + compute pipeline -> command encoder -> compute pass dispatch ->
//	copy to staging -> submit with fence -> wait -> read back -> decode
//
// The pipeline (shader, layouts, pipeline) is built once per device and
// reused; buffers live for a single render.
//
// # Banding
//
// A frame larger than the maximum storage buffer binding is rendered in
// horizontal bands. Each band is its own dispatch with a row offset in the
// uniform parameters; bands are submitted and read back one after another.
//
// # Shaders
//
// The WGSL shader in shaders/mandelbrot.wgsl is embedded. A replacement can
// be loaded from a WGSL file or from a SPIR-V binary; it must keep the same
// bindings (0: uniform Params, 1: storage array<vec4<f32>>) and entry point.
package gpu
