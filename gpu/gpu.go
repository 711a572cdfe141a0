//go:build !nogpu

// Package gpu registers the wgpu compute renderer with the mandelbrot package.
//
// Import it for its side effect:
//
//	import _ "github.com/gogpu/mandelbrot/gpu"
//
// Registration does not touch the GPU; the device is opened on the first
// render. If that fails and the backend is mandelbrot.BackendAuto, rendering
// falls back to the CPU.
package gpu

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/mandelbrot"
	gpuimpl "github.com/gogpu/mandelbrot/internal/gpu"
)

// Report is the result of a capability probe.
type Report = gpuimpl.Report

// AdapterReport describes one adapter in a Report.
type AdapterReport = gpuimpl.AdapterReport

func init() {
	if err := mandelbrot.RegisterRenderer(gpuimpl.NewRenderer()); err != nil {
		mandelbrot.Logger().Warn("GPU renderer not available", "err", err)
	}
}

// SetDeviceProvider makes the registered renderer run on a device shared by
// the host application instead of opening its own. The provider must also
// expose HalDevice() and HalQueue() for direct HAL access.
func SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	return mandelbrot.SetRendererDeviceProvider(provider)
}

// Probe enumerates GPU adapters without opening a device.
func Probe() (*Report, error) {
	return gpuimpl.Probe()
}

// CompileShader compiles WGSL source to SPIR-V. An empty source compiles
// the embedded shader.
func CompileShader(wgsl string) ([]byte, error) {
	if wgsl == "" {
		wgsl = gpuimpl.EmbeddedShaderSource()
	}
	return gpuimpl.CompileSPIRV(wgsl)
}
