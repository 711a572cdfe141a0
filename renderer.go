package mandelbrot

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Renderer produces the pixel buffer for a view.
//
// Render receives a view with supersampling already folded in (see
// View.Scaled) and must fill every pixel of the returned frame.
type Renderer interface {
	// Name identifies the renderer in logs (e.g. "wgpu-compute", "software").
	Name() string

	// Render computes the frame. Implementations honour ctx cancellation
	// and deadlines between units of work.
	Render(ctx context.Context, v View) (*Frame, error)

	// Close releases the renderer's resources.
	Close()
}

// GPURenderer is a Renderer backed by a graphics device.
//
// Implementations are provided by GPU backend packages and registered via
// blank import:
//
//	import _ "github.com/gogpu/mandelbrot/gpu"
type GPURenderer interface {
	Renderer

	// Init acquires the device and builds the pipeline. Render calls it
	// lazily, so calling Init up front only moves the cost.
	Init() error
}

// DeviceProviderAware is an optional interface for renderers that can run
// on a device owned by the host application instead of creating their own.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

// ShaderAware is an optional interface for renderers that can load a
// compute shader from a file (WGSL source or a SPIR-V binary).
type ShaderAware interface {
	SetShaderFile(path string) error
}

// TimeoutAware is an optional interface for renderers that wait on the
// device. SetTimeout bounds a single wait.
type TimeoutAware interface {
	SetTimeout(d time.Duration)
}

// ValidationAware is an optional interface for renderers whose graphics
// API offers validation layers. Validation messages go to Logger().
type ValidationAware interface {
	SetValidation(enabled bool) error
}

// AdapterNamer is an optional interface reporting the device in use.
type AdapterNamer interface {
	AdapterName() string
}

var (
	gpuMu sync.RWMutex
	gpu   GPURenderer
)

// RegisterRenderer registers the GPU renderer.
//
// Only one renderer can be registered; a later call replaces and closes the
// previous one. Device initialization is deferred until the first render so
// that registering through a blank import costs nothing for CPU-only runs.
func RegisterRenderer(r GPURenderer) error {
	if r == nil {
		return errors.New("mandelbrot: renderer must not be nil")
	}
	propagateLogger(r, Logger())

	gpuMu.Lock()
	old := gpu
	gpu = r
	gpuMu.Unlock()

	if old != nil && old != r {
		old.Close()
	}
	return nil
}

// GPU returns the registered GPU renderer, or nil if none.
func GPU() GPURenderer {
	gpuMu.RLock()
	r := gpu
	gpuMu.RUnlock()
	return r
}

// SetRendererDeviceProvider passes a device provider to the registered GPU
// renderer. It is a no-op when no renderer is registered or the renderer
// cannot share devices.
func SetRendererDeviceProvider(provider any) error {
	r := GPU()
	if r == nil {
		return nil
	}
	if dpa, ok := r.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
