package mandelbrot

import "errors"

// Sentinel errors. Callers match them with errors.Is; the renderers wrap
// them with the failing step for context.
var (
	// ErrInvalidView is returned when a View fails validation.
	ErrInvalidView = errors.New("mandelbrot: invalid view")

	// ErrNoRenderer is returned when the GPU backend is requested but no
	// GPU renderer has been registered (import github.com/gogpu/mandelbrot/gpu).
	ErrNoRenderer = errors.New("mandelbrot: no GPU renderer registered")

	// ErrFallbackToCPU indicates the GPU renderer cannot serve the request.
	// With BackendAuto the software renderer takes over transparently.
	ErrFallbackToCPU = errors.New("mandelbrot: falling back to CPU rendering")

	// ErrNoAdapter is returned when the graphics backend exposes no device.
	ErrNoAdapter = errors.New("mandelbrot: no physical devices found")

	// ErrNoComputeQueue is returned when no queue family supports compute.
	ErrNoComputeQueue = errors.New("mandelbrot: could not find a queue family with compute capabilities")

	// ErrShaderNotFound is returned when a shader file does not exist.
	ErrShaderNotFound = errors.New("mandelbrot: no such file")

	// ErrInvalidSPIRV is returned when a shader binary is not SPIR-V.
	ErrInvalidSPIRV = errors.New("mandelbrot: invalid SPIR-V")

	// ErrShaderCompile is returned when a user-supplied shader fails to
	// compile or the device rejects its pipeline.
	ErrShaderCompile = errors.New("mandelbrot: shader compilation failed")

	// ErrTimeout is returned when the GPU does not signal completion in time.
	ErrTimeout = errors.New("mandelbrot: timed out waiting for GPU")

	// ErrFrameSize is returned when pixel data does not match frame dimensions.
	ErrFrameSize = errors.New("mandelbrot: frame size mismatch")

	// ErrUnsupportedFormat is returned for output paths with an unknown extension.
	ErrUnsupportedFormat = errors.New("mandelbrot: unsupported image format")
)
