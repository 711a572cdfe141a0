package mandelbrot

import (
	"fmt"
	"strings"
	"time"
)

// Backend selects which renderer Render uses.
type Backend string

const (
	// BackendAuto uses the GPU renderer and falls back to the software
	// renderer when the GPU is unavailable or fails.
	BackendAuto Backend = "auto"
	// BackendGPU requires the GPU renderer.
	BackendGPU Backend = "gpu"
	// BackendCPU uses the software renderer only.
	BackendCPU Backend = "cpu"
)

// ParseBackend parses "auto", "gpu" or "cpu" (case-insensitive).
// The empty string means BackendAuto.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return BackendAuto, nil
	case BackendAuto, BackendGPU, BackendCPU:
		return b, nil
	default:
		return "", fmt.Errorf("mandelbrot: unknown backend %q (want auto, gpu or cpu)", s)
	}
}

// DefaultTimeout bounds a whole render, including the GPU fence wait.
const DefaultTimeout = 100 * time.Second

// Option configures Render and RenderImage.
//
// Example:
//
//	img, err := mandelbrot.RenderImage(ctx, view,
//	    mandelbrot.WithBackend(mandelbrot.BackendGPU),
//	    mandelbrot.WithShader("shaders/comp.spv"))
type Option func(*options)

type options struct {
	backend    Backend
	workers    int
	timeout    time.Duration
	shader     string
	validation bool
}

func defaultOptions() options {
	return options{
		backend: BackendAuto,
		timeout: DefaultTimeout,
	}
}

// WithBackend selects the renderer.
func WithBackend(b Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithWorkers sets the CPU worker count for the software renderer and the
// pixel conversion. Zero means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithTimeout bounds the render. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithShader loads the compute shader from a file instead of the embedded
// one. Files ending in .spv are read as SPIR-V, anything else as WGSL.
// Only renderers implementing ShaderAware honour it.
func WithShader(path string) Option {
	return func(o *options) {
		o.shader = path
	}
}

// WithValidation enables the graphics API's validation layers for the GPU
// renderer. Messages are logged through Logger(). Only renderers
// implementing ValidationAware honour it.
func WithValidation(enabled bool) Option {
	return func(o *options) {
		o.validation = enabled
	}
}
