//go:build !nogpu

package gpu

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/mandelbrot"
)

// Renderer renders Mandelbrot frames with a wgpu/hal compute pipeline.
// It implements mandelbrot.GPURenderer.
//
// The device and pipeline are created on the first Render (or Init) and
// kept until Close. Renders are serialized.
type Renderer struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	limits   gputypes.Limits

	// maxBinding is the largest pixel buffer one band binds.
	maxBinding uint64

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	source         shaderSource
	adapterName    string
	timeout        time.Duration
	validate       bool
	gpuReady       bool
	externalDevice bool // shared device: never destroyed here
}

var (
	_ mandelbrot.GPURenderer         = (*Renderer)(nil)
	_ mandelbrot.DeviceProviderAware = (*Renderer)(nil)
	_ mandelbrot.ShaderAware         = (*Renderer)(nil)
	_ mandelbrot.TimeoutAware        = (*Renderer)(nil)
	_ mandelbrot.ValidationAware     = (*Renderer)(nil)
	_ mandelbrot.AdapterNamer        = (*Renderer)(nil)
)

// NewRenderer returns a renderer using the embedded shader and the default
// fence timeout. No GPU work happens until Init or Render.
func NewRenderer() *Renderer {
	limits := gputypes.DefaultLimits()
	return &Renderer{
		limits:     limits,
		maxBinding: maxBindingSize(limits),
		source:     embeddedShader(),
		timeout:    mandelbrot.DefaultTimeout,
	}
}

// Name returns "wgpu-compute".
func (r *Renderer) Name() string { return "wgpu-compute" }

// SetLogger routes package logging to l.
func (r *Renderer) SetLogger(l *slog.Logger) { setLogger(l) }

// SetTimeout sets the upper bound on waiting for one band's submission.
func (r *Renderer) SetTimeout(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d > 0 {
		r.timeout = d
	}
}

// SetValidation toggles the Vulkan validation layer. A device opened with
// the other setting is released and reopened on the next render. Shared
// devices are left alone.
func (r *Renderer) SetValidation(enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.validate == enabled {
		return nil
	}
	r.validate = enabled
	if r.externalDevice {
		slogger().Warn("gpu: validation setting ignored for shared device", "validate", enabled)
		return nil
	}
	if r.device != nil {
		r.destroyPipeline()
		r.releaseDevice()
		r.gpuReady = false
	}
	return nil
}

// AdapterName returns the name of the adapter in use, or "" before Init.
func (r *Renderer) AdapterName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.adapterName
}

// Init acquires a device (unless one was provided) and builds the pipeline.
func (r *Renderer) Init() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensureReady()
}

func (r *Renderer) ensureReady() error {
	if r.gpuReady {
		return nil
	}
	if r.source.label == "" {
		r.source = embeddedShader()
	}
	if r.timeout <= 0 {
		r.timeout = mandelbrot.DefaultTimeout
	}
	if r.device == nil {
		if err := r.initGPU(); err != nil {
			return err
		}
	}
	if err := r.createPipeline(r.source); err != nil {
		r.destroyPipeline()
		if r.source.userSupplied() {
			return fmt.Errorf("create pipeline for shader %s: %w: %w", r.source.label, mandelbrot.ErrShaderCompile, err)
		}
		return fmt.Errorf("create pipeline: %w", err)
	}
	r.gpuReady = true
	return nil
}

// Render computes the frame for v on the GPU.
func (r *Renderer) Render(ctx context.Context, v mandelbrot.View) (*mandelbrot.Frame, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	v = v.Scaled()

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureReady(); err != nil {
		return nil, err
	}

	start := time.Now()
	frame, err := r.renderFrame(ctx, v)
	if err != nil {
		return nil, err
	}
	slogger().Debug("gpu: frame read back", "elapsed", time.Since(start), "adapter", r.adapterName)
	return frame, nil
}

// SetShaderFile replaces the compute shader with one loaded from path.
// If the pipeline already exists it is rebuilt on the next render.
func (r *Renderer) SetShaderFile(path string) error {
	src, err := loadShaderFile(path)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.destroyPipeline()
	r.gpuReady = false
	r.source = src
	slogger().Debug("gpu: shader loaded", "path", path, "spirv_words", len(src.spirv))
	return nil
}

// SetDeviceProvider switches the renderer to a device owned by the host
// (e.g. a gogpu application). The provider must implement HalDevice() any
// and HalQueue() any returning hal.Device and hal.Queue.
func (r *Renderer) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("gpu: provider HalQueue is not hal.Queue")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.destroyPipeline()
	r.gpuReady = false
	r.releaseDevice()

	r.device = device
	r.queue = queue
	r.externalDevice = true
	r.adapterName = "shared"

	if err := r.ensureReady(); err != nil {
		return fmt.Errorf("gpu: create pipeline with shared device: %w", err)
	}
	slogger().Info("gpu: switched to shared GPU device")
	return nil
}

// Close releases the pipeline and, unless shared, the device.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.destroyPipeline()
	r.releaseDevice()
	r.gpuReady = false
}
