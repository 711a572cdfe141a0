package mandelbrot

import (
	"context"
	"errors"
	"fmt"
	"image"
)

// Render computes the frame for v with the selected backend.
// The returned frame is at render resolution (see View.RenderSize).
func Render(ctx context.Context, v View, opts ...Option) (*Frame, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	switch o.backend {
	case BackendCPU:
		return renderSoftware(ctx, v, o)
	case BackendGPU:
		return renderGPU(ctx, v, o)
	case BackendAuto:
		frame, err := renderGPU(ctx, v, o)
		if err == nil {
			return frame, nil
		}
		// A render with a user shader is never retried on the CPU.
		if ctx.Err() != nil || o.shader != "" || isShaderError(err) {
			return nil, err
		}
		Logger().Warn("GPU render failed, using software renderer", "err", err)
		return renderSoftware(ctx, v, o)
	default:
		return nil, fmt.Errorf("mandelbrot: unknown backend %q", o.backend)
	}
}

// RenderImage renders v and converts it to an 8-bit image at the view's
// output size, downsampling when supersampling is enabled.
func RenderImage(ctx context.Context, v View, opts ...Option) (*image.NRGBA, error) {
	frame, err := Render(ctx, v, opts...)
	if err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return Downsample(ToNRGBA(frame, o.workers), v.Width, v.Height), nil
}

func renderSoftware(ctx context.Context, v View, o options) (*Frame, error) {
	r := NewSoftwareRenderer(o.workers)
	defer r.Close()
	return r.Render(ctx, v)
}

func isShaderError(err error) bool {
	return errors.Is(err, ErrShaderNotFound) ||
		errors.Is(err, ErrInvalidSPIRV) ||
		errors.Is(err, ErrShaderCompile)
}

func renderGPU(ctx context.Context, v View, o options) (*Frame, error) {
	r := GPU()
	if r == nil {
		return nil, ErrNoRenderer
	}
	if ta, ok := r.(TimeoutAware); ok && o.timeout > 0 {
		ta.SetTimeout(o.timeout)
	}
	if va, ok := r.(ValidationAware); ok {
		if err := va.SetValidation(o.validation); err != nil {
			return nil, fmt.Errorf("%s: validation: %w", r.Name(), err)
		}
	} else if o.validation {
		Logger().Warn("renderer has no validation layers", "renderer", r.Name())
	}
	if o.shader != "" {
		sa, ok := r.(ShaderAware)
		if !ok {
			return nil, fmt.Errorf("mandelbrot: renderer %s cannot load shader files", r.Name())
		}
		if err := sa.SetShaderFile(o.shader); err != nil {
			return nil, err
		}
	}
	frame, err := r.Render(ctx, v)
	if err != nil {
		if errors.Is(err, ErrFallbackToCPU) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", r.Name(), err)
	}
	return frame, nil
}
