package mandelbrot

import (
	"fmt"
	"math"

	"github.com/gogpu/mandelbrot/internal/parallel"
)

// Defaults for a render. The resolution is the one the program has always
// produced; the window frames the whole set.
const (
	DefaultWidth         = 3200
	DefaultHeight        = 2400
	DefaultCenterX       = -0.445
	DefaultCenterY       = 0.0
	DefaultSpan          = 2.34
	DefaultMaxIterations = 128

	// WorkgroupSize is the edge of the square compute workgroup. 16x16 keeps
	// a workgroup at 256 invocations, the WebGPU default limit.
	WorkgroupSize = 16

	// MaxIterationsLimit caps View.MaxIterations.
	MaxIterationsLimit = 1 << 16

	// MaxSupersample caps View.Supersample.
	MaxSupersample = 4

	// MaxDimension caps each side of the rendered (supersampled) frame.
	MaxDimension = 1 << 15

	// MaxPixels caps the rendered pixel count, a 4 GiB frame.
	MaxPixels = 1 << 28
)

// View describes which part of the complex plane to render and how.
type View struct {
	// Width and Height are the output image size in pixels.
	Width, Height int

	// CenterX and CenterY are the complex-plane centre of the image.
	CenterX, CenterY float64

	// Span is the vertical extent of the window in the complex plane.
	// The horizontal extent is Span*Width/Height, so pixels stay square.
	Span float64

	// MaxIterations bounds the escape-time iteration.
	MaxIterations int

	// Supersample renders at Supersample times the resolution on each axis
	// and downscales the result. 0 and 1 both mean no supersampling.
	Supersample int
}

// DefaultView returns the view the program renders without configuration.
func DefaultView() View {
	return View{
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		CenterX:       DefaultCenterX,
		CenterY:       DefaultCenterY,
		Span:          DefaultSpan,
		MaxIterations: DefaultMaxIterations,
		Supersample:   1,
	}
}

// Validate reports whether the view can be rendered. The rendered size
// (see RenderSize) must stay within MaxDimension per side and MaxPixels
// in total, which keeps pixel indices within uint32.
func (v View) Validate() error {
	switch {
	case v.Width <= 0 || v.Height <= 0:
		return fmt.Errorf("%w: size %dx%d must be positive", ErrInvalidView, v.Width, v.Height)
	case v.Supersample < 0 || v.Supersample > MaxSupersample:
		return fmt.Errorf("%w: supersample %d outside [1, %d]", ErrInvalidView, v.Supersample, MaxSupersample)
	case v.Width > MaxDimension/v.Scale() || v.Height > MaxDimension/v.Scale():
		return fmt.Errorf("%w: rendered size %dx%d at %dx supersampling exceeds %d per side",
			ErrInvalidView, v.Width, v.Height, v.Scale(), MaxDimension)
	case v.Width*v.Height*v.Scale()*v.Scale() > MaxPixels:
		return fmt.Errorf("%w: %dx%d at %dx supersampling exceeds %d pixels",
			ErrInvalidView, v.Width, v.Height, v.Scale(), MaxPixels)
	case !finite(v.CenterX) || !finite(v.CenterY):
		return fmt.Errorf("%w: center (%v, %v) must be finite", ErrInvalidView, v.CenterX, v.CenterY)
	case !finite(v.Span) || v.Span <= 0:
		return fmt.Errorf("%w: span %v must be positive", ErrInvalidView, v.Span)
	case v.MaxIterations < 1 || v.MaxIterations > MaxIterationsLimit:
		return fmt.Errorf("%w: iterations %d outside [1, %d]", ErrInvalidView, v.MaxIterations, MaxIterationsLimit)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// SpanX returns the horizontal extent of the window.
func (v View) SpanX() float64 {
	return v.Span * float64(v.Width) / float64(v.Height)
}

// SpanY returns the vertical extent of the window.
func (v View) SpanY() float64 {
	return v.Span
}

// Point maps the centre of pixel (x, y) to the complex plane.
// Row 0 is the top of the image, which is the positive imaginary side.
func (v View) Point(x, y int) (re, im float64) {
	u := (float64(x)+0.5)/float64(v.Width) - 0.5
	w := (float64(y)+0.5)/float64(v.Height) - 0.5
	return v.CenterX + u*v.SpanX(), v.CenterY - w*v.SpanY()
}

// Scale returns the factor the render resolution is multiplied by.
func (v View) Scale() int {
	return max(v.Supersample, 1)
}

// RenderSize returns the resolution actually rendered, including supersampling.
func (v View) RenderSize() (width, height int) {
	s := v.Scale()
	return v.Width * s, v.Height * s
}

// Scaled returns the view at render resolution with supersampling folded in.
func (v View) Scaled() View {
	out := v
	out.Width, out.Height = v.RenderSize()
	out.Supersample = 1
	return out
}

// Workgroups returns the dispatch grid that covers the render resolution
// with size x size workgroups, rounding up on each axis.
func (v View) Workgroups(size int) (x, y int) {
	w, h := v.RenderSize()
	return parallel.GridSize(w, h, size)
}

// BufferSize returns the size in bytes of the pixel buffer the render needs.
func (v View) BufferSize() uint64 {
	w, h := v.RenderSize()
	return uint64(w) * uint64(h) * PixelSize
}
