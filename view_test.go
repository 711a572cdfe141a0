package mandelbrot

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultView(t *testing.T) {
	v := DefaultView()
	if err := v.Validate(); err != nil {
		t.Fatalf("DefaultView().Validate() = %v", err)
	}
	if v.Width != 3200 || v.Height != 2400 {
		t.Errorf("size = %dx%d, want 3200x2400", v.Width, v.Height)
	}
	if gx, gy := v.Workgroups(WorkgroupSize); gx != 200 || gy != 150 {
		t.Errorf("Workgroups = %dx%d, want 200x150", gx, gy)
	}
	if got := v.BufferSize(); got != 3200*2400*16 {
		t.Errorf("BufferSize = %d, want %d", got, 3200*2400*16)
	}
}

func TestViewValidate(t *testing.T) {
	base := DefaultView()
	tests := []struct {
		name   string
		modify func(*View)
	}{
		{"zero width", func(v *View) { v.Width = 0 }},
		{"negative height", func(v *View) { v.Height = -1 }},
		{"nan center", func(v *View) { v.CenterX = math.NaN() }},
		{"inf center", func(v *View) { v.CenterY = math.Inf(1) }},
		{"zero span", func(v *View) { v.Span = 0 }},
		{"inf span", func(v *View) { v.Span = math.Inf(1) }},
		{"zero iterations", func(v *View) { v.MaxIterations = 0 }},
		{"too many iterations", func(v *View) { v.MaxIterations = MaxIterationsLimit + 1 }},
		{"supersample too large", func(v *View) { v.Supersample = MaxSupersample + 1 }},
		{"negative supersample", func(v *View) { v.Supersample = -1 }},
		{"huge frame", func(v *View) { v.Width, v.Height = 1<<31, 1<<31 }},
		{"wide frame", func(v *View) { v.Width, v.Height = MaxDimension+1, 1 }},
		{"supersampled side", func(v *View) { v.Width, v.Supersample = MaxDimension/2, 4 }},
		{"too many pixels", func(v *View) { v.Width, v.Height = MaxDimension, MaxDimension }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := base
			tt.modify(&v)
			if err := v.Validate(); !errors.Is(err, ErrInvalidView) {
				t.Errorf("Validate() = %v, want ErrInvalidView", err)
			}
		})
	}

	v := base
	v.Supersample = 0
	if err := v.Validate(); err != nil {
		t.Errorf("supersample 0: %v", err)
	}

	huge := View{Width: 1 << 31, Height: 1 << 31, Span: 2, MaxIterations: 8}
	if err := huge.Validate(); !errors.Is(err, ErrInvalidView) {
		t.Errorf("2^31 x 2^31: Validate() = %v, want ErrInvalidView", err)
	}

	// 8192x2048 at 4x renders 32768x8192, exactly MaxPixels.
	largest := View{Width: MaxDimension / MaxSupersample, Height: 2048,
		Span: 2, MaxIterations: 8, Supersample: MaxSupersample}
	if err := largest.Validate(); err != nil {
		t.Errorf("largest supersampled view: %v", err)
	}
}

func TestViewPoint(t *testing.T) {
	v := View{Width: 4, Height: 2, CenterX: 1, CenterY: -1, Span: 2, MaxIterations: 1}
	if got := v.SpanX(); got != 4 {
		t.Errorf("SpanX = %v, want 4", got)
	}

	tests := []struct {
		x, y   int
		re, im float64
	}{
		{0, 0, -0.5, -0.5}, // top-left: positive imaginary side
		{3, 1, 2.5, -1.5},
		{2, 0, 1.5, -0.5},
	}
	for _, tt := range tests {
		re, im := v.Point(tt.x, tt.y)
		if math.Abs(re-tt.re) > 1e-12 || math.Abs(im-tt.im) > 1e-12 {
			t.Errorf("Point(%d,%d) = (%v, %v), want (%v, %v)", tt.x, tt.y, re, im, tt.re, tt.im)
		}
	}
}

func TestViewScaled(t *testing.T) {
	v := View{Width: 100, Height: 50, Span: 2, MaxIterations: 10, Supersample: 3}
	if w, h := v.RenderSize(); w != 300 || h != 150 {
		t.Errorf("RenderSize = %dx%d, want 300x150", w, h)
	}
	s := v.Scaled()
	if s.Width != 300 || s.Height != 150 || s.Supersample != 1 {
		t.Errorf("Scaled = %+v", s)
	}
	if s.SpanX() != v.SpanX() || s.Span != v.Span {
		t.Error("Scaled changed the window")
	}
	if gx, gy := v.Workgroups(16); gx != 19 || gy != 10 {
		t.Errorf("Workgroups = %dx%d, want 19x10", gx, gy)
	}
	if v.BufferSize() != 300*150*PixelSize {
		t.Errorf("BufferSize = %d", v.BufferSize())
	}
}
