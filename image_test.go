package mandelbrot

import (
	"image"
	"math"
	"testing"
)

func TestToByte(t *testing.T) {
	tests := []struct {
		in   float32
		want uint8
	}{
		{0, 0},
		{-0.5, 0},
		{1, 255},
		{2, 255},
		{0.5, 127}, // truncated, not rounded
		{0.999, 254},
		{float32(math.NaN()), 0},
		{float32(math.Inf(1)), 255},
	}
	for _, tt := range tests {
		if got := ToByte(tt.in); got != tt.want {
			t.Errorf("ToByte(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestToNRGBA(t *testing.T) {
	// Tall enough to be split into several conversion bands.
	f := NewFrame(5, 3*conversionRows+7)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			f.Set(x, y, Pixel{R: float32(x) / 4, G: float32(y%2) * 2, B: -1, A: 1})
		}
	}

	img := ToNRGBA(f, 3)
	if img.Bounds() != image.Rect(0, 0, f.Width, f.Height) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := img.NRGBAAt(x, y)
			p := f.At(x, y)
			if c.R != ToByte(p.R) || c.G != ToByte(p.G) || c.B != 0 || c.A != 255 {
				t.Fatalf("(%d,%d) = %v from %v", x, y, c, p)
			}
		}
	}
}

func TestDownsample(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	for i := range src.Pix {
		src.Pix[i] = 200
	}

	if got := Downsample(src, 8, 6); got != src {
		t.Error("Downsample to the same size should return the input")
	}

	dst := Downsample(src, 4, 3)
	if dst.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Fatalf("bounds = %v", dst.Bounds())
	}
	// A flat image stays flat.
	for i, v := range dst.Pix {
		if v < 199 || v > 201 {
			t.Fatalf("Pix[%d] = %d, want ~200", i, v)
		}
	}
}
