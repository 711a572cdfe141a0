package mandelbrot

import (
	"context"
	"testing"
)

func TestSoftwareRendererMatchesSample(t *testing.T) {
	r := NewSoftwareRenderer(4)
	defer r.Close()

	if r.Name() != "software" {
		t.Errorf("Name() = %q", r.Name())
	}

	// Not a multiple of the workgroup on either axis.
	v := View{Width: 37, Height: 21, CenterX: -0.5, Span: 2.5, MaxIterations: 100}
	f, err := r.Render(context.Background(), v)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for y := 0; y < v.Height; y++ {
		for x := 0; x < v.Width; x++ {
			if got, want := f.At(x, y), Sample(v, x, y); got != want {
				t.Fatalf("(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestSoftwareRendererSupersample(t *testing.T) {
	r := NewSoftwareRenderer(0)
	defer r.Close()

	v := View{Width: 10, Height: 8, Span: 3, MaxIterations: 20, Supersample: 2}
	f, err := r.Render(context.Background(), v)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if f.Width != 20 || f.Height != 16 {
		t.Errorf("frame = %dx%d, want 20x16", f.Width, f.Height)
	}
	for i, p := range f.Pix {
		if p.A != 1 {
			t.Fatalf("pixel %d not written", i)
		}
	}
}

func TestSoftwareRendererCancelled(t *testing.T) {
	r := NewSoftwareRenderer(2)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, DefaultView()); err == nil {
		t.Error("Render with cancelled context succeeded")
	}
}

func BenchmarkSoftwareRender(b *testing.B) {
	r := NewSoftwareRenderer(0)
	defer r.Close()
	v := DefaultView()
	v.Width, v.Height = 640, 480
	b.ReportAllocs()
	for b.Loop() {
		if _, err := r.Render(context.Background(), v); err != nil {
			b.Fatal(err)
		}
	}
}
