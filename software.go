package mandelbrot

import (
	"context"
	"fmt"

	"github.com/gogpu/mandelbrot/internal/parallel"
)

// SoftwareRenderer evaluates the escape-time colouring on the CPU.
//
// Work is split into WorkgroupSize x WorkgroupSize tiles, the same grid a
// compute dispatch covers, and the tiles run on a work-stealing pool. Its
// output is the reference the GPU path is tested against and the fallback
// when no GPU is available.
type SoftwareRenderer struct {
	pool *parallel.TilePool
}

var _ Renderer = (*SoftwareRenderer)(nil)

// NewSoftwareRenderer creates a software renderer with the given number of
// workers. Zero or negative means GOMAXPROCS.
func NewSoftwareRenderer(workers int) *SoftwareRenderer {
	return &SoftwareRenderer{pool: parallel.NewTilePool(workers)}
}

// Name returns "software".
func (r *SoftwareRenderer) Name() string { return "software" }

// Render computes every pixel of v. A cancelled context stops remaining
// tiles from starting and the context error is returned.
func (r *SoftwareRenderer) Render(ctx context.Context, v View) (*Frame, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	v = v.Scaled()

	frame := NewFrame(v.Width, v.Height)
	tiles := parallel.Grid(v.Width, v.Height, WorkgroupSize)

	Logger().Debug("software: render",
		"width", v.Width, "height", v.Height,
		"tiles", len(tiles), "workers", r.pool.Workers())

	err := r.pool.Run(ctx, tiles, func(t parallel.Tile) {
		renderTile(frame, v, t)
	})
	if err != nil {
		return nil, fmt.Errorf("software: render: %w", err)
	}
	return frame, nil
}

func renderTile(f *Frame, v View, t parallel.Tile) {
	for y := t.Y0; y < t.Y1; y++ {
		row := f.Pix[y*f.Width : (y+1)*f.Width]
		for x := t.X0; x < t.X1; x++ {
			row[x] = Sample(v, x, y)
		}
	}
}

// Close stops the worker pool.
func (r *SoftwareRenderer) Close() {
	r.pool.Close()
}
