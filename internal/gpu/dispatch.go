//go:build !nogpu

package gpu

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/mandelbrot"
	"github.com/gogpu/mandelbrot/internal/parallel"
)

const (
	// paramsSize is the size of the WGSL Params uniform, padded to 16 bytes.
	paramsSize = 48

	// defaultMaxStorageBinding is the WebGPU default for
	// maxStorageBufferBindingSize (128 MiB).
	defaultMaxStorageBinding = 128 << 20

	// pollInterval is how often a pending submission is polled.
	pollInterval = 500 * time.Microsecond
)

// bandParams mirrors the WGSL Params struct.
type bandParams struct {
	Width, Height       uint32
	RowOffset, BandRows uint32
	MaxIter             uint32
	CenterX, CenterY    float32
	SpanX, SpanY        float32
}

// encode serializes p in the std140-compatible layout the shader expects.
func (p bandParams) encode() []byte {
	buf := make([]byte, paramsSize)
	binary.LittleEndian.PutUint32(buf[0:], p.Width)
	binary.LittleEndian.PutUint32(buf[4:], p.Height)
	binary.LittleEndian.PutUint32(buf[8:], p.RowOffset)
	binary.LittleEndian.PutUint32(buf[12:], p.BandRows)
	binary.LittleEndian.PutUint32(buf[16:], p.MaxIter)
	// 20..24 padding
	binary.LittleEndian.PutUint32(buf[24:], math.Float32bits(p.CenterX))
	binary.LittleEndian.PutUint32(buf[28:], math.Float32bits(p.CenterY))
	binary.LittleEndian.PutUint32(buf[32:], math.Float32bits(p.SpanX))
	binary.LittleEndian.PutUint32(buf[36:], math.Float32bits(p.SpanY))
	// 40..48 padding
	return buf
}

func paramsForBand(v mandelbrot.View, band parallel.Tile) bandParams {
	return bandParams{
		Width:     uint32(v.Width),  //nolint:gosec // validated <= MaxDimension
		Height:    uint32(v.Height), //nolint:gosec // validated <= MaxDimension
		RowOffset: uint32(band.Y0),  //nolint:gosec // row index fits uint32
		BandRows:  uint32(band.Height()),
		MaxIter:   uint32(v.MaxIterations), //nolint:gosec // validated range
		CenterX:   float32(v.CenterX),
		CenterY:   float32(v.CenterY),
		SpanX:     float32(v.SpanX()),
		SpanY:     float32(v.SpanY()),
	}
}

// maxBindingSize returns the largest pixel buffer one band may bind: the
// storage binding limit, capped by the buffer size limit.
func maxBindingSize(limits gputypes.Limits) uint64 {
	size := limits.MaxStorageBufferBindingSize
	if size == 0 {
		size = defaultMaxStorageBinding
	}
	if limits.MaxBufferSize != 0 {
		size = min(size, limits.MaxBufferSize)
	}
	return size
}

// planBands splits the frame into the fewest full-width bands whose pixel
// buffers fit in maxBinding bytes. A frame whose single row does not fit
// fails with mandelbrot.ErrFallbackToCPU.
func planBands(width, height int, maxBinding uint64) ([]parallel.Tile, error) {
	rowBytes := uint64(width) * mandelbrot.PixelSize //nolint:gosec // validated <= MaxDimension
	rows := maxBinding / rowBytes
	if rows == 0 {
		return nil, fmt.Errorf("%w: row of %d bytes exceeds the %d-byte storage binding limit",
			mandelbrot.ErrFallbackToCPU, rowBytes, maxBinding)
	}
	return parallel.Bands(width, height, int(min(rows, uint64(height)))), nil //nolint:gosec // bounded by height
}

// waitTimeout shortens limit to the context deadline, if any.
func waitTimeout(ctx context.Context, limit time.Duration) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < limit {
			return max(remaining, 0)
		}
	}
	return limit
}

// waitSubmission blocks until poll reports index as completed. It gives up
// with mandelbrot.ErrTimeout after timeout, or with ctx's error.
func waitSubmission(ctx context.Context, poll func() uint64, index uint64, timeout time.Duration) error {
	if poll() >= index {
		return nil
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			if poll() >= index {
				return nil
			}
			return fmt.Errorf("%w after %v", mandelbrot.ErrTimeout, timeout)
		case <-ticker.C:
			if poll() >= index {
				return nil
			}
		}
	}
}

// frameBuffers are the per-render GPU resources.
type frameBuffers struct {
	storage hal.Buffer
	staging hal.Buffer
	params  hal.Buffer
	bind    hal.BindGroup
	size    uint64
}

func (r *Renderer) createFrameBuffers(size uint64) (*frameBuffers, error) {
	fb := &frameBuffers{size: size}
	var err error

	fb.storage, err = r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mandelbrot_pixels", Size: size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create storage buffer: %w", err)
	}

	fb.staging, err = r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mandelbrot_staging", Size: size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		r.destroyFrameBuffers(fb)
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}

	fb.params, err = r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mandelbrot_params", Size: paramsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		r.destroyFrameBuffers(fb)
		return nil, fmt.Errorf("create uniform buffer: %w", err)
	}

	fb.bind, err = r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "mandelbrot_bind", Layout: r.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: bindingParams, Resource: gputypes.BufferBinding{Buffer: fb.params.NativeHandle(), Offset: 0, Size: paramsSize}},
			{Binding: bindingPixels, Resource: gputypes.BufferBinding{Buffer: fb.storage.NativeHandle(), Offset: 0, Size: size}},
		},
	})
	if err != nil {
		r.destroyFrameBuffers(fb)
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	return fb, nil
}

func (r *Renderer) destroyFrameBuffers(fb *frameBuffers) {
	if fb.bind != nil {
		r.device.DestroyBindGroup(fb.bind)
	}
	for _, b := range []hal.Buffer{fb.params, fb.staging, fb.storage} {
		if b != nil {
			r.device.DestroyBuffer(b)
		}
	}
}

// renderFrame runs every band of v through the pipeline and assembles the
// frame. Called with r.mu held and the pipeline ready.
func (r *Renderer) renderFrame(ctx context.Context, v mandelbrot.View) (*mandelbrot.Frame, error) {
	bands, err := planBands(v.Width, v.Height, r.maxBinding)
	if err != nil {
		return nil, err
	}
	rowBytes := uint64(v.Width) * mandelbrot.PixelSize //nolint:gosec // validated <= MaxDimension
	bufSize := uint64(bands[0].Height()) * rowBytes    //nolint:gosec // positive

	fb, err := r.createFrameBuffers(bufSize)
	if err != nil {
		return nil, err
	}
	defer r.destroyFrameBuffers(fb)

	gx, _ := v.Workgroups(mandelbrot.WorkgroupSize)
	slogger().Debug("gpu: render",
		"width", v.Width, "height", v.Height,
		"bands", len(bands), "buffer_bytes", bufSize,
		"workgroups_x", gx)

	frame := mandelbrot.NewFrame(v.Width, v.Height)
	readback := make([]byte, bufSize)
	for i, band := range bands {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		size := uint64(band.Height()) * rowBytes //nolint:gosec // positive
		if err := r.queue.WriteBuffer(fb.params, 0, paramsForBand(v, band).encode()); err != nil {
			return nil, fmt.Errorf("band %d/%d: write params: %w", i+1, len(bands), err)
		}

		if err := r.dispatchBand(ctx, fb, v.Width, band.Height(), size); err != nil {
			return nil, fmt.Errorf("band %d/%d: %w", i+1, len(bands), err)
		}
		if err := r.readStaging(fb.staging, readback[:size]); err != nil {
			return nil, fmt.Errorf("band %d/%d: readback: %w", i+1, len(bands), err)
		}
		if err := frame.DecodeRows(band.Y0, readback[:size]); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// dispatchBand records, submits and waits for one band: a compute pass over
// ceil(width/16) x ceil(rows/16) workgroups followed by a copy of the band
// into the staging buffer.
func (r *Renderer) dispatchBand(ctx context.Context, fb *frameBuffers, width, rows int, size uint64) error {
	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "mandelbrot_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("mandelbrot"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	gx, gy := parallel.GridSize(width, rows, mandelbrot.WorkgroupSize)
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "mandelbrot_pass"})
	pass.SetPipeline(r.pipeline)
	pass.SetBindGroup(0, fb.bind, nil)
	pass.Dispatch(uint32(gx), uint32(gy), 1) //nolint:gosec // grid fits uint32
	pass.End()

	encoder.CopyBufferToBuffer(fb.storage, fb.staging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: size},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	index, err := r.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if err := waitSubmission(ctx, r.queue.PollCompleted, index, waitTimeout(ctx, r.timeout)); err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	return nil
}

// readStaging copies the first len(dst) bytes of the staging buffer into
// dst. The submission that filled it must have completed.
func (r *Renderer) readStaging(staging hal.Buffer, dst []byte) error {
	size := uint64(len(dst))
	m, err := r.device.MapBuffer(staging, 0, size)
	if err != nil {
		return fmt.Errorf("map staging buffer: %w", err)
	}
	copy(dst, unsafe.Slice((*byte)(m.Ptr), len(dst)))
	if err := r.device.UnmapBuffer(staging); err != nil {
		slogger().Warn("gpu: unmap staging buffer", "err", err)
	}
	return nil
}
