package mandelbrot

import (
	"encoding/binary"
	"fmt"
	"math"
)

// PixelSize is the size of one Pixel in GPU memory: four float32 channels.
// It matches a WGSL array<vec4<f32>> element.
const PixelSize = 16

// Pixel is one colour record as written by the compute shader.
// Channels are straight (non-premultiplied) and nominally in [0, 1].
type Pixel struct {
	R, G, B, A float32
}

// Frame is the flat pixel buffer produced by a render, row-major with
// row y starting at index y*Width.
type Frame struct {
	Width  int
	Height int
	Pix    []Pixel
}

// NewFrame allocates a zeroed frame.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]Pixel, width*height),
	}
}

// At returns the pixel at (x, y). Out-of-range coordinates return the zero Pixel.
func (f *Frame) At(x, y int) Pixel {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return Pixel{}
	}
	return f.Pix[y*f.Width+x]
}

// Set stores the pixel at (x, y). Out-of-range coordinates are ignored.
func (f *Frame) Set(x, y int, p Pixel) {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return
	}
	f.Pix[y*f.Width+x] = p
}

// ByteSize returns the size of the frame in GPU memory.
func (f *Frame) ByteSize() int {
	return len(f.Pix) * PixelSize
}

// DecodeFrame builds a frame from little-endian GPU memory.
// The data length must be exactly width*height*PixelSize.
func DecodeFrame(width, height int, data []byte) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrFrameSize, width, height)
	}
	f := NewFrame(width, height)
	if err := f.DecodeRows(0, data); err != nil {
		return nil, err
	}
	if len(data) != f.ByteSize() {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrFrameSize, len(data), f.ByteSize())
	}
	return f, nil
}

// DecodeRows decodes whole rows of GPU memory into the frame starting at row y0.
// The data must hold a whole number of rows that fit inside the frame.
func (f *Frame) DecodeRows(y0 int, data []byte) error {
	rowBytes := f.Width * PixelSize
	if rowBytes == 0 || len(data)%rowBytes != 0 {
		return fmt.Errorf("%w: %d bytes is not a whole number of %d-byte rows", ErrFrameSize, len(data), rowBytes)
	}
	rows := len(data) / rowBytes
	if y0 < 0 || y0+rows > f.Height {
		return fmt.Errorf("%w: rows [%d, %d) outside height %d", ErrFrameSize, y0, y0+rows, f.Height)
	}

	dst := f.Pix[y0*f.Width : (y0+rows)*f.Width]
	for i := range dst {
		off := i * PixelSize
		dst[i] = Pixel{
			R: math.Float32frombits(binary.LittleEndian.Uint32(data[off:])),
			G: math.Float32frombits(binary.LittleEndian.Uint32(data[off+4:])),
			B: math.Float32frombits(binary.LittleEndian.Uint32(data[off+8:])),
			A: math.Float32frombits(binary.LittleEndian.Uint32(data[off+12:])),
		}
	}
	return nil
}

// Bytes encodes the frame in the GPU memory layout.
func (f *Frame) Bytes() []byte {
	out := make([]byte, f.ByteSize())
	for i, p := range f.Pix {
		off := i * PixelSize
		binary.LittleEndian.PutUint32(out[off:], math.Float32bits(p.R))
		binary.LittleEndian.PutUint32(out[off+4:], math.Float32bits(p.G))
		binary.LittleEndian.PutUint32(out[off+8:], math.Float32bits(p.B))
		binary.LittleEndian.PutUint32(out[off+12:], math.Float32bits(p.A))
	}
	return out
}
