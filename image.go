package mandelbrot

import (
	"context"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/mandelbrot/internal/parallel"
)

// conversionRows is the number of rows one conversion work item handles.
const conversionRows = 64

// ToByte converts a float channel to 8 bits: clamped to [0, 1], scaled by
// 255 and truncated. NaN maps to 0.
func ToByte(c float32) uint8 {
	if !(c > 0) {
		return 0
	}
	if c >= 1 {
		return 255
	}
	return uint8(255 * c)
}

// ToNRGBA converts the frame to an 8-bit straight-alpha image.
// Rows are converted on a pool of the given number of workers
// (zero or negative means GOMAXPROCS).
func ToNRGBA(f *Frame, workers int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))

	bands := parallel.Bands(f.Width, f.Height, conversionRows)
	if len(bands) <= 1 {
		for _, b := range bands {
			convertRows(img, f, b)
		}
		return img
	}

	pool := parallel.NewTilePool(workers)
	defer pool.Close()

	_ = pool.Run(context.Background(), bands, func(b parallel.Tile) {
		convertRows(img, f, b)
	})
	return img
}

func convertRows(img *image.NRGBA, f *Frame, b parallel.Tile) {
	for y := b.Y0; y < b.Y1; y++ {
		src := f.Pix[y*f.Width : (y+1)*f.Width]
		dst := img.Pix[y*img.Stride : y*img.Stride+f.Width*4]
		for x, p := range src {
			dst[x*4+0] = ToByte(p.R)
			dst[x*4+1] = ToByte(p.G)
			dst[x*4+2] = ToByte(p.B)
			dst[x*4+3] = ToByte(p.A)
		}
	}
}

// Downsample scales img to width x height with a Catmull-Rom filter.
// It returns img unchanged when the size already matches.
func Downsample(img *image.NRGBA, width, height int) *image.NRGBA {
	if img.Bounds().Dx() == width && img.Bounds().Dy() == height {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}
