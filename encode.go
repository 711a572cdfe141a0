package mandelbrot

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an output image encoding.
type Format int

const (
	// FormatPNG is lossless PNG, the default output.
	FormatPNG Format = iota
	// FormatTIFF is Deflate-compressed TIFF.
	FormatTIFF
	// FormatBMP is uncompressed BMP.
	FormatBMP
	// FormatJPEG is baseline JPEG at quality 95.
	FormatJPEG
)

var formatNames = map[Format]string{
	FormatPNG:  "png",
	FormatTIFF: "tiff",
	FormatBMP:  "bmp",
	FormatJPEG: "jpeg",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatFromPath picks the encoding from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	case ".bmp":
		return FormatBMP, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format Format) error {
	var err error
	switch format {
	case FormatPNG:
		enc := png.Encoder{CompressionLevel: png.BestSpeed}
		err = enc.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("mandelbrot: encoding error: %w", err)
	}
	return nil
}

// Save encodes img into the file at path, choosing the format from the
// extension. A partially written file is removed on failure.
func Save(path string, img image.Image) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return fmt.Errorf("mandelbrot: create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("mandelbrot: close output: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := Encode(f, img, format); err != nil {
		return err
	}
	Logger().Info("image written", "path", path, "format", format.String(),
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return nil
}
