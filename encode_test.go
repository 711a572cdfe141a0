package mandelbrot

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 32), B: 128, A: 255})
		}
	}
	return img
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"mandelbrot.png", FormatPNG},
		{"OUT.PNG", FormatPNG},
		{"a/b.tif", FormatTIFF},
		{"x.tiff", FormatTIFF},
		{"x.bmp", FormatBMP},
		{"x.jpg", FormatJPEG},
		{"x.jpeg", FormatJPEG},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if err != nil || got != tt.want {
			t.Errorf("FormatFromPath(%q) = %v, %v; want %v", tt.path, got, err, tt.want)
		}
	}

	for _, bad := range []string{"x.gif", "noext", "x.png.bak"} {
		if _, err := FormatFromPath(bad); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("FormatFromPath(%q) err = %v, want ErrUnsupportedFormat", bad, err)
		}
	}
}

func TestEncodeDecodes(t *testing.T) {
	src := testImage()
	decoders := map[Format]func(*bytes.Reader) (image.Image, error){
		FormatPNG:  func(r *bytes.Reader) (image.Image, error) { return png.Decode(r) },
		FormatTIFF: func(r *bytes.Reader) (image.Image, error) { return tiff.Decode(r) },
		FormatBMP:  func(r *bytes.Reader) (image.Image, error) { return bmp.Decode(r) },
		FormatJPEG: func(r *bytes.Reader) (image.Image, error) { return jpeg.Decode(r) },
	}
	for format, decode := range decoders {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, src, format); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			img, err := decode(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if img.Bounds() != src.Bounds() {
				t.Errorf("bounds = %v, want %v", img.Bounds(), src.Bounds())
			}
			if format == FormatJPEG {
				return
			}
			r, g, b, a := img.At(5, 3).RGBA()
			wr, wg, wb, wa := src.At(5, 3).RGBA()
			if r != wr || g != wg || b != wb || a != wa {
				t.Errorf("pixel (5,3) = %v, want %v", img.At(5, 3), src.At(5, 3))
			}
		})
	}

	if err := Encode(&bytes.Buffer{}, src, Format(99)); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("unknown format: err = %v", err)
	}
	if Format(99).String() != "Format(99)" {
		t.Errorf("String() = %q", Format(99).String())
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestEncodeWrapsWriterError(t *testing.T) {
	err := Encode(failWriter{}, testImage(), FormatPNG)
	if err == nil {
		t.Fatal("expected error")
	}
	if want := "mandelbrot: encoding error: disk full"; err.Error() != want {
		t.Errorf("err = %q, want %q", err, want)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "mandelbrot.png")
	if err := Save(path, testImage()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("stat = %v, %v", info, err)
	}

	bad := filepath.Join(dir, "out.gif")
	if err := Save(bad, testImage()); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := os.Stat(bad); !os.IsNotExist(err) {
		t.Error("unsupported format left a file behind")
	}

	if err := Save(filepath.Join(dir, "missing", "x.png"), testImage()); err == nil {
		t.Error("Save into a missing directory succeeded")
	}
}
