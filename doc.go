// Package mandelbrot renders the Mandelbrot set with a GPU compute shader
// and writes the result to an image file.
//
// The GPU path is a single offline compute-and-capture pass: probe the
// adapters, open a device, allocate a storage buffer of float RGBA pixels,
// bind a compute pipeline, dispatch one workgroup grid, wait on a fence, read
// the buffer back and encode it. Import the gpu sub-package to register it:
//
//	import _ "github.com/gogpu/mandelbrot/gpu"
//
// Without a registered GPU renderer, or with BackendCPU, the software
// renderer evaluates the same colouring on the CPU.
//
// # Quick Start
//
//	view := mandelbrot.DefaultView()
//	img, err := mandelbrot.RenderImage(context.Background(), view)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := mandelbrot.Save("mandelbrot.png", img); err != nil {
//	    log.Fatal(err)
//	}
//
// # Data Model
//
// A render produces a [Frame]: Width*Height [Pixel] records of four float32
// channels, row-major, exactly the layout of the shader's storage buffer.
// [ToNRGBA] converts it to 8-bit straight alpha; [Save] encodes PNG, TIFF,
// BMP or JPEG by file extension.
//
// # Logging
//
// The package is silent by default. See [SetLogger].
package mandelbrot
