package main

import (
	"flag"

	"github.com/gogpu/mandelbrot/internal/config"
)

type flags struct {
	config    string
	emitSPIRV string
	probe     bool
	verbose   bool

	output      string
	width       int
	height      int
	centerX     float64
	centerY     float64
	span        float64
	iterations  int
	supersample int
	backend     string
	shader      string
	timeout     string
	validate    bool
}

func registerFlags(fs *flag.FlagSet) *flags {
	d := config.Default()
	f := &flags{}

	fs.StringVar(&f.config, "config", "", "YAML or TOML settings file")
	fs.StringVar(&f.emitSPIRV, "emit-spirv", "", "compile the WGSL shader (-shader, or the embedded one) to SPIR-V at this path and exit")
	fs.BoolVar(&f.probe, "probe", false, "print GPU capabilities and exit")
	fs.BoolVar(&f.verbose, "v", false, "debug logging")

	fs.StringVar(&f.output, "output", d.Output, "output image (.png, .tiff, .bmp, .jpg)")
	fs.IntVar(&f.width, "width", d.Width, "image width in pixels")
	fs.IntVar(&f.height, "height", d.Height, "image height in pixels")
	fs.Float64Var(&f.centerX, "center-x", d.CenterX, "real part of the view centre")
	fs.Float64Var(&f.centerY, "center-y", d.CenterY, "imaginary part of the view centre")
	fs.Float64Var(&f.span, "span", d.Span, "vertical extent of the view")
	fs.IntVar(&f.iterations, "iterations", d.MaxIterations, "iteration cap")
	fs.IntVar(&f.supersample, "supersample", d.Supersample, "render at N times the size and downscale (1-4)")
	fs.StringVar(&f.backend, "backend", d.Backend, "renderer: auto, gpu or cpu")
	fs.StringVar(&f.shader, "shader", d.Shader, "compute shader file (.wgsl or .spv) instead of the embedded one")
	fs.StringVar(&f.timeout, "timeout", d.Timeout, "render timeout")
	fs.BoolVar(&f.validate, "validate", d.Validation, "enable the Vulkan validation layer and log its messages")
	return f
}

// apply copies the flags set on the command line into cfg.
func (f *flags) apply(fs *flag.FlagSet, cfg *config.Config) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "output":
			cfg.Output = f.output
		case "width":
			cfg.Width = f.width
		case "height":
			cfg.Height = f.height
		case "center-x":
			cfg.CenterX = f.centerX
		case "center-y":
			cfg.CenterY = f.centerY
		case "span":
			cfg.Span = f.span
		case "iterations":
			cfg.MaxIterations = f.iterations
		case "supersample":
			cfg.Supersample = f.supersample
		case "backend":
			cfg.Backend = f.backend
		case "shader":
			cfg.Shader = f.shader
		case "timeout":
			cfg.Timeout = f.timeout
		case "validate":
			cfg.Validation = f.validate
		}
	})
}
