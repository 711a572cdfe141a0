// Command mandelbrot renders the Mandelbrot set with a GPU compute shader
// and writes it to an image file.
//
// Usage:
//
//	mandelbrot [flags]
//
// With no flags it renders a 3200x2400 image to mandelbrot.png, falling back
// to the CPU when no GPU is available. Settings may also come from a YAML or
// TOML file given with -config; flags override the file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/gogpu/mandelbrot"
	"github.com/gogpu/mandelbrot/gpu"
	"github.com/gogpu/mandelbrot/internal/config"
	"github.com/gogpu/mandelbrot/internal/vkprobe"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("mandelbrot", flag.ContinueOnError)
	f := registerFlags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg := config.Default()
	if f.config != "" {
		loaded, err := config.Load(f.config)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	f.apply(fs, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := cfg.Level()
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	mandelbrot.SetLogger(logger)

	if f.probe {
		return printProbe(os.Stdout)
	}
	if f.emitSPIRV != "" {
		return emitSPIRV(f.emitSPIRV, cfg.Shader, logger)
	}
	return render(cfg, logger)
}

func render(cfg *config.Config, logger *slog.Logger) error {
	backend, _ := mandelbrot.ParseBackend(cfg.Backend)
	timeout, _ := cfg.TimeoutDuration()
	view := cfg.View()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w, h := view.RenderSize()
	logger.Info("rendering",
		"width", view.Width, "height", view.Height,
		"render_width", w, "render_height", h,
		"center", fmt.Sprintf("%g%+gi", view.CenterX, view.CenterY),
		"span", view.Span, "iterations", view.MaxIterations,
		"backend", backend)
	if cfg.Validation && backend != mandelbrot.BackendCPU {
		vk, err := vkprobe.Probe()
		logValidationSupport(logger, vk, err)
	}

	start := time.Now()
	img, err := mandelbrot.RenderImage(ctx, view,
		mandelbrot.WithBackend(backend),
		mandelbrot.WithTimeout(timeout),
		mandelbrot.WithShader(cfg.Shader),
		mandelbrot.WithValidation(cfg.Validation))
	if err != nil {
		return err
	}
	logger.Debug("render finished", "elapsed", time.Since(start))
	if an, ok := mandelbrot.GPU().(mandelbrot.AdapterNamer); ok && backend != mandelbrot.BackendCPU {
		if name := an.AdapterName(); name != "" {
			logger.Info("GPU adapter", "name", name)
		}
	}

	return mandelbrot.Save(cfg.Output, img)
}

// logValidationSupport warns about loader pieces -validate relies on. The
// render proceeds without them.
func logValidationSupport(logger *slog.Logger, vk *vkprobe.Report, err error) {
	if vk == nil {
		logger.Debug("validation layer check skipped", "err", err)
		return
	}
	if !vk.ValidationLayer {
		logger.Warn("validation layer not installed, rendering without it", "layer", vkprobe.ValidationLayer)
	}
	if !vk.DebugReport {
		logger.Warn("debug report extension not available", "extension", vkprobe.DebugReportExtension)
	}
}

// emitSPIRV compiles shader, or the embedded shader when it is empty, and
// writes the SPIR-V binary to path.
func emitSPIRV(path, shader string, logger *slog.Logger) error {
	var wgsl string
	if shader != "" {
		if strings.EqualFold(filepath.Ext(shader), ".spv") {
			return fmt.Errorf("%s is already SPIR-V", shader)
		}
		data, err := os.ReadFile(shader) //nolint:gosec // path is user-provided intentionally
		if err != nil {
			return fmt.Errorf("read shader: %w", err)
		}
		if len(strings.TrimSpace(string(data))) == 0 {
			return fmt.Errorf("%s: %w: empty file", shader, mandelbrot.ErrShaderCompile)
		}
		wgsl = string(data)
	}
	spirv, err := gpu.CompileShader(wgsl)
	if err != nil {
		if shader != "" {
			return fmt.Errorf("%s: %w: %w", shader, mandelbrot.ErrShaderCompile, err)
		}
		return err
	}
	if err := os.WriteFile(path, spirv, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger.Info("SPIR-V written", "path", path, "shader", shader, "bytes", len(spirv))
	return nil
}
