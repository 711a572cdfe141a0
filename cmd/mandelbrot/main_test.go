package main

import (
	"bytes"
	"errors"
	"flag"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/mandelbrot"
	"github.com/gogpu/mandelbrot/gpu"
	"github.com/gogpu/mandelbrot/internal/config"
	"github.com/gogpu/mandelbrot/internal/vkprobe"
)

func TestFlagsOverrideConfig(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := registerFlags(fs)
	if err := fs.Parse([]string{"-width", "640", "-backend", "cpu", "-center-y", "0.25", "-validate"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cfg := config.Default()
	cfg.Height = 123
	cfg.Output = "from-file.tiff"
	f.apply(fs, cfg)

	if cfg.Width != 640 || cfg.Backend != "cpu" || cfg.CenterY != 0.25 || !cfg.Validation {
		t.Errorf("flags not applied: %+v", cfg)
	}
	// Flags left unset do not clobber file values.
	if cfg.Height != 123 || cfg.Output != "from-file.tiff" {
		t.Errorf("config values overwritten: %+v", cfg)
	}
}

func TestRunCPU(t *testing.T) {
	out := filepath.Join(t.TempDir(), "small.png")
	err := run([]string{
		"-backend", "cpu",
		"-width", "64", "-height", "48",
		"-iterations", "32",
		"-output", out,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	file, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("output size = %dx%d, want 64x48", b.Dx(), b.Dy())
	}
}

func TestRunWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "cfg.bmp")
	cfgPath := filepath.Join(dir, "render.yaml")
	content := "output: " + out + "\nwidth: 40\nheight: 30\nbackend: cpu\nsupersample: 2\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := run([]string{"-config", cfgPath}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output missing: %v", err)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-nope"}},
		{"bad backend", []string{"-backend", "metal"}},
		{"bad size", []string{"-width", "0"}},
		{"bad format", []string{"-output", "x.gif"}},
		{"missing config", []string{"-config", filepath.Join(t.TempDir(), "none.yaml")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(tt.args); err == nil {
				t.Errorf("run(%v) succeeded, want error", tt.args)
			}
		})
	}
}

func TestRunHelp(t *testing.T) {
	if err := run([]string{"-h"}); err != nil {
		t.Errorf("run(-h) = %v, want nil", err)
	}
}

func TestEmitSPIRVCustomShader(t *testing.T) {
	const src = "@compute @workgroup_size(1)\nfn main() {}\n"
	want, err := gpu.CompileShader(src)
	if err != nil {
		t.Skipf("shader compiler unavailable: %v", err)
	}
	embedded, err := gpu.CompileShader("")
	if err != nil {
		t.Fatalf("compile embedded shader: %v", err)
	}

	dir := t.TempDir()
	shader := filepath.Join(dir, "tiny.wgsl")
	if err := os.WriteFile(shader, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "tiny.spv")
	if err := run([]string{"-shader", shader, "-emit-spirv", out}); err != nil {
		t.Fatalf("run: %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("output (%d bytes) is not the custom shader (%d bytes)", len(got), len(want))
	}
	if bytes.Equal(got, embedded) {
		t.Error("output is the embedded shader")
	}
}

func TestEmitSPIRVBrokenShader(t *testing.T) {
	if _, err := gpu.CompileShader(""); err != nil {
		t.Skipf("shader compiler unavailable: %v", err)
	}
	dir := t.TempDir()
	shader := filepath.Join(dir, "broken.wgsl")
	if err := os.WriteFile(shader, []byte("fn main( {"), 0o600); err != nil {
		t.Fatal(err)
	}
	err := run([]string{"-shader", shader, "-emit-spirv", filepath.Join(dir, "out.spv")})
	if !errors.Is(err, mandelbrot.ErrShaderCompile) {
		t.Errorf("err = %v, want ErrShaderCompile", err)
	}
}

func TestLogValidationSupport(t *testing.T) {
	tests := []struct {
		name     string
		report   *vkprobe.Report
		wantWarn []string
	}{
		{"unavailable", nil, nil},
		{"complete", &vkprobe.Report{ValidationLayer: true, DebugReport: true}, nil},
		{"no layer", &vkprobe.Report{DebugReport: true}, []string{vkprobe.ValidationLayer}},
		{"nothing", &vkprobe.Report{}, []string{vkprobe.ValidationLayer, vkprobe.DebugReportExtension}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
			logValidationSupport(logger, tt.report, vkprobe.ErrUnavailable)

			out := buf.String()
			if got := strings.Count(out, "level=WARN"); got != len(tt.wantWarn) {
				t.Errorf("warnings = %d, want %d:\n%s", got, len(tt.wantWarn), out)
			}
			for _, w := range tt.wantWarn {
				if !strings.Contains(out, w) {
					t.Errorf("missing %s in:\n%s", w, out)
				}
			}
		})
	}
}
