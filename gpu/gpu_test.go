//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/mandelbrot"
)

func TestRegistered(t *testing.T) {
	r := mandelbrot.GPU()
	if r == nil {
		t.Fatal("importing gpu did not register a renderer")
	}
	if r.Name() != "wgpu-compute" {
		t.Errorf("registered %q, want wgpu-compute", r.Name())
	}
}

func TestCompileShader(t *testing.T) {
	spirv, err := CompileShader("")
	if err != nil {
		if strings.Contains(err.Error(), "not yet implemented") || strings.Contains(err.Error(), "not supported") {
			t.Skipf("Skipping: naga feature not yet implemented: %v", err)
		}
		t.Fatalf("CompileShader: %v", err)
	}
	if len(spirv) < 20 || binary.LittleEndian.Uint32(spirv) != 0x07230203 {
		t.Errorf("output is not SPIR-V (%d bytes)", len(spirv))
	}

	if _, err := CompileShader("this is not wgsl"); err == nil {
		t.Error("CompileShader accepted invalid WGSL")
	}
}

func TestProbe(t *testing.T) {
	report, err := Probe()
	if errors.Is(err, mandelbrot.ErrNoAdapter) || report == nil {
		t.Skipf("GPU not available: %v", err)
	}
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if report.Workgroup != mandelbrot.WorkgroupSize {
		t.Errorf("Workgroup = %d", report.Workgroup)
	}
	a, ok := report.SelectedAdapter()
	if !ok {
		t.Fatal("no adapter selected")
	}
	t.Logf("selected adapter: %s (%s)", a.Name, a.Type)
}
