//go:build !nogpu

package gpu

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math/bits"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/naga"

	"github.com/gogpu/mandelbrot"
)

//go:embed shaders/mandelbrot.wgsl
var mandelbrotShaderWGSL string

const (
	// shaderEntryPoint is the compute entry point every shader must export.
	shaderEntryPoint = "main"

	// spirvMagic is the first word of every SPIR-V module.
	spirvMagic = 0x07230203

	// spirvHeaderWords is the length of the SPIR-V module header.
	spirvHeaderWords = 5
)

// shaderSource is a compute shader ready for hal.ShaderModuleDescriptor:
// exactly one of wgsl and spirv is set.
type shaderSource struct {
	label string
	wgsl  string
	spirv []uint32
}

const embeddedLabel = "mandelbrot"

func embeddedShader() shaderSource {
	return shaderSource{label: embeddedLabel, wgsl: mandelbrotShaderWGSL}
}

// userSupplied reports whether s was loaded from a file.
func (s shaderSource) userSupplied() bool {
	return s.wgsl != mandelbrotShaderWGSL
}

// EmbeddedShaderSource returns the WGSL source of the built-in shader.
func EmbeddedShaderSource() string {
	return mandelbrotShaderWGSL
}

// loadShaderFile reads a shader from disk. Files ending in .spv are taken
// as SPIR-V binaries; anything else is compiled from WGSL with naga so that
// syntax errors surface here, with the file name, rather than at pipeline
// creation.
func loadShaderFile(path string) (shaderSource, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return shaderSource{}, fmt.Errorf("%w: %s", mandelbrot.ErrShaderNotFound, path)
		}
		return shaderSource{}, fmt.Errorf("read shader: %w", err)
	}

	label := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if strings.EqualFold(filepath.Ext(path), ".spv") {
		words, err := spirvWords(data)
		if err != nil {
			return shaderSource{}, fmt.Errorf("%s: %w", path, err)
		}
		return shaderSource{label: label, spirv: words}, nil
	}

	words, err := compileWGSL(string(data))
	if err != nil {
		return shaderSource{}, fmt.Errorf("%s: %w: %w", path, mandelbrot.ErrShaderCompile, err)
	}
	return shaderSource{label: label, spirv: words}, nil
}

// CompileSPIRV compiles WGSL source to a SPIR-V binary.
func CompileSPIRV(wgsl string) ([]byte, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	return spirvBytes, nil
}

func compileWGSL(wgsl string) ([]uint32, error) {
	spirvBytes, err := CompileSPIRV(wgsl)
	if err != nil {
		return nil, err
	}
	return spirvWords(spirvBytes)
}

// spirvWords converts a SPIR-V binary to 32-bit words. The input is
// zero-padded to a multiple of four bytes. A module written big-endian is
// byte-swapped.
func spirvWords(data []byte) ([]uint32, error) {
	if pad := len(data) % 4; pad != 0 {
		padded := make([]byte, len(data)+4-pad)
		copy(padded, data)
		data = padded
	}
	if len(data) < spirvHeaderWords*4 {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the module header", mandelbrot.ErrInvalidSPIRV, len(data))
	}

	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}

	switch words[0] {
	case spirvMagic:
	case bits.ReverseBytes32(spirvMagic):
		for i, w := range words {
			words[i] = bits.ReverseBytes32(w)
		}
	default:
		return nil, fmt.Errorf("%w: magic 0x%08X, want 0x%08X", mandelbrot.ErrInvalidSPIRV, words[0], uint32(spirvMagic))
	}
	return words, nil
}
