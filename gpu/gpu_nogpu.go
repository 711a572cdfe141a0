//go:build nogpu

package gpu

import (
	"errors"

	"github.com/gogpu/gpucontext"
)

// ErrDisabled is returned by every function when built with the nogpu tag.
var ErrDisabled = errors.New("gpu: built with nogpu")

// AdapterReport describes one adapter in a Report.
type AdapterReport struct {
	Name     string
	Type     string
	Selected bool
}

// Report is the result of a capability probe.
type Report struct {
	Backend           string
	Adapters          []AdapterReport
	MaxBufferSize     uint64
	MaxWorkgroupSizeX uint32
	MaxWorkgroupSizeY uint32
	MaxBindingSize    uint64
	Workgroup         int
}

// SetDeviceProvider always fails: no GPU renderer is compiled in.
func SetDeviceProvider(gpucontext.DeviceProvider) error { return ErrDisabled }

// Probe always fails: no GPU renderer is compiled in.
func Probe() (*Report, error) { return nil, ErrDisabled }

// CompileShader always fails: no GPU renderer is compiled in.
func CompileShader(string) ([]byte, error) { return nil, ErrDisabled }

// SelectedAdapter reports no adapter.
func (r *Report) SelectedAdapter() (AdapterReport, bool) { return AdapterReport{}, false }
