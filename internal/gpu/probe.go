//go:build !nogpu

package gpu

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/mandelbrot"
)

// AdapterReport describes one adapter found by Probe.
type AdapterReport struct {
	Name     string
	Type     string
	Selected bool
}

// Report is the result of a capability probe.
type Report struct {
	// Backend is the HAL backend probed.
	Backend string

	// Adapters lists every adapter the backend exposes, in enumeration order.
	Adapters []AdapterReport

	// Limits the device is opened with.
	MaxBufferSize     uint64
	MaxWorkgroupSizeX uint32
	MaxWorkgroupSizeY uint32

	// MaxBindingSize is the largest storage binding a single band may use.
	MaxBindingSize uint64

	// Workgroup is the edge of the shader's square workgroup.
	Workgroup int
}

// SelectedAdapter returns the adapter a render would use.
func (r *Report) SelectedAdapter() (AdapterReport, bool) {
	for _, a := range r.Adapters {
		if a.Selected {
			return a, true
		}
	}
	return AdapterReport{}, false
}

// Probe enumerates the adapters of the Vulkan backend without opening a
// device. It fails with mandelbrot.ErrNoAdapter when there are none.
func Probe() (*Report, error) {
	instance, err := openInstance(instanceFlags(false))
	if err != nil {
		return nil, err
	}
	defer instance.Destroy()

	limits := gputypes.DefaultLimits()
	report := &Report{
		Backend:           "vulkan",
		MaxBufferSize:     limits.MaxBufferSize,
		MaxWorkgroupSizeX: limits.MaxComputeWorkgroupSizeX,
		MaxWorkgroupSizeY: limits.MaxComputeWorkgroupSizeY,
		MaxBindingSize:    maxBindingSize(limits),
		Workgroup:         mandelbrot.WorkgroupSize,
	}

	adapters := instance.EnumerateAdapters(nil)
	selected := pickAdapter(adapterTypes(adapters))
	for i := range adapters {
		report.Adapters = append(report.Adapters, AdapterReport{
			Name:     adapters[i].Info.Name,
			Type:     deviceTypeName(adapters[i].Info.DeviceType),
			Selected: i == selected,
		})
	}
	if selected < 0 {
		return report, mandelbrot.ErrNoAdapter
	}

	if report.MaxWorkgroupSizeX < mandelbrot.WorkgroupSize || report.MaxWorkgroupSizeY < mandelbrot.WorkgroupSize {
		slogger().Warn("gpu: device limits below shader workgroup size",
			"workgroup", mandelbrot.WorkgroupSize,
			"max_x", report.MaxWorkgroupSizeX, "max_y", report.MaxWorkgroupSizeY)
	}
	return report, nil
}
