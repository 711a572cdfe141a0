//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/mandelbrot"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// instanceFlags returns the instance flags for a renderer. Validation turns
// on the Khronos validation layer and its debug messenger when installed.
func instanceFlags(validate bool) gputypes.InstanceFlags {
	if validate {
		return gputypes.InstanceFlagsValidation | gputypes.InstanceFlagsDebug
	}
	return gputypes.InstanceFlagsNone
}

// openInstance creates a HAL instance on the Vulkan backend.
func openInstance(flags gputypes.InstanceFlags) (hal.Instance, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{
		Backends: gputypes.BackendsVulkan,
		Flags:    flags,
	})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	return instance, nil
}

// pickAdapter returns the index of the adapter to use: the first discrete
// or integrated GPU, otherwise the first adapter. It returns -1 for an
// empty list.
func pickAdapter(types []gputypes.DeviceType) int {
	if len(types) == 0 {
		return -1
	}
	for i, t := range types {
		if t == gputypes.DeviceTypeDiscreteGPU || t == gputypes.DeviceTypeIntegratedGPU {
			return i
		}
	}
	return 0
}

func adapterTypes(adapters []hal.ExposedAdapter) []gputypes.DeviceType {
	types := make([]gputypes.DeviceType, len(adapters))
	for i := range adapters {
		types[i] = adapters[i].Info.DeviceType
	}
	return types
}

// deviceTypeName names a device type for logs and probe reports.
func deviceTypeName(t gputypes.DeviceType) string {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return "discrete GPU"
	case gputypes.DeviceTypeIntegratedGPU:
		return "integrated GPU"
	default:
		return "other"
	}
}

// initGPU creates a standalone Vulkan device. It is the path taken when no
// external device was provided via SetDeviceProvider.
func (r *Renderer) initGPU() error {
	instance, err := openInstance(instanceFlags(r.validate))
	if err != nil {
		return err
	}
	r.instance = instance
	if r.validate {
		slogger().Info("gpu: validation requested", "layer", "VK_LAYER_KHRONOS_validation")
	}

	adapters := instance.EnumerateAdapters(nil)
	selected := pickAdapter(adapterTypes(adapters))
	if selected < 0 {
		r.releaseDevice()
		return mandelbrot.ErrNoAdapter
	}
	slogger().Debug("gpu: adapters enumerated", "count", len(adapters))
	for i := range adapters {
		slogger().Debug("gpu: adapter",
			"index", i,
			"name", adapters[i].Info.Name,
			"type", deviceTypeName(adapters[i].Info.DeviceType))
	}

	adapter := &adapters[selected]
	openDev, err := adapter.Adapter.Open(gputypes.Features(0), r.limits)
	if err != nil {
		r.releaseDevice()
		return fmt.Errorf("open device: %w", err)
	}
	r.device = openDev.Device
	r.queue = openDev.Queue
	r.adapterName = adapter.Info.Name

	slogger().Info("gpu: device opened",
		"adapter", adapter.Info.Name,
		"type", deviceTypeName(adapter.Info.DeviceType))
	return nil
}

// releaseDevice destroys the device and instance unless they are shared.
func (r *Renderer) releaseDevice() {
	if !r.externalDevice {
		if r.device != nil {
			r.device.Destroy()
		}
		if r.instance != nil {
			r.instance.Destroy()
		}
	}
	r.device = nil
	r.queue = nil
	r.instance = nil
	r.adapterName = ""
	r.externalDevice = false
}
