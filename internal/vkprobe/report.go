// Package vkprobe inspects the Vulkan loader directly: instance layers,
// physical devices and their queue families.
//
// The wgpu HAL hides the loader, so this probe is what reports whether the
// Khronos validation layer and VK_EXT_debug_report are installed, and which
// queue family a compute dispatch would land on. It needs cgo and the Vulkan headers and is only
// compiled with the vulkan build tag; otherwise Probe returns ErrUnavailable.
package vkprobe

import (
	"errors"
	"fmt"

	"github.com/gogpu/mandelbrot"
)

const (
	// ValidationLayer is the Khronos validation layer enabled when present.
	ValidationLayer = "VK_LAYER_KHRONOS_validation"

	// DebugReportExtension is the instance extension that reports
	// validation messages back to the application.
	DebugReportExtension = "VK_EXT_debug_report"
)

// ErrUnavailable is returned by Probe when built without the vulkan tag.
var ErrUnavailable = errors.New("vkprobe: Vulkan loader probe not compiled in (build with -tags vulkan)")

// QueueFamily summarises one queue family of a physical device.
type QueueFamily struct {
	Index    int
	Compute  bool
	Graphics bool
}

// Device describes one physical device.
type Device struct {
	Name       string
	Type       string
	VendorID   uint32
	DeviceID   uint32
	APIVersion string

	QueueFamilies []QueueFamily
	Extensions    []string
}

// ComputeQueueFamily returns the index of the first queue family with
// compute capability.
func (d Device) ComputeQueueFamily() (int, error) {
	for _, qf := range d.QueueFamilies {
		if qf.Compute {
			return qf.Index, nil
		}
	}
	return -1, fmt.Errorf("%s: %w", d.Name, mandelbrot.ErrNoComputeQueue)
}

// Report is the result of a loader probe.
type Report struct {
	Layers          []string
	ValidationLayer bool

	// InstanceExtensions lists the loader's instance extensions.
	InstanceExtensions []string
	DebugReport        bool

	Devices []Device
}

// scanLayers records layer names and whether the validation layer is one.
func (r *Report) scanLayers(names []string) {
	for _, name := range names {
		r.Layers = append(r.Layers, name)
		if name == ValidationLayer {
			r.ValidationLayer = true
		}
	}
}

// scanInstanceExtensions records extension names and whether debug
// reporting is among them.
func (r *Report) scanInstanceExtensions(names []string) {
	for _, name := range names {
		r.InstanceExtensions = append(r.InstanceExtensions, name)
		if name == DebugReportExtension {
			r.DebugReport = true
		}
	}
}

// Warnings lists missing optional capabilities. They never stop a render.
func (r *Report) Warnings() []string {
	var out []string
	if !r.ValidationLayer {
		out = append(out, ValidationLayer+" layer not available")
	}
	if !r.DebugReport {
		out = append(out, DebugReportExtension+" extension not available")
	}
	for _, d := range r.Devices {
		if _, err := d.ComputeQueueFamily(); err != nil {
			out = append(out, err.Error())
		}
	}
	return out
}

// deviceTypeName maps VkPhysicalDeviceType values to names.
func deviceTypeName(t uint32) string {
	switch t {
	case 1:
		return "integrated GPU"
	case 2:
		return "discrete GPU"
	case 3:
		return "virtual GPU"
	case 4:
		return "CPU"
	default:
		return "other"
	}
}
