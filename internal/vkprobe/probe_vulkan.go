//go:build vulkan

package vkprobe

import (
	"fmt"

	vk "github.com/darkace1998/golang-vulkan-api"

	"github.com/gogpu/mandelbrot"
)

// Probe lists loader layers, creates a throwaway instance (with the
// validation layer if installed) and describes every physical device.
func Probe() (*Report, error) {
	report := &Report{}

	layers, err := vk.EnumerateInstanceLayerProperties()
	if err != nil {
		mandelbrot.Logger().Warn("vkprobe: failed to enumerate layers", "err", err)
	}
	layerNames := make([]string, 0, len(layers))
	for _, layer := range layers {
		layerNames = append(layerNames, layer.LayerName)
	}
	report.scanLayers(layerNames)

	exts, err := vk.EnumerateInstanceExtensionProperties("")
	if err != nil {
		mandelbrot.Logger().Warn("vkprobe: failed to enumerate instance extensions", "err", err)
	}
	extNames := make([]string, 0, len(exts))
	for _, ext := range exts {
		extNames = append(extNames, ext.ExtensionName)
	}
	report.scanInstanceExtensions(extNames)

	createInfo := &vk.InstanceCreateInfo{
		ApplicationInfo: &vk.ApplicationInfo{
			ApplicationName:    "Mandelbrot",
			ApplicationVersion: vk.MakeVersion(1, 0, 0),
			EngineName:         "Mandelbrot",
			EngineVersion:      vk.MakeVersion(1, 0, 0),
			APIVersion:         vk.Version13,
		},
	}
	if report.ValidationLayer {
		createInfo.EnabledLayerNames = []string{ValidationLayer}
	}

	instance, err := vk.CreateInstance(createInfo)
	if err != nil {
		return report, fmt.Errorf("vkprobe: create instance: %w", err)
	}
	defer vk.DestroyInstance(instance)

	physicalDevices, err := vk.EnumeratePhysicalDevices(instance)
	if err != nil {
		return report, fmt.Errorf("vkprobe: enumerate physical devices: %w", err)
	}
	if len(physicalDevices) == 0 {
		return report, mandelbrot.ErrNoAdapter
	}

	for _, pd := range physicalDevices {
		props := vk.GetPhysicalDeviceProperties(pd)
		dev := Device{
			Name:     props.DeviceName,
			Type:     deviceTypeName(uint32(props.DeviceType)),
			VendorID: uint32(props.VendorID),
			DeviceID: uint32(props.DeviceID),
			APIVersion: fmt.Sprintf("%d.%d.%d",
				props.APIVersion.Major(), props.APIVersion.Minor(), props.APIVersion.Patch()),
		}

		for i, qf := range vk.GetPhysicalDeviceQueueFamilyProperties(pd) {
			dev.QueueFamilies = append(dev.QueueFamilies, QueueFamily{
				Index:    i,
				Compute:  qf.QueueFlags&vk.QueueComputeBit != 0,
				Graphics: qf.QueueFlags&vk.QueueGraphicsBit != 0,
			})
		}

		if exts, err := vk.EnumerateDeviceExtensionProperties(pd, ""); err == nil {
			for _, ext := range exts {
				dev.Extensions = append(dev.Extensions, ext.ExtensionName)
			}
		}

		mandelbrot.Logger().Debug("vkprobe: physical device",
			"name", dev.Name, "type", dev.Type,
			"vendor_id", fmt.Sprintf("0x%04X", dev.VendorID),
			"queue_families", len(dev.QueueFamilies))
		report.Devices = append(report.Devices, dev)
	}
	return report, nil
}
