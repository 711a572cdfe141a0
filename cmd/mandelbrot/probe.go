package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/muesli/termenv"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/mandelbrot/gpu"
	"github.com/gogpu/mandelbrot/internal/vkprobe"
)

type probePrinter struct {
	out *termenv.Output
	p   *message.Printer
}

func (pp probePrinter) heading(s string) {
	fmt.Fprintln(pp.out, pp.out.String(s).Foreground(termenv.ANSICyan).Bold())
}

func (pp probePrinter) warn(s string) {
	fmt.Fprintln(pp.out, pp.out.String("WARNING: "+s).Foreground(termenv.ANSIYellow))
}

func (pp probePrinter) field(name string, value any) {
	pp.p.Fprintf(pp.out, "  %-22s %v\n", name+":", value)
}

// printProbe writes the HAL adapter report and, when compiled in, the
// Vulkan loader report. Only a failing HAL probe is an error.
func printProbe(w io.Writer) error {
	pp := probePrinter{
		out: termenv.NewOutput(w),
		p:   message.NewPrinter(language.English),
	}

	report, err := gpu.Probe()
	if report != nil {
		pp.heading("GPU adapters (" + report.Backend + ")")
		for _, a := range report.Adapters {
			mark := " "
			if a.Selected {
				mark = "*"
			}
			fmt.Fprintf(pp.out, "  %s %s (%s)\n", mark, a.Name, a.Type)
		}
		pp.heading("Limits")
		pp.field("max buffer size", report.MaxBufferSize)
		pp.field("max storage binding", report.MaxBindingSize)
		pp.field("max workgroup size", fmt.Sprintf("%d x %d", report.MaxWorkgroupSizeX, report.MaxWorkgroupSizeY))
		pp.field("shader workgroup", fmt.Sprintf("%d x %d", report.Workgroup, report.Workgroup))
	}
	if err != nil {
		return err
	}

	vk, err := vkprobe.Probe()
	if errors.Is(err, vkprobe.ErrUnavailable) {
		pp.p.Fprintf(pp.out, "\n%v\n", err)
		return nil
	}
	if vk == nil {
		pp.warn(err.Error())
		return nil
	}

	pp.heading("Vulkan loader")
	pp.field("layers", len(vk.Layers))
	pp.field("validation layer", vk.ValidationLayer)
	pp.field("instance extensions", len(vk.InstanceExtensions))
	pp.field("debug report", vk.DebugReport)
	for _, d := range vk.Devices {
		pp.heading(d.Name)
		pp.field("type", d.Type)
		pp.field("vendor id", fmt.Sprintf("0x%04X", d.VendorID))
		pp.field("device id", fmt.Sprintf("0x%04X", d.DeviceID))
		pp.field("api version", d.APIVersion)
		pp.field("queue families", len(d.QueueFamilies))
		if idx, qerr := d.ComputeQueueFamily(); qerr == nil {
			pp.field("compute queue family", idx)
		}
		pp.field("extensions", len(d.Extensions))
	}
	for _, msg := range vk.Warnings() {
		pp.warn(msg)
	}
	if err != nil {
		pp.warn(err.Error())
	}
	return nil
}
