//go:build !vulkan

package vkprobe

// Probe returns ErrUnavailable: the loader probe needs the vulkan build tag.
func Probe() (*Report, error) {
	return nil, ErrUnavailable
}
