//go:build !nogpu

package gpu

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/wgpu/hal"
)

// silentHandler drops every record until a logger is set.
type silentHandler struct{}

func (silentHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (silentHandler) Handle(context.Context, slog.Record) error { return nil }
func (silentHandler) WithAttrs([]slog.Attr) slog.Handler        { return silentHandler{} }
func (silentHandler) WithGroup(string) slog.Handler             { return silentHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(silentHandler{}))
}

// slogger returns the current package logger.
func slogger() *slog.Logger { return loggerPtr.Load() }

// setLogger updates the package logger and the HAL logger, which carries
// Vulkan validation messages. Called from Renderer.SetLogger when
// mandelbrot.SetLogger propagates.
func setLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(silentHandler{})
	}
	loggerPtr.Store(l)
	hal.SetLogger(l)
}
