package mandelbrot

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// silentHandler drops every record. Enabled reports false, so a render
// without a configured logger pays nothing for its log calls.
type silentHandler struct{}

func (silentHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (silentHandler) Handle(context.Context, slog.Record) error { return nil }
func (silentHandler) WithAttrs([]slog.Attr) slog.Handler        { return silentHandler{} }
func (silentHandler) WithGroup(string) slog.Handler             { return silentHandler{} }

// activeLogger is read by render goroutines while SetLogger may replace it.
var activeLogger atomic.Pointer[slog.Logger]

func init() {
	activeLogger.Store(slog.New(silentHandler{}))
}

// SetLogger sets the logger used by the renderers and image encoders, and
// hands it to the registered GPU renderer (which also routes Vulkan
// validation messages through it). Renders are silent until it is called;
// nil restores silence.
//
// Levels:
//   - [slog.LevelDebug]: band plan, buffer sizes, workgroup grid, tile counts
//   - [slog.LevelInfo]: adapter opened, image written
//   - [slog.LevelWarn]: fallback to the software renderer, staging buffer
//     unmap failures, missing validation layer (vkprobe)
//
// Example:
//
//	mandelbrot.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(silentHandler{})
	}
	activeLogger.Store(l)

	if r := GPU(); r != nil {
		propagateLogger(r, l)
	}
}

// Logger returns the logger set by SetLogger. The gpu and vkprobe packages
// log through it.
func Logger() *slog.Logger {
	return activeLogger.Load()
}

// loggerSetter is implemented by GPU renderers that log from their own
// package.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

func propagateLogger(r Renderer, l *slog.Logger) {
	if ls, ok := r.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
