package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// levelCore narrows a core to a fixed minimum level, independent of the
// atomic level the core was built with.
type levelCore struct {
	zapcore.Core

	// minimum is the lowest level this core lets through.
	minimum zapcore.Level
}

// Enabled reports whether l passes the fixed minimum.
func (c *levelCore) Enabled(l zapcore.Level) bool {
	return c.minimum.Enabled(l) && c.Core.Enabled(l)
}

// Check adds this core to ce when the entry level is enabled.
//
//nolint:gocritic // AddCore requires ent to be passed by value.
func (c *levelCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(ent.Level) {
		return ce
	}

	return ce.AddCore(ent, c)
}

// With keeps the fixed minimum on derived cores.
//
//nolint:ireturn // zapcore.Core is the required return type.
func (c *levelCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelCore{
		Core:    c.Core.With(fields),
		minimum: c.minimum,
	}
}

// WithLevel raises the minimum level of a logger derived with WithOptions.
// The watch screen uses it to keep informational lines out of the redraw.
//
//nolint:ireturn // zap.Option is the required return type.
func WithLevel(lvl zapcore.Level) zap.Option {
	return zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &levelCore{
			Core:    core,
			minimum: lvl,
		}
	})
}
