package layout

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the layout package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the layout package's logger.
// This must be called before any layout operations.
func SetLogger(l *zap.Logger) {
	logger = l
}

func typeFields(t *Type) []zap.Field {
	return []zap.Field{
		zap.String("type", t.Name),
		zap.Stringer("rule", t.layout.Rule),
		zap.Int("size", t.layout.Size()),
		zap.Int("align", t.layout.Align),
		zap.Int("padding", t.layout.Padding),
	}
}
