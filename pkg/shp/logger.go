package shp

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the package's logger. Decode warnings are mirrored to
// it as they are emitted; results never depend on it.
// This must be called before any sessions are opened.
func SetLogger(l *zap.Logger) {
	logger = l
}
