package object

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	logger   *zap.Logger
	loggerMu sync.RWMutex
)

// Logger returns the package logger. It is a no-op logger until
// SetLogger is called.
func Logger() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// SetLogger installs a logger for the package. Pass nil to restore the
// no-op logger.
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
}

// debug enables assertion traps for programmer errors such as an object
// handle pointing outside its mapped region. When false those cases
// degrade to the empty object.
var debug = false

// SetDebug toggles assertion traps.
func SetDebug(on bool) {
	debug = on
}

func assertf(format string, args ...any) {
	if debug {
		panic(fmt.Sprintf(format, args...))
	}
	Logger().Warn("assertion failed", zap.String("detail", fmt.Sprintf(format, args...)))
}
