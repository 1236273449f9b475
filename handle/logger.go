package handle

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// Logger returns the package logger. It is a no-op logger until SetLogger
// installs a real one.
func Logger() *zap.Logger {
	return logger.Load()
}

// SetLogger installs the package logger. A nil logger restores the no-op.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// LogObserver logs handle lifecycle events at debug level. The core never
// logs on its own; install this with SetObserver to trace lifecycles.
type LogObserver struct {
	log *zap.Logger
}

// NewLogObserver creates a log observer. A nil logger uses Logger().
func NewLogObserver(log *zap.Logger) *LogObserver {
	if log == nil {
		log = Logger()
	}
	return &LogObserver{log: log}
}

func (l *LogObserver) OnHandleEvent(e Event) {
	fields := []zap.Field{
		zap.String("event", e.Type.String()),
		zap.String("kind", e.Kind),
	}
	if e.Handle != 0 {
		fields = append(fields, zap.Uint64("handle", uint64(e.Handle)))
	}
	if e.Token != 0 {
		fields = append(fields, zap.Uint64("token", uint64(e.Token)))
	}
	l.log.Debug("handle lifecycle", fields...)
}
