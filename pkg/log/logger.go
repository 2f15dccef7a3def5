package log

// Logger receives trace events. Implementations must be safe for
// concurrent use and should not block.
type Logger interface {
	Log(event Event)
}

// NoopLogger discards all events. The zero value is ready to use.
//
// A connection manager configured with a NoopLogger, or with nothing that
// Enabled reports true for, talks to the handle directly and never builds
// transfer events.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Enabled reports whether events sent to l can reach a sink. Nil loggers,
// NoopLogger and a MultiLogger with no enabled children are disabled.
func Enabled(l Logger) bool {
	switch v := l.(type) {
	case nil:
		return false
	case NoopLogger, *NoopLogger:
		return false
	case *MultiLogger:
		return v != nil && len(v.loggers) > 0
	default:
		return true
	}
}

var _ Logger = NoopLogger{}
