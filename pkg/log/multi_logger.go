package log

// MultiLogger fans trace events out to several sinks, typically a file
// trace for tic-log and a slog console. The slice is fixed at creation so
// Log takes no lock.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger creates a MultiLogger. Disabled entries are dropped and
// nested MultiLoggers are flattened, so the result is disabled when no sink
// is left.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	out := make([]Logger, 0, len(loggers))
	for _, l := range loggers {
		if nested, ok := l.(*MultiLogger); ok && nested != nil {
			out = append(out, nested.loggers...)
			continue
		}
		if Enabled(l) {
			out = append(out, l)
		}
	}
	return &MultiLogger{loggers: out}
}

// Len returns the number of sinks.
func (m *MultiLogger) Len() int {
	return len(m.loggers)
}

// Log sends the event to every sink in order.
func (m *MultiLogger) Log(event Event) {
	for _, l := range m.loggers {
		l.Log(event)
	}
}

var _ Logger = (*MultiLogger)(nil)
