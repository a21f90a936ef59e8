package port

// Fields - structured data attached to a log entry
type Fields map[string]interface{}

// LoggerPort - logging contract used by the core and the adapters
type LoggerPort interface {
	Info(msg string, fields Fields)

	Warn(msg string, fields Fields)

	Error(msg string, err error, fields Fields)

	Debug(msg string, fields Fields)
	// WithFields returns a logger with the fields already attached
	WithFields(fields Fields) LoggerPort
}
