package logger

// NoOpLogger discards everything.
type NoOpLogger struct{}

func (NoOpLogger) Debug(msg string, fields ...interface{}) {}
func (NoOpLogger) Info(msg string, fields ...interface{})  {}
func (NoOpLogger) Warn(msg string, fields ...interface{})  {}
func (NoOpLogger) Error(msg string, fields ...interface{}) {}
func (NoOpLogger) SetLevel(level string)                   {}

func (n NoOpLogger) WithField(key string, value interface{}) Logger {
	return n
}

func (n NoOpLogger) WithFields(fields map[string]interface{}) Logger {
	return n
}

func (n NoOpLogger) With(fields ...Field) Logger {
	return n
}

// OrNoOp returns l, or a NoOpLogger when l is nil.
func OrNoOp(l Logger) Logger {
	if l == nil {
		return NoOpLogger{}
	}
	return l
}
