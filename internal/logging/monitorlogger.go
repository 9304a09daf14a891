package logging

import "github.com/rs/zerolog"

// MonitorLogger adapts zerolog.Logger to the monitor.Logger interface.
// The progress monitor and the InfluxDB manager log on their own hot paths
// and use zerolog's allocation-free events rather than slog.
type MonitorLogger struct {
	logger zerolog.Logger
}

// NewMonitorLogger creates a new MonitorLogger wrapping a zerolog.Logger.
func NewMonitorLogger(logger zerolog.Logger) *MonitorLogger {
	return &MonitorLogger{logger: logger}
}

// Debug logs a debug message with optional key-value pairs.
func (l *MonitorLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(toFields(keysAndValues)).Msg(msg)
}

// Info logs an info message with optional key-value pairs.
func (l *MonitorLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info().Fields(toFields(keysAndValues)).Msg(msg)
}

// Error logs an error message with optional key-value pairs.
func (l *MonitorLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Error().Fields(toFields(keysAndValues)).Msg(msg)
}

// toFields converts key-value pairs to a map for zerolog.
func toFields(keysAndValues []any) map[string]any {
	fields := make(map[string]any, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	return fields
}
