// ==============================================================================
// LOGGER PACKAGE - pkg/logger/logger.go
// ==============================================================================
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Info(message string, fields map[string]interface{})
	Error(message string, fields map[string]interface{})
	Warn(message string, fields map[string]interface{})
	Debug(message string, fields map[string]interface{})
	Fatal(message string, fields map[string]interface{})
}

type zapLogger struct {
	logger *zap.Logger
}

// New returns a JSON logger at info level tagged with serviceName.
func New(serviceName string) Logger {
	return NewWithLevel(serviceName, "info")
}

// NewWithLevel accepts debug, info, warn or error. Unknown levels fall back to info.
func NewWithLevel(serviceName, level string) Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(level))
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true

	l, err := cfg.Build()
	if err != nil {
		l = zap.NewExample()
	}
	return &zapLogger{logger: l.With(zap.String("service", serviceName))}
}

// FromZap wraps an existing zap logger, e.g. an observer core in tests.
func FromZap(l *zap.Logger) Logger {
	return &zapLogger{logger: l}
}

func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func toZapFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		if err, ok := v.(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, v))
	}
	return out
}

func (l *zapLogger) Info(message string, fields map[string]interface{}) {
	l.logger.Info(message, toZapFields(fields)...)
}

func (l *zapLogger) Error(message string, fields map[string]interface{}) {
	l.logger.Error(message, toZapFields(fields)...)
}

func (l *zapLogger) Warn(message string, fields map[string]interface{}) {
	l.logger.Warn(message, toZapFields(fields)...)
}

func (l *zapLogger) Debug(message string, fields map[string]interface{}) {
	l.logger.Debug(message, toZapFields(fields)...)
}

func (l *zapLogger) Fatal(message string, fields map[string]interface{}) {
	l.logger.Fatal(message, toZapFields(fields)...)
}

func NewNop() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (l *nopLogger) Info(message string, fields map[string]interface{})  {}
func (l *nopLogger) Error(message string, fields map[string]interface{}) {}
func (l *nopLogger) Warn(message string, fields map[string]interface{})  {}
func (l *nopLogger) Debug(message string, fields map[string]interface{}) {}
func (l *nopLogger) Fatal(message string, fields map[string]interface{}) {}
