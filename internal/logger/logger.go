// Package logger builds the zap loggers used across the recruiter and a few
// helpers for attaching candidate-scoped fields.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Structured field keys shared by the pipeline components.
const (
	FieldCandidate = "candidate"
	FieldEmail     = "email"
	FieldRunID     = "run_id"
	FieldProvider  = "ai_provider"
	FieldModel     = "ai_model"
)

// New returns a logger writing to stdout. json switches the encoding from
// console to JSON and debug lowers the level to Debug.
func New(json bool, debug bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	encoding := "console"

	if json {
		encoding = "json"
	}

	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "step",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}

	return cfg.Build()
}

// WithFields attaches fields to logger. A nil logger is replaced with a no-op
// logger so components can be constructed without one.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// Candidate returns the fields identifying a candidate in log entries.
// Empty values are dropped.
func Candidate(name, email string) []zap.Field {
	fields := make([]zap.Field, 0, 2)
	if name = strings.TrimSpace(name); name != "" {
		fields = append(fields, zap.String(FieldCandidate, name))
	}
	if email = strings.TrimSpace(email); email != "" {
		fields = append(fields, zap.String(FieldEmail, email))
	}
	return fields
}

// WithProvider attaches the evaluator provider and model to logger.
func WithProvider(logger *zap.Logger, provider, model string) *zap.Logger {
	fields := make([]zap.Field, 0, 2)
	if provider = strings.TrimSpace(provider); provider != "" {
		fields = append(fields, zap.String(FieldProvider, provider))
	}
	if model = strings.TrimSpace(model); model != "" {
		fields = append(fields, zap.String(FieldModel, model))
	}
	return WithFields(logger, fields...)
}

// TruncateForLog shortens s to limit runes, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
