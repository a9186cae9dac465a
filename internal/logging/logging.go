// Package logging builds the zap loggers shared by the bridge components.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"

	defaultLevel             = "info"
	standardErrorSink        = "stderr"
	invalidLevelErrorFormat  = "parse log level %q: %w"
	invalidFormatErrorFormat = "unsupported log format %q"
	buildLoggerErrorFormat   = "build logger: %w"
)

// New returns a logger writing to standard error. Standard output stays
// reserved for pipeline results.
func New(level string, format string) (*zap.Logger, error) {
	trimmedLevel := strings.TrimSpace(level)
	if trimmedLevel == "" {
		trimmedLevel = defaultLevel
	}
	parsedLevel, parseErr := zapcore.ParseLevel(trimmedLevel)
	if parseErr != nil {
		return nil, fmt.Errorf(invalidLevelErrorFormat, level, parseErr)
	}

	var loggerConfig zap.Config
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatConsole:
		loggerConfig = zap.NewDevelopmentConfig()
		loggerConfig.Development = false
		loggerConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case FormatJSON:
		loggerConfig = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf(invalidFormatErrorFormat, format)
	}
	loggerConfig.Level = zap.NewAtomicLevelAt(parsedLevel)
	loggerConfig.OutputPaths = []string{standardErrorSink}
	loggerConfig.ErrorOutputPaths = []string{standardErrorSink}

	logger, buildErr := loggerConfig.Build()
	if buildErr != nil {
		return nil, fmt.Errorf(buildLoggerErrorFormat, buildErr)
	}
	return logger, nil
}

// OrNop substitutes a no-op logger for nil so components never need nil checks.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
