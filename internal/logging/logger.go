package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "PETPAL_LOG_LEVEL"

// Initialize creates a new logger with the specified level writing to stderr.
// If level is empty, it checks PETPAL_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
func Initialize(level string) error {
	return InitializeWithOutput(level, "")
}

// InitializeWithOutput is like Initialize but writes to the given file path.
// An empty path means stderr. The terminal UI passes a file here so log lines
// never land on the screen it is drawing.
func InitializeWithOutput(level, path string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	output := "stderr"
	colored := true
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		output = path
		colored = false
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(level)),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{output},
	}

	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if colored {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

// InitializeFromEnv initializes the logger from the PETPAL_LOG_LEVEL
// environment variable.
func InitializeFromEnv() error {
	return Initialize("")
}

// ParseLevel maps a level name to a zap level. Unknown names map to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Fallback to silent logger if not initialized
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogAPIRequest logs an outbound request to the inference service
func LogAPIRequest(requestID, method, operation string) {
	Debug("API request",
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("operation", operation),
	)
}

// LogAPIResponse logs a completed round trip
func LogAPIResponse(requestID, operation string, statusCode, size int, elapsed time.Duration) {
	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("operation", operation),
		zap.Int("status_code", statusCode),
		zap.Int("size", size),
		zap.Duration("elapsed", elapsed),
	}

	if statusCode >= 400 {
		Warn("API response", fields...)
		return
	}
	Info("API response", fields...)
}

// LogAPIFailure logs a request that never produced a response
func LogAPIFailure(requestID, operation, kind string, err error) {
	Warn("API request failed",
		zap.String("request_id", requestID),
		zap.String("operation", operation),
		zap.String("kind", kind),
		zap.Error(err),
	)
}

// LogTransition logs a screen-state phase change
func LogTransition(sessionID, mode, from, to string) {
	Debug("State transition",
		zap.String("session_id", sessionID),
		zap.String("mode", mode),
		zap.String("from", from),
		zap.String("to", to),
	)
}

// LogNotice logs a user-facing notice raised by the session
func LogNotice(sessionID, kind, message string) {
	Info("Notice raised",
		zap.String("session_id", sessionID),
		zap.String("kind", kind),
		zap.String("message", message),
	)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
