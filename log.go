package joint

import (
	"log/slog"
	"os"
	"strings"
)

var logger = newLogger()

// newLogger creates the package logger with text output on stderr.
// The log level can be controlled via the JOINT_LOG_LEVEL environment variable.
// Valid levels: DEBUG, INFO, WARN, ERROR. Defaults to WARN.
func newLogger() *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: getLogLevelFromEnv(),
	})
	return slog.New(handler)
}

// getLogLevelFromEnv determines the log level from environment variables.
func getLogLevelFromEnv() slog.Level {
	levelStr := strings.ToUpper(os.Getenv("JOINT_LOG_LEVEL"))
	switch levelStr {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// SetLogger replaces the package logger. A nil logger restores the default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newLogger()
	}
	logger = l
}

// Logger returns the package logger.
func Logger() *slog.Logger {
	return logger
}
