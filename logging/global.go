// Package logging wraps log/slog: a text console handler and a JSON handler
// writing to weekly rotated files, reachable through package level functions.
package logging

import (
	"log/slog"
	"os"

	"github.com/giygas/medicaments-graph/config"
)

type LoggingService struct {
	Logger   *slog.Logger
	rotating *RotatingLogger
}

var DefaultLoggingService *LoggingService

// InitLogger initializes the global logger instance. When the log directory
// cannot be used the logger falls back to the console only.
func InitLogger(logDir string, env config.Environment, level string, retentionWeeks int) {
	consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: GetConsoleLogLevel(env, level),
	})

	service := &LoggingService{}

	rotating, err := NewRotatingLogger(logDir, retentionWeeks)
	if err != nil {
		service.Logger = slog.New(consoleHandler)
		service.Logger.Error("Failed to initialize rotating logger, logging to console only", "error", err)
	} else {
		fileHandler := slog.NewJSONHandler(rotating, &slog.HandlerOptions{
			Level: GetFileLogLevel(),
		})
		service.rotating = rotating
		service.Logger = slog.New(&multiHandler{
			handlers: []slog.Handler{consoleHandler, fileHandler},
		})
	}

	if DefaultLoggingService != nil {
		_ = DefaultLoggingService.Close()
	}
	DefaultLoggingService = service
	slog.SetDefault(service.Logger)
}

// Close releases the log file
func (s *LoggingService) Close() error {
	if s.rotating == nil {
		return nil
	}
	return s.rotating.Close()
}

// Close closes the global logger, if any
func Close() error {
	if DefaultLoggingService == nil {
		return nil
	}
	return DefaultLoggingService.Close()
}

// fallback is used before InitLogger has been called
func fallback(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

func logger(level slog.Level) *slog.Logger {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		return fallback(level)
	}
	return DefaultLoggingService.Logger
}

// Logger returns the global logger, or a console logger before InitLogger
func Logger() *slog.Logger {
	return logger(slog.LevelInfo)
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	logger(slog.LevelInfo).Info(msg, args...)
}

func Error(msg string, args ...any) {
	logger(slog.LevelError).Error(msg, args...)
}

func Warn(msg string, args ...any) {
	logger(slog.LevelWarn).Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	logger(slog.LevelDebug).Debug(msg, args...)
}
