package utils

import (
	"errors"
	"io"
	"log/slog"
	"os"
)

// Configure the default slog logger from a log level and an optional
// output file.
//
// Valid log levels are "none", "error", "warn", "info", "debug"; any
// other value returns an error. With an empty logFile the logger
// writes text to stdout; otherwise JSON is written to the given path
// (an error is returned if the path cannot be opened).
//
// Returns the os.File slog writes to, so callers can close it on the
// way out:
//
//	logFilePointer, err := utils.ConfigureDefaultLogger(level, file, slog.HandlerOptions{})
//	if logFilePointer != nil {
//		defer logFilePointer.Close()
//	}
func ConfigureDefaultLogger(logLevel string, logFile string, loggerOptions slog.HandlerOptions) (*os.File, error) {
	switch logLevel {
	case "none":
		// No logging wanted; swallow everything and return.
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return nil, nil
	case "error":
		loggerOptions.Level = slog.LevelError
	case "warn":
		loggerOptions.Level = slog.LevelWarn
	case "info":
		loggerOptions.Level = slog.LevelInfo
	case "debug":
		loggerOptions.Level = slog.LevelDebug
	default:
		return nil, errors.New("unexpected log level")
	}

	if logFile == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &loggerOptions)))
		return nil, nil
	}

	logFilePointer, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logFilePointer, &loggerOptions)))
	return logFilePointer, nil
}
