package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLogLevel maps a config string to a slog level. Unknown values fall
// back to error so a typo never floods the terminal.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// InitLogging installs the default slog logger writing to stderr at the
// configured level and returns the level in effect.
func InitLogging(cfg *Config) slog.Level {
	level := ParseLogLevel(cfg.Logging.Level)
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return level
}

// InitFileLogging redirects logging to the cache-dir log file. Used by the
// TUI, which owns the terminal and cannot share stderr with log output.
func InitFileLogging(cfg *Config) (slog.Level, func(), error) {
	level := ParseLogLevel(cfg.Logging.Level)

	//nolint:gosec // G304: log path comes from our own path manager
	f, err := os.OpenFile(GetLogFile(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		// Fall back to discarding logs rather than corrupting the screen.
		handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level})
		slog.SetDefault(slog.New(handler))
		return level, func() {}, err
	}

	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return level, func() { _ = f.Close() }, nil
}
