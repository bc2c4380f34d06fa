package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/go-api-template/internal/config"
)

// ParseLevel converts a configured level name (case-insensitive) to a slog.Level.
// Unknown names fall back to info and report ok == false.
func ParseLevel(name string) (level slog.Level, ok bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Setup initializes the application's logging system based on the provided
// configuration. It creates the console and rotating file sinks, builds the
// registry and installs its root logger as slog's default.
//
// The caller owns the returned registry and must call Shutdown on exit.
func Setup(cfg config.LogConfig) (*Registry, error) {
	level, ok := ParseLevel(cfg.Level)

	fileSink, err := NewFileSink(cfg.Dir, DefaultLogFile, cfg.MaxSizeMB, cfg.BackupCount)
	if err != nil {
		return nil, fmt.Errorf("failed to set up file sink: %w", err)
	}

	reg := NewRegistry(level, NewConsoleSink(os.Stdout), fileSink)
	root := reg.Get(RootLoggerName)
	slog.SetDefault(root)

	if !ok {
		root.Warn("invalid log level configured, using default level",
			"configured_level", cfg.Level,
			"default_level", "info")
	}

	return reg, nil
}
