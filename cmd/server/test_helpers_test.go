package main

import (
	"testing"

	"github.com/phrazzld/go-api-template/internal/config"
	"github.com/phrazzld/go-api-template/internal/platform/logger"
)

// newTestConfig returns the default configuration with a 1 KB body limit.
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			Port:               8000,
			Environment:        "development",
			RequestSizeLimitKB: 1,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
		Log: config.LogConfig{
			Level:     "info",
			Dir:       t.TempDir(),
			MaxSizeMB: logger.DefaultMaxSizeMB,
		},
	}
}

// newTestApplication wires an application whose loggers all write to the
// returned buffer.
func newTestApplication(t *testing.T) (*application, *logger.TestLogBuffer) {
	t.Helper()
	reg, logBuf := logger.NewTestRegistry(t)
	return newApplication(newTestConfig(t), reg), logBuf
}
