package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/go-api-template/internal/config"
)

// loadAppConfig loads the application configuration from environment variables.
// Returns the loaded config and any loading error.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Logging is not set up yet; this goes through slog's default handler.
	slog.Debug("Server configuration loaded",
		"port", cfg.Server.Port,
		"environment", cfg.Server.Environment,
		"log_level", cfg.Log.Level)

	return cfg, nil
}
