package main

import (
	"fmt"

	"github.com/phrazzld/go-api-template/internal/config"
	"github.com/phrazzld/go-api-template/internal/platform/logger"
)

// setupAppLogger configures the logger registry from config. DEBUG_MODE forces
// the debug level regardless of LOG_LEVEL.
func setupAppLogger(cfg *config.Config) (*logger.Registry, error) {
	logCfg := cfg.Log
	if cfg.Server.DebugMode {
		logCfg.Level = "debug"
	}

	reg, err := logger.Setup(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	return reg, nil
}
