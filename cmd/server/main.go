// Package main implements the entry point for the Go API Template server,
// a small HTTP API demonstrating structured logging, request tracing and
// centralized input validation.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/phrazzld/go-api-template/internal/config"
)

// dotEnvFile is read from the working directory before configuration is loaded.
const dotEnvFile = ".env"

func main() {
	fmt.Println("Go API Template Server Starting...")

	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		app.logger.Error("Server stopped with error", "error", err)
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration, sets up logging and wires the
// application together.
func initializeApp() (*application, error) {
	if err := config.LoadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}

	cfg, err := loadAppConfig()
	if err != nil {
		return nil, err
	}

	registry, err := setupAppLogger(cfg)
	if err != nil {
		return nil, err
	}

	return newApplication(cfg, registry), nil
}
