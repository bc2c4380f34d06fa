package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/phrazzld/go-api-template/internal/api"
	apiMiddleware "github.com/phrazzld/go-api-template/internal/api/middleware"
	"github.com/phrazzld/go-api-template/internal/config"
	"github.com/phrazzld/go-api-template/internal/platform/logger"
	"github.com/phrazzld/go-api-template/internal/redact"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Lifecycle messages.
const (
	msgEnvironment = "Application Environment Variables"
	msgStarted     = "Go API Template has started successfully."
	msgShutdown    = "Go API Template is shutting down."
)

// Names of the loggers handed out by the registry.
const (
	loggerMain       = "main"
	loggerAccess     = "api.access"
	loggerDemo       = "api.demo"
	loggerValidation = "api.validation"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Logging
	registry *logger.Registry
	logger   *slog.Logger

	// Metrics
	metricsRegistry *prometheus.Registry
	httpMetrics     *apiMiddleware.Metrics

	// Handlers
	demoHandler *api.DemoHandler

	cleanupOnce sync.Once
}

// newApplication creates a new application instance from an already loaded
// configuration and logger registry.
func newApplication(cfg *config.Config, registry *logger.Registry) *application {
	metricsRegistry := prometheus.NewRegistry()
	metricsRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	validation := api.NewValidationErrorHandler(registry.Get(loggerValidation))

	return &application{
		config:          cfg,
		registry:        registry,
		logger:          registry.Get(loggerMain),
		metricsRegistry: metricsRegistry,
		httpMetrics:     apiMiddleware.NewMetrics(metricsRegistry),
		demoHandler:     api.NewDemoHandler(registry.Get(loggerDemo), validation),
	}
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// onStartup logs the effective configuration, masking sensitive values, and
// announces that the application is up.
func (app *application) onStartup() {
	fields := logger.Fields{
		"environment":    app.config.Server.Environment,
		"security_level": app.config.Server.SecurityLevel(),
	}
	for _, s := range app.config.Settings() {
		fields["env."+strings.ToLower(s.Name)] = redact.Setting(s.Name, s.Value)
	}

	app.logger.Info(msgEnvironment, logger.WithFields(fields))
	app.logger.Info(msgStarted)
}

// cleanup handles graceful shutdown of application resources. Only the first
// call has an effect.
func (app *application) cleanup() {
	app.cleanupOnce.Do(func() {
		app.logger.Info(msgShutdown)

		if err := app.registry.Shutdown(); err != nil {
			// The sinks are gone; stderr is all that is left.
			fmt.Fprintf(os.Stderr, "Error closing log sinks: %v\n", err)
		}
	})
}
