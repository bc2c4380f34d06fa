package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// envBindings maps configuration keys to the environment variables they are read from.
var envBindings = map[string]string{
	"server.port":                  "PORT",
	"server.environment":           "ENVIRONMENT",
	"server.debug_mode":            "DEBUG_MODE",
	"server.request_size_limit_kb": "REQUEST_SIZE_LIMIT_KB",
	"cors.allowed_origins":         "ALLOWED_ORIGINS",
	"log.level":                    "LOG_LEVEL",
	"log.dir":                      "LOG_DIR",
	"log.max_size_mb":              "LOG_MAX_SIZE_MB",
	"log.backup_count":             "LOG_BACKUP_COUNT",
}

// setDefaults registers the value used for every key when its variable is unset.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.debug_mode", false)
	v.SetDefault("server.request_size_limit_kb", 1024.0)
	v.SetDefault("cors.allowed_origins", "*")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "logs")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.backup_count", 0)
}

// Load reads configuration from environment variables, applies defaults for
// anything unset, and validates the result.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	normalize(&cfg)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// normalize cleans up values whose raw environment form is loosely specified.
func normalize(cfg *Config) {
	cfg.Server.Environment = strings.ToLower(strings.TrimSpace(cfg.Server.Environment))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	origins := make([]string, 0, len(cfg.CORS.AllowedOrigins))
	for _, o := range cfg.CORS.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.CORS.AllowedOrigins = origins
}

// LoadDotEnv loads variables from a dotenv file into the process environment.
// Variables that are already set keep their value. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := gotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}
