package config

import "strings"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	CORS   CORSConfig   `mapstructure:"cors"   validate:"required"`
	Log    LogConfig    `mapstructure:"log"    validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port               int     `mapstructure:"port"                  validate:"required,gt=0,lt=65536"`
	Environment        string  `mapstructure:"environment"           validate:"required"`
	DebugMode          bool    `mapstructure:"debug_mode"`
	RequestSizeLimitKB float64 `mapstructure:"request_size_limit_kb" validate:"gt=0"`
}

// CORSConfig contains the cross-origin settings applied to every route.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"required,min=1"`
}

// LogConfig contains the log sink settings.
type LogConfig struct {
	Level       string `mapstructure:"level"        validate:"required,oneof=debug info warn error"`
	Dir         string `mapstructure:"dir"          validate:"required"`
	MaxSizeMB   int    `mapstructure:"max_size_mb"  validate:"gt=0"`
	BackupCount int    `mapstructure:"backup_count" validate:"gte=0"`
}

// RequestSizeLimitBytes converts the configured kilobyte limit to bytes.
func (c ServerConfig) RequestSizeLimitBytes() int64 {
	return int64(c.RequestSizeLimitKB * 1024)
}

// IsLocal reports whether the process runs in a local development environment.
func (c ServerConfig) IsLocal() bool {
	return c.Environment == "local"
}

// SecurityLevel describes how strictly the current environment should be treated.
func (c ServerConfig) SecurityLevel() string {
	if c.IsLocal() {
		return "development_only"
	}
	switch c.Environment {
	case "development", "staging", "production":
		return "production_like"
	default:
		return "unknown"
	}
}

// AllowsAllOrigins reports whether the wildcard origin is configured.
func (c CORSConfig) AllowsAllOrigins() bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

// Setting is one named configuration value as exposed to operators.
type Setting struct {
	Name  string
	Value any
}

// Settings lists the configuration values keyed by their environment variable
// names, in a stable order. Lists are joined with commas.
func (c *Config) Settings() []Setting {
	return []Setting{
		{Name: "ENVIRONMENT", Value: c.Server.Environment},
		{Name: "PORT", Value: c.Server.Port},
		{Name: "ALLOWED_ORIGINS", Value: strings.Join(c.CORS.AllowedOrigins, ",")},
		{Name: "DEBUG_MODE", Value: c.Server.DebugMode},
		{Name: "REQUEST_SIZE_LIMIT_KB", Value: c.Server.RequestSizeLimitKB},
		{Name: "REQUEST_SIZE_LIMIT_BYTES", Value: c.Server.RequestSizeLimitBytes()},
		{Name: "LOG_LEVEL", Value: c.Log.Level},
		{Name: "LOG_DIR", Value: c.Log.Dir},
		{Name: "LOG_MAX_SIZE_MB", Value: c.Log.MaxSizeMB},
		{Name: "LOG_BACKUP_COUNT", Value: c.Log.BackupCount},
	}
}

