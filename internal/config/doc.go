// Package config loads the service settings from environment variables (and an
// optional .env file), applies defaults and validates the result. The loaded
// Config is read once at startup and treated as immutable afterwards.
package config
