// Package config loads the d2 client configuration with Viper.
//
// Configuration sources, lowest to highest precedence: built-in defaults,
// a d2.toml file in the working directory (or any parent), a
// ~/.d2/config.toml user file, then D2_* environment variables.
package config

import (
	"github.com/spf13/viper"
)

// Config represents the d2 client configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig configures the remote web API connection
type ServerConfig struct {
	BaseURL           string  `mapstructure:"base_url"`            // e.g. "https://play.dhis2.org/demo"
	Username          string  `mapstructure:"username"`            // basic auth user
	Password          string  `mapstructure:"password"`            // basic auth password
	APIToken          string  `mapstructure:"api_token"`           // personal access token; wins over basic auth
	TimeoutSeconds    int     `mapstructure:"timeout_seconds"`     // per-request timeout (default: 60)
	RequestsPerSecond float64 `mapstructure:"requests_per_second"` // client-side throttle, 0 = unlimited
}

// LoggingConfig configures CLI log output
type LoggingConfig struct {
	JSON bool `mapstructure:"json"` // JSON structured output instead of console
}

// Defaults
const (
	DefaultBaseURL        = "http://localhost:8080"
	DefaultTimeoutSeconds = 60
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.base_url", DefaultBaseURL)
	v.SetDefault("server.timeout_seconds", DefaultTimeoutSeconds)
	v.SetDefault("server.requests_per_second", 0.0)
	v.SetDefault("logging.json", false)
}

// BindSensitiveEnvVars explicitly binds credentials to environment variables
// so they never have to live in a config file
func BindSensitiveEnvVars(v *viper.Viper) {
	v.BindEnv("server.base_url", "D2_BASE_URL")
	v.BindEnv("server.username", "D2_USERNAME")
	v.BindEnv("server.password", "D2_PASSWORD")
	v.BindEnv("server.api_token", "D2_API_TOKEN")
}
