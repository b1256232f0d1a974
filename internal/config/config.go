// Package config loads the application configuration from the environment.
// Configuration is read once at startup and treated as immutable.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the server needs to start.
type Config struct {
	Addr            string        // listen address, e.g. ":3000"
	JWTSecret       string        // HMAC secret for bearer tokens, required
	LogLevel        string        // debug / info / warn / error
	ShutdownTimeout time.Duration // grace period for in-flight requests
}

// Load reads the configuration from TASKDECK_* environment variables.
// TASKDECK_JWT_SECRET has no default and must be set; everything else falls
// back to a sensible value.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("taskdeck")
	v.AutomaticEnv()

	v.SetDefault("addr", ":3000")
	v.SetDefault("log_level", "info")
	v.SetDefault("shutdown_timeout", 30*time.Second)

	cfg := &Config{
		Addr:            v.GetString("addr"),
		JWTSecret:       v.GetString("jwt_secret"),
		LogLevel:        v.GetString("log_level"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("config: TASKDECK_JWT_SECRET is not set")
	}

	return cfg, nil
}
