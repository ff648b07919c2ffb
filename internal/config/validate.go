package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	// env-required only checks presence; an empty DATABASE_DSN slips through.
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn must not be empty")
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error (got %q)", c.Log.Level)
	}

	if c.Server.RateLimitPerMinute <= 0 {
		return fmt.Errorf("server.rate_limit_per_minute must be > 0 (got %d)", c.Server.RateLimitPerMinute)
	}

	if err := c.Engine.validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	return nil
}

func (e *EngineConfig) validate() error {
	if e.MaxValuesPerCategory <= 0 {
		return fmt.Errorf("max_values_per_category must be > 0 (got %d)", e.MaxValuesPerCategory)
	}
	if e.MaxCustomCategories <= 0 {
		return fmt.Errorf("max_custom_categories must be > 0 (got %d)", e.MaxCustomCategories)
	}
	if e.LowConfidenceThreshold < 0 || e.LowConfidenceThreshold > 1 {
		return fmt.Errorf("low_confidence_threshold must be within [0,1] (got %v)", e.LowConfidenceThreshold)
	}
	return nil
}
