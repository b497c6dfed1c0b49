package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// configValidator validates configuration structs using `validate` tags.
var configValidator = validator.New()

// Validate checks the loaded configuration for consistency.
//
// Struct-level `validate` tags are enforced first, then cross-field rules
// that tags cannot express (logging values, database settings, upstream
// endpoints).
func Validate(cfg *Config) error {
	if err := configValidator.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Logging values live in the logger package, whose config struct
	// carries no validate tags; check them field by field.
	if err := configValidator.Var(cfg.Logging.Level, "required,oneof=DEBUG INFO WARN ERROR"); err != nil {
		return fmt.Errorf("invalid logging.level %q: %w", cfg.Logging.Level, err)
	}
	if err := configValidator.Var(cfg.Logging.Format, "required,oneof=text json"); err != nil {
		return fmt.Errorf("invalid logging.format %q: %w", cfg.Logging.Format, err)
	}
	if cfg.Logging.Output == "" {
		return fmt.Errorf("logging.output is required")
	}

	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be greater than zero")
	}

	if err := cfg.Database.Validate(); err != nil {
		return fmt.Errorf("invalid database configuration: %w", err)
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		return fmt.Errorf("telemetry.endpoint is required when telemetry is enabled")
	}
	if cfg.Telemetry.Profiling.Enabled && cfg.Telemetry.Profiling.Endpoint == "" {
		return fmt.Errorf("telemetry.profiling.endpoint is required when profiling is enabled")
	}

	if err := configValidator.Var(cfg.Ollama.URL, "required,url"); err != nil {
		return fmt.Errorf("invalid ollama.url %q: %w", cfg.Ollama.URL, err)
	}
	if err := configValidator.Var(cfg.RAG.URL, "required,url"); err != nil {
		return fmt.Errorf("invalid rag.url %q: %w", cfg.RAG.URL, err)
	}

	return nil
}
