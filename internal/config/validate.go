package config

import (
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors. A missing webhook secret is
// deliberately not reported: the endpoint answers 500 until one is set.
func Validate(cfg *Config) []error {
	var errs []error

	// Validate GitHub App credentials
	if cfg.GitHub.AppID == "" {
		errs = append(errs, ValidationError{"github.app_id", "required"})
	} else if _, err := cfg.AppIDInt(); err != nil {
		errs = append(errs, ValidationError{"github.app_id", "must be a number"})
	}

	if cfg.GitHub.PrivateKey == "" && cfg.GitHub.PrivateKeyPath == "" {
		errs = append(errs, ValidationError{"github.private_key_path", "required (or github.private_key)"})
	}

	if cfg.GitHub.TimeoutSeconds < 0 {
		errs = append(errs, ValidationError{"github.timeout_seconds", "must not be negative"})
	}

	// Validate LLM config
	if cfg.LLM.Provider == "" {
		errs = append(errs, ValidationError{"llm.provider", "required"})
	} else if cfg.LLM.Provider != "gemini" && cfg.LLM.Provider != "openai" {
		errs = append(errs, ValidationError{"llm.provider", "must be 'gemini' or 'openai'"})
	}

	if cfg.LLM.APIKey == "" {
		errs = append(errs, ValidationError{"llm.api_key", "required"})
	}

	// Validate cache bounds
	if cfg.Cache.Capacity <= 0 {
		errs = append(errs, ValidationError{"cache.capacity", "must be positive"})
	}
	if cfg.Cache.TTLHours <= 0 {
		errs = append(errs, ValidationError{"cache.ttl_hours", "must be positive"})
	}

	// Validate repositories
	for i, repo := range cfg.Repositories {
		prefix := fmt.Sprintf("repositories[%d]", i)

		if repo.Org == "" {
			errs = append(errs, ValidationError{prefix + ".org", "required"})
		}
		if repo.Repo == "" {
			errs = append(errs, ValidationError{prefix + ".repo", "required"})
		}
	}

	return errs
}
