package config

import (
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// EnvPrefix namespaces environment overrides, e.g. GH_SCOUT_SERVER_ADDR
const EnvPrefix = "GH_SCOUT"

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match // Keep original if env var not set
	})
}

// expandSecret is expandEnvVars for credentials: an unresolved reference
// becomes empty so it is never mistaken for a real value.
func expandSecret(s string) string {
	s = expandEnvVars(s)
	if envVarPattern.MatchString(s) {
		return ""
	}
	return s
}

// expandConfigEnvVars expands environment variables in config string fields
func expandConfigEnvVars(cfg *Config) {
	cfg.Server.Addr = expandEnvVars(cfg.Server.Addr)
	cfg.Server.WebhookSecret = expandSecret(cfg.Server.WebhookSecret)
	cfg.GitHub.AppID = expandSecret(cfg.GitHub.AppID)
	cfg.GitHub.PrivateKeyPath = expandSecret(cfg.GitHub.PrivateKeyPath)
	cfg.GitHub.PrivateKey = expandSecret(cfg.GitHub.PrivateKey)
	cfg.LLM.Model = expandEnvVars(cfg.LLM.Model)
	cfg.LLM.APIKey = expandSecret(cfg.LLM.APIKey)
	cfg.LLM.BaseURL = expandEnvVars(cfg.LLM.BaseURL)
}

// NewViper returns a viper instance reading GH_SCOUT_* environment overrides
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ApplyOverrides copies explicitly set viper keys (flags or GH_SCOUT_* env)
// over the file config.
func ApplyOverrides(cfg *Config, v *viper.Viper) {
	if v == nil {
		return
	}

	if v.IsSet("server.addr") {
		cfg.Server.Addr = v.GetString("server.addr")
	}
	if v.IsSet("server.webhook_secret") {
		cfg.Server.WebhookSecret = v.GetString("server.webhook_secret")
	}
	if v.IsSet("server.async") {
		cfg.Server.Async = v.GetBool("server.async")
	}
	if v.IsSet("server.dry_run") {
		cfg.Server.DryRun = v.GetBool("server.dry_run")
	}
	if v.IsSet("github.app_id") {
		cfg.GitHub.AppID = v.GetString("github.app_id")
	}
	if v.IsSet("github.private_key_path") {
		cfg.GitHub.PrivateKeyPath = v.GetString("github.private_key_path")
	}
	if v.IsSet("llm.provider") {
		cfg.LLM.Provider = v.GetString("llm.provider")
	}
	if v.IsSet("llm.model") {
		cfg.LLM.Model = v.GetString("llm.model")
	}
	if v.IsSet("llm.api_key") {
		cfg.LLM.APIKey = v.GetString("llm.api_key")
	}
	if v.IsSet("llm.base_url") {
		cfg.LLM.BaseURL = v.GetString("llm.base_url")
	}
	if v.IsSet("logging.debug") {
		cfg.Logging.Debug = v.GetBool("logging.debug")
	}
	if v.IsSet("logging.json") {
		cfg.Logging.JSON = v.GetBool("logging.json")
	}
}
