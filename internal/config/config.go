package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultTemplate []byte

// Config represents the full application configuration
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	GitHub       GitHubConfig       `yaml:"github"`
	LLM          LLMConfig          `yaml:"llm"`
	Cache        CacheConfig        `yaml:"cache"`
	Profile      ProfileConfig      `yaml:"profile"`
	Logging      LoggingConfig      `yaml:"logging"`
	Repositories []RepositoryConfig `yaml:"repositories"`
}

// ServerConfig contains webhook endpoint settings
type ServerConfig struct {
	Addr          string `yaml:"addr"`
	WebhookPath   string `yaml:"webhook_path"`
	WebhookSecret string `yaml:"webhook_secret"`
	Async         bool   `yaml:"async"`
	DryRun        bool   `yaml:"dry_run"`
}

// GitHubConfig contains GitHub App credentials
type GitHubConfig struct {
	AppID          string `yaml:"app_id"`
	PrivateKeyPath string `yaml:"private_key_path"`
	PrivateKey     string `yaml:"private_key"`
	Host           string `yaml:"host"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// LLMConfig contains classifier provider settings
type LLMConfig struct {
	Provider       string `yaml:"provider"`
	Model          string `yaml:"model"`
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	IntentFilter   bool   `yaml:"intent_filter"`
}

// CacheConfig contains profile cache settings
type CacheConfig struct {
	Capacity      int    `yaml:"capacity"`
	TTLHours      int    `yaml:"ttl_hours"`
	SweepSchedule string `yaml:"sweep_schedule"`
}

// ProfileConfig bounds how much of a commenter's history is fetched
type ProfileConfig struct {
	MaxEvents      int `yaml:"max_events"`
	MaxRepos       int `yaml:"max_repos"`
	MaxDiffs       int `yaml:"max_diffs"`
	MaxDiffChars   int `yaml:"max_diff_chars"`
	MaxReadmeChars int `yaml:"max_readme_chars"`
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	JSON  bool `yaml:"json"`
	Debug bool `yaml:"debug"`
}

// RepositoryConfig contains settings for a specific repository
type RepositoryConfig struct {
	Org     string `yaml:"org"`
	Repo    string `yaml:"repo"`
	Enabled bool   `yaml:"enabled"`
}

// Load reads and parses config from the given path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// LoadDefault parses the built-in template, which is driven entirely by
// environment variables.
func LoadDefault() (*Config, error) {
	return Parse(defaultTemplate)
}

// LoadOrDefault loads path when set, otherwise the built-in template
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return LoadDefault()
	}
	return Load(path)
}

// Parse decodes YAML config, expands ${VAR} references and applies defaults
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	expandConfigEnvVars(&cfg)
	applyDefaults(&cfg)

	return &cfg, nil
}

// DefaultTemplate returns the built-in config template
func DefaultTemplate() []byte {
	return append([]byte(nil), defaultTemplate...)
}

// FindConfigPath looks for config in common locations
func FindConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	// Check common locations
	paths := []string{
		".github/gh-scout.yaml",
		".github/gh-scout.yml",
		"gh-scout.yaml",
		"gh-scout.yml",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	// Check home directory
	if home, err := os.UserHomeDir(); err == nil {
		homePath := filepath.Join(home, ".config", "gh-scout", "config.yaml")
		if _, err := os.Stat(homePath); err == nil {
			return homePath
		}
	}

	return ""
}

// DefaultWebhookPath is the route GitHub deliveries are posted to
const DefaultWebhookPath = "/webhook"

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.WebhookPath == "" {
		cfg.Server.WebhookPath = DefaultWebhookPath
	}
	if cfg.GitHub.Host == "" {
		cfg.GitHub.Host = "github.com"
	}
	if cfg.GitHub.TimeoutSeconds == 0 {
		cfg.GitHub.TimeoutSeconds = 30
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "openai"
	}
	if cfg.LLM.TimeoutSeconds == 0 {
		cfg.LLM.TimeoutSeconds = 60
	}
	if cfg.Cache.Capacity == 0 {
		cfg.Cache.Capacity = 500
	}
	if cfg.Cache.TTLHours == 0 {
		cfg.Cache.TTLHours = 72
	}
	if cfg.Cache.SweepSchedule == "" {
		cfg.Cache.SweepSchedule = "@every 1h"
	}

	// Profile fetch bounds
	if cfg.Profile.MaxEvents == 0 {
		cfg.Profile.MaxEvents = 30
	}
	if cfg.Profile.MaxRepos == 0 {
		cfg.Profile.MaxRepos = 10
	}
	if cfg.Profile.MaxDiffs == 0 {
		cfg.Profile.MaxDiffs = 3
	}
	if cfg.Profile.MaxDiffChars == 0 {
		cfg.Profile.MaxDiffChars = 4000
	}
	if cfg.Profile.MaxReadmeChars == 0 {
		cfg.Profile.MaxReadmeChars = 2000
	}
}

// AppIDInt parses the GitHub App ID
func (cfg *Config) AppIDInt() (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(cfg.GitHub.AppID), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid github.app_id %q: %w", cfg.GitHub.AppID, err)
	}
	return id, nil
}

// PrivateKeyPEM returns the App private key, preferring the inline value over the file
func (cfg *Config) PrivateKeyPEM() ([]byte, error) {
	if cfg.GitHub.PrivateKey != "" {
		return []byte(cfg.GitHub.PrivateKey), nil
	}
	if cfg.GitHub.PrivateKeyPath == "" {
		return nil, fmt.Errorf("no GitHub App private key configured")
	}

	data, err := os.ReadFile(cfg.GitHub.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}
	return data, nil
}

// GitHubTimeout returns the per-request GitHub timeout
func (cfg *Config) GitHubTimeout() time.Duration {
	return time.Duration(cfg.GitHub.TimeoutSeconds) * time.Second
}

// LLMTimeout returns the per-call classifier timeout
func (cfg *Config) LLMTimeout() time.Duration {
	return time.Duration(cfg.LLM.TimeoutSeconds) * time.Second
}

// CacheTTL returns the fixed profile cache lifetime
func (cfg *Config) CacheTTL() time.Duration {
	return time.Duration(cfg.Cache.TTLHours) * time.Hour
}

// GetRepoConfig returns config for a specific repository
func (cfg *Config) GetRepoConfig(org, repo string) *RepositoryConfig {
	for i := range cfg.Repositories {
		if strings.EqualFold(cfg.Repositories[i].Org, org) && strings.EqualFold(cfg.Repositories[i].Repo, repo) {
			return &cfg.Repositories[i]
		}
	}
	return nil
}

// RepoAllowed reports whether deliveries for org/repo should be processed.
// An empty repositories list allows every repository.
func (cfg *Config) RepoAllowed(org, repo string) bool {
	if len(cfg.Repositories) == 0 {
		return true
	}
	rc := cfg.GetRepoConfig(org, repo)
	return rc != nil && rc.Enabled
}
