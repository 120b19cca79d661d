package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR", "test-value")

	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "expands env var",
			input:  "${TEST_VAR}",
			expect: "test-value",
		},
		{
			name:   "keeps unset var",
			input:  "${UNSET_VAR}",
			expect: "${UNSET_VAR}",
		},
		{
			name:   "expands in string",
			input:  "https://${TEST_VAR}.example.com",
			expect: "https://test-value.example.com",
		},
		{
			name:   "no vars",
			input:  "plain string",
			expect: "plain string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandEnvVars(tt.input)
			if result != tt.expect {
				t.Errorf("expandEnvVars(%q) = %q, want %q", tt.input, result, tt.expect)
			}
		})
	}
}

func TestExpandSecret(t *testing.T) {
	t.Setenv("TEST_SECRET", "s3cret")

	if got := expandSecret("${TEST_SECRET}"); got != "s3cret" {
		t.Errorf("expandSecret() = %q, want s3cret", got)
	}
	if got := expandSecret("${UNSET_SECRET}"); got != "" {
		t.Errorf("expandSecret() = %q, want empty for unset var", got)
	}
	if got := expandSecret("literal"); got != "literal" {
		t.Errorf("expandSecret() = %q, want literal", got)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_WEBHOOK_SECRET", "hook-secret")

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")

	content := `
server:
  addr: ":9000"
  webhook_secret: "${TEST_WEBHOOK_SECRET}"
  async: true

github:
  app_id: "12345"
  private_key_path: "/keys/app.pem"

llm:
  provider: "gemini"
  model: "gemini-2.0-flash"
  api_key: "test-key"
  intent_filter: true

repositories:
  - org: "testorg"
    repo: "testrepo"
    enabled: true
`

	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %v, want :9000", cfg.Server.Addr)
	}
	if cfg.Server.WebhookSecret != "hook-secret" {
		t.Errorf("Server.WebhookSecret = %v, want hook-secret", cfg.Server.WebhookSecret)
	}
	if !cfg.Server.Async {
		t.Errorf("Server.Async = false, want true")
	}
	if cfg.Server.WebhookPath != "/webhook" {
		t.Errorf("Server.WebhookPath = %v, want default /webhook", cfg.Server.WebhookPath)
	}
	if cfg.LLM.Provider != "gemini" {
		t.Errorf("LLM.Provider = %v, want gemini", cfg.LLM.Provider)
	}
	if !cfg.LLM.IntentFilter {
		t.Errorf("LLM.IntentFilter = false, want true")
	}
	if len(cfg.Repositories) != 1 {
		t.Errorf("len(Repositories) = %d, want 1", len(cfg.Repositories))
	}

	id, err := cfg.AppIDInt()
	if err != nil || id != 12345 {
		t.Errorf("AppIDInt() = %d, %v, want 12345", id, err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

func TestLoadDefault(t *testing.T) {
	t.Setenv("GITHUB_APP_ID", "42")
	t.Setenv("GITHUB_PRIVATE_KEY_PATH", "/keys/app.pem")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GITHUB_WEBHOOK_SECRET", "")
	t.Setenv("GITHUB_PRIVATE_KEY", "")

	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}

	if cfg.GitHub.AppID != "42" {
		t.Errorf("GitHub.AppID = %q, want 42", cfg.GitHub.AppID)
	}
	if cfg.LLM.APIKey != "sk-test" {
		t.Errorf("LLM.APIKey = %q, want sk-test", cfg.LLM.APIKey)
	}
	if cfg.Server.WebhookSecret != "" {
		t.Errorf("Server.WebhookSecret = %q, want empty when unset", cfg.Server.WebhookSecret)
	}
	if cfg.GitHub.PrivateKey != "" {
		t.Errorf("GitHub.PrivateKey = %q, want empty when unset", cfg.GitHub.PrivateKey)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("LLM.Model = %q, want gpt-4o-mini", cfg.LLM.Model)
	}

	if errs := Validate(cfg); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no errors", errs)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	if cfg.Cache.Capacity != 500 {
		t.Errorf("Cache.Capacity = %v, want 500", cfg.Cache.Capacity)
	}
	if cfg.CacheTTL() != 72*time.Hour {
		t.Errorf("CacheTTL() = %v, want 72h", cfg.CacheTTL())
	}
	if cfg.Cache.SweepSchedule != "@every 1h" {
		t.Errorf("Cache.SweepSchedule = %v, want @every 1h", cfg.Cache.SweepSchedule)
	}
	if cfg.Profile.MaxEvents != 30 {
		t.Errorf("Profile.MaxEvents = %v, want 30", cfg.Profile.MaxEvents)
	}
	if cfg.Profile.MaxDiffs != 3 {
		t.Errorf("Profile.MaxDiffs = %v, want 3", cfg.Profile.MaxDiffs)
	}
	if cfg.Profile.MaxDiffChars != 4000 {
		t.Errorf("Profile.MaxDiffChars = %v, want 4000", cfg.Profile.MaxDiffChars)
	}
	if cfg.LLM.Provider != "openai" {
		t.Errorf("LLM.Provider = %v, want openai", cfg.LLM.Provider)
	}
	if cfg.GitHubTimeout() != 30*time.Second {
		t.Errorf("GitHubTimeout() = %v, want 30s", cfg.GitHubTimeout())
	}
}

func TestRepoAllowed(t *testing.T) {
	open := &Config{}
	if !open.RepoAllowed("any", "repo") {
		t.Error("empty allow-list should allow every repository")
	}

	cfg := &Config{Repositories: []RepositoryConfig{
		{Org: "octo", Repo: "hello", Enabled: true},
		{Org: "octo", Repo: "paused", Enabled: false},
	}}

	tests := []struct {
		org, repo string
		want      bool
	}{
		{"octo", "hello", true},
		{"Octo", "Hello", true},
		{"octo", "paused", false},
		{"octo", "other", false},
	}
	for _, tt := range tests {
		if got := cfg.RepoAllowed(tt.org, tt.repo); got != tt.want {
			t.Errorf("RepoAllowed(%q, %q) = %v, want %v", tt.org, tt.repo, got, tt.want)
		}
	}
}

func TestPrivateKeyPEM(t *testing.T) {
	cfg := &Config{GitHub: GitHubConfig{PrivateKey: "inline"}}
	got, err := cfg.PrivateKeyPEM()
	if err != nil || string(got) != "inline" {
		t.Errorf("PrivateKeyPEM() = %q, %v, want inline", got, err)
	}

	path := filepath.Join(t.TempDir(), "key.pem")
	if err := os.WriteFile(path, []byte("from-file"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg = &Config{GitHub: GitHubConfig{PrivateKeyPath: path}}
	got, err = cfg.PrivateKeyPEM()
	if err != nil || string(got) != "from-file" {
		t.Errorf("PrivateKeyPEM() = %q, %v, want from-file", got, err)
	}

	cfg = &Config{}
	if _, err := cfg.PrivateKeyPEM(); err == nil {
		t.Error("PrivateKeyPEM() should fail with no key configured")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{
			GitHub: GitHubConfig{AppID: "1", PrivateKeyPath: "/k.pem"},
			LLM:    LLMConfig{Provider: "openai", APIKey: "k"},
		}
		applyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing webhook secret is allowed", func(c *Config) { c.Server.WebhookSecret = "" }, ""},
		{"missing app id", func(c *Config) { c.GitHub.AppID = "" }, "github.app_id"},
		{"non-numeric app id", func(c *Config) { c.GitHub.AppID = "abc" }, "github.app_id"},
		{"missing key", func(c *Config) { c.GitHub.PrivateKeyPath = "" }, "github.private_key_path"},
		{"bad provider", func(c *Config) { c.LLM.Provider = "claude" }, "llm.provider"},
		{"missing api key", func(c *Config) { c.LLM.APIKey = "" }, "llm.api_key"},
		{"negative capacity", func(c *Config) { c.Cache.Capacity = -1 }, "cache.capacity"},
		{"repo without org", func(c *Config) { c.Repositories = []RepositoryConfig{{Repo: "r"}} }, "repositories[0].org"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			errs := Validate(cfg)

			if tt.field == "" {
				if len(errs) != 0 {
					t.Errorf("Validate() = %v, want none", errs)
				}
				return
			}

			found := false
			for _, err := range errs {
				var ve ValidationError
				if errors.As(err, &ve) && ve.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() = %v, want error on %s", errs, tt.field)
			}
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	t.Setenv("GH_SCOUT_SERVER_ADDR", ":7000")
	t.Setenv("GH_SCOUT_LOGGING_DEBUG", "true")

	cfg := &Config{}
	applyDefaults(cfg)
	ApplyOverrides(cfg, NewViper())

	if cfg.Server.Addr != ":7000" {
		t.Errorf("Server.Addr = %v, want :7000", cfg.Server.Addr)
	}
	if !cfg.Logging.Debug {
		t.Errorf("Logging.Debug = false, want true")
	}
	if cfg.LLM.Provider != "openai" {
		t.Errorf("LLM.Provider = %v, unset override should keep default", cfg.LLM.Provider)
	}
}
