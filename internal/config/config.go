package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Rewrite: RewriteConfig{
			MissPolicy: MissDrop,
		},
		OpenAI: AzureOpenAIConfig{
			APIVersion: "2024-06-01",
		},
		TimeoutSeconds: 30,
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (ATLBRIDGE_*) and the conventional
// Atlassian / Azure OpenAI credential variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables. The first underscore after the prefix
	// separates the section: ATLBRIDGE_JIRA_BASE_URL -> jira.base_url.
	if err := k.Load(env.Provider("ATLBRIDGE_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "ATLBRIDGE_")), "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Credentials fall back to the conventional environment variable names
	// used by the upstream services.
	if cfg.Jira.Token == "" {
		cfg.Jira.Token = os.Getenv("JIRA_PERSONAL_ACCESS_TOKEN")
	}
	if cfg.Confluence.Token == "" {
		cfg.Confluence.Token = os.Getenv("CONFLUENCE_PERSONAL_ACCESS_TOKEN")
	}
	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = os.Getenv("AZURE_OPENAI_API_KEY")
	}
	if cfg.OpenAI.Endpoint == "" {
		cfg.OpenAI.Endpoint = os.Getenv("AZURE_OPENAI_ENDPOINT")
	}
	if cfg.OpenAI.Deployment == "" {
		cfg.OpenAI.Deployment = os.Getenv("AZURE_OPENAI_CHAT_DEPLOYMENT_NAME")
	}
	if v := os.Getenv("AZURE_OPENAI_API_VERSION"); v != "" {
		cfg.OpenAI.APIVersion = v
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path. Tokens and
// API keys are excluded by their yaml tags.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validMissPolicies is the set of recognized miss policy values.
var validMissPolicies = map[MissPolicy]bool{
	MissDrop: true,
	MissKeep: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Jira.BaseURL == "" {
		return fmt.Errorf("jira.base_url is required")
	}
	if c.Confluence.BaseURL == "" {
		return fmt.Errorf("confluence.base_url is required")
	}
	if c.Jira.Token == "" {
		return fmt.Errorf("jira token is required: set ATLBRIDGE_JIRA_TOKEN or JIRA_PERSONAL_ACCESS_TOKEN")
	}
	if c.Confluence.Token == "" {
		return fmt.Errorf("confluence token is required: set ATLBRIDGE_CONFLUENCE_TOKEN or CONFLUENCE_PERSONAL_ACCESS_TOKEN")
	}
	if !validMissPolicies[c.Rewrite.MissPolicy] {
		return fmt.Errorf("invalid rewrite.miss_policy %q: must be drop or keep", c.Rewrite.MissPolicy)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	return nil
}

// RequestTimeout returns the per-request timeout for upstream calls.
func (c *Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds == 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
