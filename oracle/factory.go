package oracle

import (
	"fmt"
	"os"
	"strings"
)

// Provider represents the vision model provider
type Provider string

const (
	ProviderClaude Provider = "claude"
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// Config selects and authenticates a provider. BaseURL is only needed for
// proxies and tests.
type Config struct {
	Provider Provider `yaml:"provider"`
	Model    string   `yaml:"model"`
	APIKey   string   `yaml:"api_key"`
	BaseURL  string   `yaml:"base_url"`
}

// apiKeyEnv maps each provider to the environment variable holding its key.
var apiKeyEnv = map[Provider]string{
	ProviderClaude: "ANTHROPIC_API_KEY",
	ProviderOpenAI: "OPENAI_API_KEY",
	ProviderGemini: "GEMINI_API_KEY",
}

// AvailableProviders returns the supported providers
func AvailableProviders() []Provider {
	return []Provider{ProviderClaude, ProviderOpenAI, ProviderGemini}
}

// APIKeyEnv returns the environment variable read for a provider's key.
func APIKeyEnv(p Provider) string {
	return apiKeyEnv[p]
}

// New creates an oracle client for the configured provider.
func New(cfg Config) (Oracle, error) {
	provider := Provider(strings.ToLower(string(cfg.Provider)))
	if provider == "" {
		provider = ProviderClaude
	}
	if _, ok := apiKeyEnv[provider]; !ok {
		return nil, fmt.Errorf("unsupported oracle provider: %s (supported: claude, openai, gemini)", cfg.Provider)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required (set %s)", provider, apiKeyEnv[provider])
	}

	switch provider {
	case ProviderOpenAI:
		o := NewOpenAI(cfg.APIKey)
		if cfg.Model != "" {
			o.model = cfg.Model
		}
		if cfg.BaseURL != "" {
			o.baseURL = strings.TrimRight(cfg.BaseURL, "/")
		}
		return o, nil
	case ProviderGemini:
		g := NewGemini(cfg.APIKey)
		if cfg.Model != "" {
			g.model = cfg.Model
		}
		if cfg.BaseURL != "" {
			g.baseURL = strings.TrimRight(cfg.BaseURL, "/")
		}
		return g, nil
	default:
		c := NewClaude(cfg.APIKey)
		if cfg.Model != "" {
			c.model = cfg.Model
		}
		if cfg.BaseURL != "" {
			c.baseURL = strings.TrimRight(cfg.BaseURL, "/")
		}
		return c, nil
	}
}

// FromEnv fills an empty API key from the provider's environment variable
// and creates the client.
func FromEnv(cfg Config) (Oracle, error) {
	if cfg.Provider == "" {
		cfg.Provider = Provider(strings.ToLower(os.Getenv("ORACLE_PROVIDER")))
	}
	if cfg.Provider == "" {
		cfg.Provider = ProviderClaude
	}
	if cfg.APIKey == "" {
		if env, ok := apiKeyEnv[Provider(strings.ToLower(string(cfg.Provider)))]; ok {
			cfg.APIKey = os.Getenv(env)
		}
	}
	return New(cfg)
}
