package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "gemini", "openai", "anthropic", "openrouter", "mock"
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout is the maximum duration for a single quiz generation
	// (including retries). Default: 90s.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string // Default: "claude-haiku"
	BaseURL string // Optional. Override for proxies and tests.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for OpenAI-compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.5-flash"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults. Gemini is the
// default provider.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderGemini,
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.5-flash",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 90 * time.Second,
	}
}

// keyEnv lists the standard API key variables per provider, in lookup order.
var keyEnv = []struct {
	provider string
	vars     []string
}{
	{ProviderGemini, []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}},
	{ProviderOpenAI, []string{"OPENAI_API_KEY"}},
	{ProviderAnthropic, []string{"ANTHROPIC_API_KEY"}},
	{ProviderOpenRouter, []string{"OPENROUTER_API_KEY"}},
}

// KeyEnvVars returns the standard environment variables holding an API key
// for provider.
func KeyEnvVars(provider string) []string {
	for _, k := range keyEnv {
		if k.provider == provider {
			return k.vars
		}
	}
	return nil
}

// DiscoverConfig probes standard API key env vars in priority order
// (Gemini → OpenAI → Anthropic → OpenRouter) and returns a Config for the
// first provider whose key is found. Returns (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	for _, k := range keyEnv {
		for _, v := range k.vars {
			key := os.Getenv(v)
			if key == "" {
				continue
			}
			cfg := DefaultConfig()
			cfg.Provider = k.provider
			cfg.SetAPIKey(key)
			return cfg, true
		}
	}
	return Config{}, false
}

// APIKey returns the key of the selected provider.
func (c Config) APIKey() string {
	switch c.Provider {
	case ProviderGemini:
		return c.Gemini.APIKey
	case ProviderOpenAI:
		return c.OpenAI.APIKey
	case ProviderAnthropic:
		return c.Anthropic.APIKey
	case ProviderOpenRouter:
		return c.OpenRouter.APIKey
	}
	return ""
}

// SetAPIKey sets the key of the selected provider.
func (c *Config) SetAPIKey(key string) {
	switch c.Provider {
	case ProviderGemini:
		c.Gemini.APIKey = key
	case ProviderOpenAI:
		c.OpenAI.APIKey = key
	case ProviderAnthropic:
		c.Anthropic.APIKey = key
	case ProviderOpenRouter:
		c.OpenRouter.APIKey = key
	}
}

// SetModel overrides the model of the selected provider.
func (c *Config) SetModel(model string) {
	switch c.Provider {
	case ProviderGemini:
		c.Gemini.Model = model
	case ProviderOpenAI:
		c.OpenAI.Model = model
	case ProviderAnthropic:
		c.Anthropic.Model = model
	case ProviderOpenRouter:
		c.OpenRouter.Model = model
	}
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter:
		if c.APIKey() == "" {
			return fmt.Errorf("llm.api_key (or %s) is required for the %s provider",
				strings.Join(KeyEnvVars(c.Provider), " / "), c.Provider)
		}
	case ProviderMock:
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
