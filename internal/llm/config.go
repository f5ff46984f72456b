package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
	// ProviderNone disables the LLM; questions come from the canned bank.
	ProviderNone = "none"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use. One of the Provider*
	// constants.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout is the maximum duration for a single LLM request
	// (including retries). Default: 60s.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string // Default: "claude-haiku"
	BaseURL string // Optional. Used by tests and proxies.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-2.0-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.0-flash-001"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
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
			Model: "gemini-2.0-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.0-flash-001",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// ConfigFromEnv builds a Config from the process environment.
func ConfigFromEnv() Config {
	return ConfigFromLookup(os.Getenv)
}

// ConfigFromLookup builds a Config from HPQUIZ_* variables read through
// getenv, falling back to defaults for unset values. When HPQUIZ_LLM_PROVIDER
// is unset, the provider is discovered from the standard API key variables.
// GEMINI_MODEL is honored as an alias for HPQUIZ_GEMINI_MODEL.
func ConfigFromLookup(getenv func(string) string) Config {
	cfg, found := discover(getenv)
	if !found {
		cfg = DefaultConfig()
		cfg.Provider = ProviderNone
	}

	if p := getenv("HPQUIZ_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}

	setIf(&cfg.Anthropic.APIKey, getenv("HPQUIZ_ANTHROPIC_API_KEY"))
	setIf(&cfg.Anthropic.Model, getenv("HPQUIZ_ANTHROPIC_MODEL"))

	setIf(&cfg.OpenAI.APIKey, getenv("HPQUIZ_OPENAI_API_KEY"))
	setIf(&cfg.OpenAI.Model, getenv("HPQUIZ_OPENAI_MODEL"))
	setIf(&cfg.OpenAI.BaseURL, getenv("HPQUIZ_OPENAI_BASE_URL"))

	setIf(&cfg.Gemini.APIKey, getenv("HPQUIZ_GEMINI_API_KEY"))
	setIf(&cfg.Gemini.Model, getenv("GEMINI_MODEL"))
	setIf(&cfg.Gemini.Model, getenv("HPQUIZ_GEMINI_MODEL"))

	setIf(&cfg.OpenRouter.APIKey, getenv("HPQUIZ_OPENROUTER_API_KEY"))
	setIf(&cfg.OpenRouter.Model, getenv("HPQUIZ_OPENROUTER_MODEL"))

	if t := getenv("HPQUIZ_LLM_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// DiscoverConfig probes standard API key env vars in priority order
// (Gemini → OpenAI → Anthropic → OpenRouter) and returns a Config for the
// first provider whose key is found. Returns (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	return discover(os.Getenv)
}

func discover(getenv func(string) string) (Config, bool) {
	cfg := DefaultConfig()

	if k := getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenRouter
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderOpenRouter:
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case ProviderMock, ProviderNone:
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}

// ActiveModel returns the configured model for the selected provider.
func (c Config) ActiveModel() string {
	switch c.Provider {
	case ProviderAnthropic:
		return resolveModel(c.Anthropic.Model, anthropicModels)
	case ProviderOpenAI:
		return resolveModel(c.OpenAI.Model, openaiModels)
	case ProviderGemini:
		return resolveModel(c.Gemini.Model, geminiModels)
	case ProviderOpenRouter:
		return c.OpenRouter.Model
	case ProviderMock:
		return "mock"
	}
	return ""
}
