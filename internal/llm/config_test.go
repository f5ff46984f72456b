package llm

import (
	"testing"
	"time"
)

func envLookup(env map[string]string) func(string) string {
	return func(k string) string { return env[k] }
}

func TestConfigFromLookup(t *testing.T) {
	tests := []struct {
		name         string
		env          map[string]string
		wantProvider string
		wantModel    string
	}{
		{
			name:         "no keys disables the LLM",
			env:          map[string]string{},
			wantProvider: ProviderNone,
		},
		{
			name:         "gemini discovered first",
			env:          map[string]string{"GEMINI_API_KEY": "g", "OPENAI_API_KEY": "o"},
			wantProvider: ProviderGemini,
			wantModel:    "gemini-2.0-flash",
		},
		{
			name:         "GEMINI_MODEL alias",
			env:          map[string]string{"GEMINI_API_KEY": "g", "GEMINI_MODEL": "gemini-2.5-flash"},
			wantProvider: ProviderGemini,
			wantModel:    "gemini-2.5-flash",
		},
		{
			name:         "prefixed model wins over alias",
			env:          map[string]string{"GEMINI_API_KEY": "g", "GEMINI_MODEL": "a", "HPQUIZ_GEMINI_MODEL": "b"},
			wantProvider: ProviderGemini,
			wantModel:    "b",
		},
		{
			name:         "explicit provider overrides discovery",
			env:          map[string]string{"GEMINI_API_KEY": "g", "HPQUIZ_LLM_PROVIDER": "anthropic", "HPQUIZ_ANTHROPIC_API_KEY": "a"},
			wantProvider: ProviderAnthropic,
			wantModel:    "claude-haiku-4-5-20251001",
		},
		{
			name:         "openrouter",
			env:          map[string]string{"OPENROUTER_API_KEY": "r"},
			wantProvider: ProviderOpenRouter,
			wantModel:    "google/gemini-2.0-flash-001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ConfigFromLookup(envLookup(tt.env))
			if cfg.Provider != tt.wantProvider {
				t.Errorf("provider = %q, want %q", cfg.Provider, tt.wantProvider)
			}
			if got := cfg.ActiveModel(); got != tt.wantModel {
				t.Errorf("model = %q, want %q", got, tt.wantModel)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("validate: %v", err)
			}
		})
	}
}

func TestConfigFromLookup_Timeout(t *testing.T) {
	cfg := ConfigFromLookup(envLookup(map[string]string{"HPQUIZ_LLM_TIMEOUT": "15s"}))
	if cfg.Timeout != 15*time.Second {
		t.Errorf("timeout = %v, want 15s", cfg.Timeout)
	}

	cfg = ConfigFromLookup(envLookup(map[string]string{"HPQUIZ_LLM_TIMEOUT": "soon"}))
	if cfg.Timeout != DefaultConfig().Timeout {
		t.Errorf("invalid timeout should keep default, got %v", cfg.Timeout)
	}
}

func TestConfig_ValidateGeminiAndOpenRouter(t *testing.T) {
	for _, p := range []string{ProviderGemini, ProviderOpenRouter} {
		if err := (Config{Provider: p}).Validate(); err == nil {
			t.Errorf("%s without key: expected error", p)
		}
	}
	if err := (Config{Provider: ProviderNone}).Validate(); err != nil {
		t.Errorf("none: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", Config{Provider: ProviderAnthropic}, true},
		{"anthropic with key", Config{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "sk-test"}}, false},
		{"openai without key", Config{Provider: ProviderOpenAI}, true},
		{"openai with key", Config{Provider: ProviderOpenAI, OpenAI: OpenAIConfig{APIKey: "sk-test"}}, false},
		{"mock needs no key", Config{Provider: ProviderMock}, false},
		{"unknown provider", Config{Provider: "owlpost"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
