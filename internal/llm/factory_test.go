package llm

import (
	"testing"
	"time"

	"github.com/ppiankov/truevail/internal/model"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantName string
		wantErr  bool
	}{
		{"gemini", Config{Provider: "gemini", APIKey: "k"}, "gemini", false},
		{"openai", Config{Provider: "OpenAI", APIKey: "k"}, "openai", false},
		{"claude alias", Config{Provider: "claude", APIKey: "k"}, "anthropic", false},
		{"ollama", Config{Provider: "ollama"}, "ollama", false},
		{"disabled", Config{Provider: ""}, "", false},
		{"unknown", Config{Provider: "bard"}, "", true},
		{"missing key", Config{Provider: "openai"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.config)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.wantName == "" {
				if provider != nil {
					t.Errorf("Expected nil provider, got %s", provider.Name())
				}
				return
			}
			if provider.Name() != tt.wantName {
				t.Errorf("Expected provider %s, got %s", tt.wantName, provider.Name())
			}
		})
	}
}

func TestConfigFromModel(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-key")

	config := ConfigFromModel(
		model.LLMConfig{Provider: "anthropic", Timeout: 3 * time.Second, MaxTokens: 512, Temperature: 0.2},
		model.HTTPConfig{HTTPSProxy: "http://proxy:3128"},
	)

	if config.APIKey != "env-key" {
		t.Errorf("Expected API key from environment, got %q", config.APIKey)
	}
	if config.Timeout != 3*time.Second {
		t.Errorf("Expected timeout 3s, got %v", config.Timeout)
	}
	if config.HTTPSProxy != "http://proxy:3128" {
		t.Errorf("Expected proxy to carry over, got %q", config.HTTPSProxy)
	}
}

func TestConfigFromModel_ExplicitKeyWins(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")

	config := ConfigFromModel(model.LLMConfig{Provider: "gemini", APIKey: "file-key"}, model.HTTPConfig{})
	if config.APIKey != "file-key" {
		t.Errorf("Expected configured key to win, got %q", config.APIKey)
	}
}
