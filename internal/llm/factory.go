package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/truevail/internal/model"
)

// NewProvider creates a new LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "gemini", "google":
		return NewGeminiProvider(config)

	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		// No provider configured - return nil (LLM disabled)
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: gemini, openai, anthropic, ollama)", config.Provider)
	}
}

// ConfigFromModel converts the model configuration sections to llm.Config
func ConfigFromModel(llmConfig model.LLMConfig, httpConfig model.HTTPConfig) Config {
	config := Config{
		Provider:    llmConfig.Provider,
		Model:       llmConfig.Model,
		APIKey:      llmConfig.APIKey,
		BaseURL:     llmConfig.BaseURL,
		Timeout:     llmConfig.Timeout,
		MaxTokens:   llmConfig.MaxTokens,
		Temperature: llmConfig.Temperature,
		HTTPProxy:   httpConfig.HTTPProxy,
		HTTPSProxy:  httpConfig.HTTPSProxy,
		NoProxy:     httpConfig.NoProxy,
	}
	if config.APIKey == "" {
		config.APIKey = APIKeyFromEnv(config.Provider)
	}
	if config.BaseURL == "" && strings.EqualFold(config.Provider, "ollama") {
		config.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}
	return config
}

// APIKeyFromEnv returns the conventional environment credential for provider
func APIKeyFromEnv(provider string) string {
	switch strings.ToLower(provider) {
	case "gemini", "google":
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			return key
		}
		return os.Getenv("GOOGLE_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic", "claude":
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return ""
	}
}
