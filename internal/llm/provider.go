package llm

import (
	"context"
	"time"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate runs one blocking completion and returns the raw model text
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Attachment is an inline binary part sent alongside the prompt
type Attachment struct {
	Data     []byte
	MIMEType string
}

// GenerateRequest contains the input for one model call
type GenerateRequest struct {
	// System is the system instruction
	System string

	// Prompt is the user turn
	Prompt string

	// Attachment is an optional inline image
	Attachment *Attachment

	// Model overrides the configured model (provider-specific)
	Model string

	// Temperature for sampling; zero means provider default
	Temperature float64

	// MaxTokens limits the response length
	MaxTokens int

	// JSON asks the provider for a JSON object response where supported
	JSON bool
}

// GenerateResponse contains the model's output
type GenerateResponse struct {
	// Text is the raw generated text
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "gemini", "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for Gemini/OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout time.Duration

	// MaxTokens for response generation
	MaxTokens int

	// Temperature for response generation
	Temperature float64

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "gemini",
		Timeout:     8 * time.Second,
		MaxTokens:   1024,
		Temperature: 0.1,
	}
}

// resolve fills per-request settings from the provider config
func (c Config) resolve(req GenerateRequest, defaultModel string) (model string, maxTokens int, temperature float64) {
	model = req.Model
	if model == "" {
		model = c.Model
	}
	if model == "" {
		model = defaultModel
	}

	maxTokens = req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 1024
	}

	temperature = req.Temperature
	if temperature == 0 {
		temperature = c.Temperature
	}
	return model, maxTokens, temperature
}

// timeout returns the configured request timeout or fallback
func (c Config) timeout(fallback time.Duration) time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return fallback
}
