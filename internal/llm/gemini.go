package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/ppiankov/truevail/internal/util"
)

// DefaultGeminiModel is used when no model is configured
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider implements the Provider interface for Google Gemini models
type GeminiProvider struct {
	client *genai.Client
	config Config
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(config Config) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPClient: &http.Client{
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
			},
		},
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimSuffix(config.BaseURL, "/") + "/"}
	}

	// Client construction does no network I/O
	client, err := genai.NewClient(context.Background(), clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		config: config,
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// IsAvailable checks that the configured model can be resolved
func (p *GeminiProvider) IsAvailable(ctx context.Context) bool {
	model, _, _ := p.config.resolve(GenerateRequest{}, DefaultGeminiModel)
	_, err := p.client.Models.Get(ctx, model, nil)
	return err == nil
}

// Generate runs one GenerateContent call with an optional inline image
func (p *GeminiProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	model, maxTokens, temperature := p.config.resolve(req, DefaultGeminiModel)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, p.config.timeout(8*time.Second))
	defer cancel()

	var parts []*genai.Part
	if req.Attachment != nil && len(req.Attachment.Data) > 0 {
		parts = append(parts, genai.NewPartFromBytes(req.Attachment.Data, req.Attachment.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))

	genConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(temperature)),
		MaxOutputTokens: int32(maxTokens),
	}
	if req.System != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.JSON {
		genConfig.ResponseMIMEType = "application/json"
	}

	resp, err := p.client.Models.GenerateContent(ctxWithTimeout, model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		genConfig,
	)
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, fmt.Errorf("no text in Gemini response")
	}

	tokens := 0
	if resp.UsageMetadata != nil {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	return &GenerateResponse{
		Text:       text,
		Model:      model,
		TokensUsed: tokens,
	}, nil
}
