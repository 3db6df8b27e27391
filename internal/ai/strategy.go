package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/truevail/internal/llm"
	"github.com/ppiankov/truevail/internal/model"
	"github.com/ppiankov/truevail/internal/validate"
)

// Strategy asks the configured model for a verdict and validates the
// answer against the kind's contract.
type Strategy struct {
	handle *llm.Handle
	config model.LLMConfig
	logger *zap.Logger
}

// NewStrategy creates the AI analysis strategy. Zero-valued generation
// settings fall back to model.DefaultConfig.
func NewStrategy(handle *llm.Handle, config model.LLMConfig, logger *zap.Logger) *Strategy {
	defaults := model.DefaultConfig().LLM
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = defaults.MaxTokens
	}
	if config.Temperature <= 0 {
		config.Temperature = defaults.Temperature
	}
	if config.MaxContentChars <= 0 {
		config.MaxContentChars = defaults.MaxContentChars
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Strategy{
		handle: handle,
		config: config,
		logger: logger,
	}
}

// Name returns the strategy name
func (s *Strategy) Name() string {
	return string(model.SourceAI)
}

// Ask sends one request for in and returns the raw model text. Any
// transport failure or empty answer wraps model.ErrModelUnavailable.
func (s *Strategy) Ask(ctx context.Context, in model.Input) (string, error) {
	if in.Kind == model.KindDeepfake && !in.HasImage() {
		return "", fmt.Errorf("%w: no image to inspect", model.ErrInputInvalid)
	}
	if in.Kind != model.KindDeepfake && strings.TrimSpace(in.Content) == "" {
		return "", fmt.Errorf("%w: empty content", model.ErrInputInvalid)
	}

	provider, err := s.handle.Provider(ctx)
	if err != nil {
		return "", err
	}

	contract := ContractFor(in.Kind)
	req := llm.GenerateRequest{
		System:      contract.System,
		Prompt:      BuildPrompt(contract, in.Content, s.config.MaxContentChars),
		Temperature: s.config.Temperature,
		MaxTokens:   s.config.MaxTokens,
		JSON:        true,
	}
	if in.HasImage() {
		req.Attachment = &llm.Attachment{Data: in.Image, MIMEType: in.MIMEType}
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", model.ErrModelUnavailable, provider.Name(), err)
	}
	if strings.TrimSpace(resp.Text) == "" {
		return "", fmt.Errorf("%w: %s returned no text", model.ErrModelUnavailable, provider.Name())
	}

	s.logger.Debug("model answered",
		zap.String("provider", provider.Name()),
		zap.String("model", resp.Model),
		zap.String("kind", string(in.Kind)),
		zap.Int("tokens", resp.TokensUsed),
		zap.Duration("duration", time.Since(start)))

	return resp.Text, nil
}

// Analyze asks the model and normalizes its answer
func (s *Strategy) Analyze(ctx context.Context, in model.Input) (*model.Result, error) {
	raw, err := s.Ask(ctx, in)
	if err != nil {
		return nil, err
	}
	return validate.Normalize(raw, in.Kind)
}
