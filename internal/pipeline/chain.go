package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ppiankov/truevail/internal/model"
)

// Strategy produces a verdict for a prepared input or a typed failure
type Strategy interface {
	Name() string
	Analyze(ctx context.Context, in model.Input) (*model.Result, error)
}

// Chain tries strategies in order until one produces a verdict
type Chain struct {
	strategies []Strategy
	logger     *zap.Logger
}

// NewChain builds a chain; nil strategies are skipped
func NewChain(logger *zap.Logger, strategies ...Strategy) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Chain{logger: logger}
	for _, s := range strategies {
		if s != nil {
			c.strategies = append(c.strategies, s)
		}
	}
	return c
}

// Run returns the first verdict that passes the kind's result invariants.
// When every strategy fails the static fallback result is returned.
func (c *Chain) Run(ctx context.Context, in model.Input) model.Result {
	for _, s := range c.strategies {
		result, err := c.analyze(ctx, s, in)
		if err == nil && result != nil {
			err = result.Validate(in.Kind)
			if err != nil {
				err = fmt.Errorf("%w: %w", model.ErrInvalidModelOutput, err)
			}
		} else if err == nil {
			err = fmt.Errorf("%w: %s returned no result", model.ErrInvalidModelOutput, s.Name())
		}

		if err == nil {
			return *result
		}

		c.logger.Warn("strategy failed, trying next",
			zap.String("strategy", s.Name()),
			zap.String("kind", string(in.Kind)),
			zap.String("failure", model.Classify(err)),
			zap.Error(err))
	}

	return model.FallbackResult(in.Kind, "")
}

// analyze runs one strategy; a panic becomes a model-unavailable error so
// the next strategy still gets its turn.
func (c *Chain) analyze(ctx context.Context, s Strategy, in model.Input) (result *model.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %s panicked: %v", model.ErrModelUnavailable, s.Name(), r)
		}
	}()
	return s.Analyze(ctx, in)
}
