package llm

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ppiankov/truevail/internal/model"
)

// errNoProvider reports an empty provider setting
var errNoProvider = errors.New("no LLM provider configured")

// Handle lazily constructs the configured provider at most once. The first
// successful construction wins and is read-only afterwards; failed
// constructions are not cached so the next call tries again.
type Handle struct {
	config  Config
	build   func(Config) (Provider, error)
	logger  *zap.Logger
	group   singleflight.Group
	current atomic.Pointer[Provider]
}

// HandleOption configures a Handle
type HandleOption func(*Handle)

// WithBuilder replaces the provider factory
func WithBuilder(build func(Config) (Provider, error)) HandleOption {
	return func(h *Handle) {
		h.build = build
	}
}

// WithHandleLogger sets the logger for construction events
func WithHandleLogger(logger *zap.Logger) HandleOption {
	return func(h *Handle) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandle returns a handle that builds its provider on first use
func NewHandle(config Config, opts ...HandleOption) *Handle {
	h := &Handle{
		config: config,
		build:  NewProvider,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// StaticHandle wraps an already constructed provider
func StaticHandle(p Provider) *Handle {
	h := NewHandle(Config{})
	h.current.Store(&p)
	return h
}

// Provider returns the shared provider, constructing it if needed.
// Construction failures wrap model.ErrModelUnavailable.
func (h *Handle) Provider(ctx context.Context) (Provider, error) {
	if p := h.current.Load(); p != nil {
		return *p, nil
	}

	ch := h.group.DoChan("provider", func() (any, error) {
		if p := h.current.Load(); p != nil {
			return *p, nil
		}

		p, err := h.build(h.config)
		if err != nil {
			h.logger.Warn("LLM provider construction failed",
				zap.String("provider", h.config.Provider),
				zap.Error(err))
			return nil, err
		}
		if p == nil {
			return nil, errNoProvider
		}

		h.current.Store(&p)
		h.logger.Info("LLM provider ready", zap.String("provider", p.Name()))
		return p, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", model.ErrModelUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrModelUnavailable, res.Err)
		}
		return res.Val.(Provider), nil
	}
}

// Ready reports whether a provider has been constructed
func (h *Handle) Ready() bool {
	return h.current.Load() != nil
}
