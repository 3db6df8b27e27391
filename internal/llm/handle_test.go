package llm

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ppiankov/truevail/internal/model"
)

type stubProvider struct {
	name string
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	return &GenerateResponse{Text: "{}", Model: s.name}, nil
}

func (s *stubProvider) IsAvailable(ctx context.Context) bool { return true }

func TestHandle_ConstructsOnceUnderConcurrency(t *testing.T) {
	var builds atomic.Int32
	release := make(chan struct{})

	h := NewHandle(Config{Provider: "stub"},
		WithHandleLogger(zaptest.NewLogger(t)),
		WithBuilder(func(Config) (Provider, error) {
			builds.Add(1)
			<-release
			return &stubProvider{name: "stub"}, nil
		}))

	const callers = 16
	var wg sync.WaitGroup
	providers := make([]Provider, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			providers[i], errs[i] = h.Provider(context.Background())
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, providers[0], providers[i])
	}

	// Later calls reuse the stored provider
	p, err := h.Provider(context.Background())
	require.NoError(t, err)
	assert.Same(t, providers[0], p)
	assert.Equal(t, int32(1), builds.Load())
	assert.True(t, h.Ready())
}

func TestHandle_FailureIsNotCached(t *testing.T) {
	var builds atomic.Int32
	h := NewHandle(Config{}, WithBuilder(func(Config) (Provider, error) {
		if builds.Add(1) == 1 {
			return nil, errors.New("dial tcp: connection refused")
		}
		return &stubProvider{name: "stub"}, nil
	}))

	_, err := h.Provider(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrModelUnavailable)
	assert.False(t, h.Ready())

	p, err := h.Provider(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stub", p.Name())
	assert.Equal(t, int32(2), builds.Load())
}

func TestHandle_DisabledProvider(t *testing.T) {
	h := NewHandle(Config{Provider: ""})

	_, err := h.Provider(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrModelUnavailable)
}

func TestHandle_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	h := NewHandle(Config{}, WithBuilder(func(Config) (Provider, error) {
		<-release
		return &stubProvider{name: "slow"}, nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Provider(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrModelUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStaticHandle(t *testing.T) {
	stub := &stubProvider{name: "fixed"}
	h := StaticHandle(stub)

	p, err := h.Provider(context.Background())
	require.NoError(t, err)
	assert.Same(t, Provider(stub), p)
}
