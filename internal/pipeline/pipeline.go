package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/truevail/internal/ai"
	"github.com/ppiankov/truevail/internal/cache"
	"github.com/ppiankov/truevail/internal/llm"
	"github.com/ppiankov/truevail/internal/model"
	"github.com/ppiankov/truevail/internal/reputation"
	"github.com/ppiankov/truevail/internal/score"
	"github.com/ppiankov/truevail/internal/util"
)

// defaultImageMIME is assumed when an upload's type cannot be determined
const defaultImageMIME = "image/jpeg"

// TextFetcher returns the readable text of a web page
type TextFetcher interface {
	FetchText(ctx context.Context, rawURL string) (string, error)
}

// Pipeline orchestrates one analysis: input preparation, the AI strategy,
// and the heuristic fallback.
type Pipeline struct {
	config   *model.Config
	handle   *llm.Handle
	fetcher  TextFetcher
	verdicts *cache.Verdicts
	logger   *zap.Logger

	full  *Chain // AI first, then heuristics
	local *Chain // heuristics only
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the pipeline logger
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithHandle replaces the model client handle built from the config
func WithHandle(h *llm.Handle) Option {
	return func(p *Pipeline) {
		p.handle = h
	}
}

// WithFetcher replaces the content fetcher built from the config
func WithFetcher(f TextFetcher) Option {
	return func(p *Pipeline) {
		p.fetcher = f
	}
}

// WithVerdictCache replaces the AI verdict cache; nil disables caching
func WithVerdictCache(v *cache.Verdicts) Option {
	return func(p *Pipeline) {
		p.verdicts = v
	}
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, opts ...Option) *Pipeline {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	p := &Pipeline{
		config: cfg,
		logger: zap.NewNop(),
	}
	if cfg.Cache.Enabled {
		store := cache.New(cfg.Cache.TTL, cfg.Cache.CleanupInterval, cfg.Cache.Dir)
		p.verdicts = cache.NewVerdicts(store, cfg.Cache.TTL)
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.handle == nil {
		p.handle = llm.NewHandle(llm.ConfigFromModel(cfg.LLM, cfg.HTTP),
			llm.WithHandleLogger(p.logger.Named("llm")))
	}
	if p.fetcher == nil {
		fetchOpts := []FetcherOption{
			WithFetcherLogger(p.logger.Named("fetch")),
			WithLimiter(util.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.Burst)),
		}
		if cfg.Cache.Enabled {
			fetchOpts = append(fetchOpts, WithPageCache(cfg.Cache.FetchTTL, cfg.Cache.CleanupInterval))
		}
		p.fetcher = NewFetcher(cfg.HTTP, fetchOpts...)
	}

	heuristic := NewHeuristicStrategy(score.NewScorer(), reputation.NewChecker(&cfg.Reputation))
	strategy := ai.NewStrategy(p.handle, cfg.LLM, p.logger.Named("ai"))

	var primary Strategy = strategy
	if p.verdicts != nil {
		primary = &cachedStrategy{next: strategy, verdicts: p.verdicts, logger: p.logger}
	}

	p.full = NewChain(p.logger, primary, heuristic)
	p.local = NewChain(p.logger, heuristic)
	return p
}

// Ready reports whether the model client has been constructed
func (p *Pipeline) Ready() bool {
	return p.handle.Ready()
}

// Analyze returns a verdict for req. It always returns a well-formed
// result; a panic anywhere below is turned into the static fallback.
func (p *Pipeline) Analyze(ctx context.Context, req model.Request) (result model.Result) {
	kind := model.ParseKind(string(req.Kind))

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("analysis panicked",
				zap.String("kind", string(kind)),
				zap.Any("panic", r))
			result = model.FallbackResult(kind, "")
		}
	}()

	in := p.prepare(ctx, kind, req)

	if kind == model.KindDeepfake && !in.HasImage() {
		return p.local.Run(ctx, in)
	}
	if kind != model.KindDeepfake && strings.TrimSpace(in.Content) == "" {
		return p.local.Run(ctx, in)
	}
	return p.full.Run(ctx, in)
}

// prepare resolves the request into an analysis input: images are
// decoded for deepfake, and URLs are replaced by their page text.
func (p *Pipeline) prepare(ctx context.Context, kind model.Kind, req model.Request) model.Input {
	in := model.Input{
		Kind:    kind,
		Content: strings.TrimSpace(req.Content),
	}

	if kind == model.KindDeepfake {
		if req.ImageData == "" {
			return in
		}
		data, mimeType, err := DecodeImage(req.ImageData, req.MIMEType)
		if err != nil {
			p.logger.Warn("image decode failed, using file name heuristics",
				zap.String("kind", string(kind)),
				zap.String("failure", model.Classify(err)),
				zap.Error(err))
			return in
		}
		in.Image = data
		in.MIMEType = mimeType
		return in
	}

	if !IsURL(in.Content) {
		return in
	}
	in.URL = in.Content
	if kind == model.KindPrivacy {
		return in
	}

	text, err := p.fetcher.FetchText(ctx, in.URL)
	if err != nil {
		p.logger.Warn("fetch failed, assessing URL alone",
			zap.String("url", in.URL),
			zap.String("failure", model.Classify(err)),
			zap.Error(err))
	}
	if err != nil || strings.TrimSpace(text) == "" {
		in.Content = unreachableContent(in.URL)
		in.Placeholder = true
		return in
	}
	in.Content = text
	return in
}

// unreachableContent stands in for a page that could not be retrieved
func unreachableContent(rawURL string) string {
	return fmt.Sprintf("URL submitted for analysis: %s. The page content could not be retrieved; "+
		"assess the source based on the URL and domain alone.", rawURL)
}

// IsURL reports whether s parses as an absolute URL with scheme and host
func IsURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// DecodeImage decodes a base64 image payload, optionally prefixed with
// "data:<mime>;base64,". The MIME type is taken from mimeType, then the
// data URI, then content sniffing, then image/jpeg.
func DecodeImage(payload, mimeType string) ([]byte, string, error) {
	payload = strings.TrimSpace(payload)
	if rest, ok := strings.CutPrefix(payload, "data:"); ok {
		header, body, found := strings.Cut(rest, ",")
		if !found {
			return nil, "", fmt.Errorf("%w: malformed data URI", model.ErrDecodeFailed)
		}
		if mimeType == "" {
			mimeType, _, _ = strings.Cut(header, ";")
		}
		payload = body
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		var rawErr error
		data, rawErr = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if rawErr != nil {
			return nil, "", fmt.Errorf("%w: %w", model.ErrDecodeFailed, err)
		}
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty image", model.ErrDecodeFailed)
	}

	if mimeType == "" {
		if sniffed := http.DetectContentType(data); strings.HasPrefix(sniffed, "image/") {
			mimeType = sniffed
		} else {
			mimeType = defaultImageMIME
		}
	}
	return data, mimeType, nil
}

// cachedStrategy serves AI verdicts from the verdict cache. Only
// successful verdicts are stored.
type cachedStrategy struct {
	next     Strategy
	verdicts *cache.Verdicts
	logger   *zap.Logger
}

func (c *cachedStrategy) Name() string {
	return c.next.Name()
}

func (c *cachedStrategy) Analyze(ctx context.Context, in model.Input) (*model.Result, error) {
	key := cache.VerdictKey(in)
	if result, ok := c.verdicts.Get(key); ok {
		c.logger.Debug("verdict cache hit", zap.String("kind", string(in.Kind)))
		return result, nil
	}

	result, err := c.next.Analyze(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := c.verdicts.Put(key, *result); err != nil {
		c.logger.Warn("verdict cache write failed", zap.Error(err))
	}
	return result, nil
}
