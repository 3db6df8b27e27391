package pipeline

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/ppiankov/truevail/internal/cache"
	"github.com/ppiankov/truevail/internal/extract"
	"github.com/ppiankov/truevail/internal/model"
	"github.com/ppiankov/truevail/internal/util"
)

// fetchSleepFunc is replaced in tests to skip retry back-off
var fetchSleepFunc = time.Sleep

// maxRedirects bounds redirect chains
const maxRedirects = 3

// maxRetryAttempts bounds fetch attempts per URL
const maxRetryAttempts = 2

// Fetcher retrieves article text from URLs
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	maxChars   int
	attempts   int
	backoff    time.Duration
	robots     *util.RobotsChecker
	limiter    *util.Limiter
	pages      *gocache.Cache
	logger     *zap.Logger
}

// FetcherOption configures a Fetcher
type FetcherOption func(*Fetcher)

// WithLimiter applies per-host rate limiting
func WithLimiter(l *util.Limiter) FetcherOption {
	return func(f *Fetcher) {
		f.limiter = l
	}
}

// WithPageCache caches extracted text for ttl
func WithPageCache(ttl, cleanupInterval time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if ttl > 0 {
			f.pages = gocache.New(ttl, cleanupInterval)
		}
	}
}

// WithFetcherLogger sets the fetcher logger
func WithFetcherLogger(logger *zap.Logger) FetcherOption {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFetcher creates a new Fetcher from the HTTP configuration
func NewFetcher(config model.HTTPConfig, opts ...FetcherOption) *Fetcher {
	defaults := model.DefaultConfig().HTTP
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = defaults.MaxBodyBytes
	}
	if config.RetryAttempts <= 0 {
		config.RetryAttempts = 1
	}
	if config.RetryAttempts > maxRetryAttempts {
		config.RetryAttempts = maxRetryAttempts
	}
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}

	transport := &http.Transport{
		Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
	}
	if config.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via config
	}

	client := &http.Client{
		Timeout:   config.Timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	f := &Fetcher{
		httpClient: client,
		userAgent:  config.UserAgent,
		maxBytes:   config.MaxBodyBytes,
		maxChars:   config.MaxTextChars,
		attempts:   config.RetryAttempts,
		backoff:    config.RetryBackoff,
		logger:     zap.NewNop(),
	}
	if config.RespectRobots {
		f.robots = util.NewRobotsChecker(config.UserAgent, config.Timeout, client)
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchResult contains the fetched HTML and metadata
type FetchResult struct {
	HTML        string
	StatusCode  int
	ContentType string
	FinalURL    string
}

// statusError reports a non-2xx response
type statusError struct {
	Code   int
	Status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.Code, e.Status)
}

// Fetch retrieves HTML content from the given URL in one attempt
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &FetchResult{
		HTML:        string(body),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
	}, nil
}

// FetchWithRetry calls Fetch up to the configured attempts, sleeping a
// fixed back-off between retryable failures.
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var lastErr error
	for attempt := 1; attempt <= f.attempts; attempt++ {
		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == f.attempts || !isRetryableFetchError(err) || ctx.Err() != nil {
			break
		}
		f.logger.Debug("retrying fetch",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt),
			zap.Error(err))
		fetchSleepFunc(f.backoff)
	}
	return nil, lastErr
}

// FetchText returns the article text of rawURL. The page <title> stands
// in when no paragraph text exists. Failures wrap model.ErrFetchFailed.
func (f *Fetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	key := cache.CacheKey("page", rawURL)
	if f.pages != nil {
		if v, ok := f.pages.Get(key); ok {
			return v.(string), nil
		}
	}

	if f.robots != nil {
		if !f.robots.IsAllowed(ctx, rawURL) {
			return "", fmt.Errorf("%w: disallowed by robots.txt: %s", model.ErrFetchFailed, rawURL)
		}
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return "", fmt.Errorf("%w: rate limit: %w", model.ErrFetchFailed, err)
		}
	}

	result, err := f.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrFetchFailed, err)
	}

	text, err := extract.ArticleText(result.HTML, f.maxChars)
	if err != nil {
		return "", fmt.Errorf("%w: parse html: %w", model.ErrFetchFailed, err)
	}
	if text == "" {
		text = extract.Title(result.HTML)
	}

	if f.pages != nil && text != "" {
		f.pages.SetDefault(key, text)
	}
	return text, nil
}

// isRetryableFetchError reports whether a fetch failure is transient:
// 5xx, 429, or a refused/reset connection.
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}

	var se *statusError
	if errors.As(err, &se) {
		return se.Code >= 500 || se.Code == http.StatusTooManyRequests
	}

	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset")
}
