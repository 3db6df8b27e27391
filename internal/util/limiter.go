package util

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// limiterIdle is how long an unused per-host limiter is kept
const limiterIdle = 10 * time.Minute

// Limiter implements per-host rate limiting. Limiters for hosts that go
// quiet are evicted.
type Limiter struct {
	limiters     *gocache.Cache
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new rate limiter
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		limiters:     gocache.New(limiterIdle, limiterIdle),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait waits for rate limit clearance for the given URL
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	host, err := hostKey(rawURL)
	if err != nil {
		return err
	}

	return l.getLimiter(host).Wait(ctx)
}

// Allow checks if a request is allowed without waiting
func (l *Limiter) Allow(rawURL string) bool {
	host, err := hostKey(rawURL)
	if err != nil {
		return false
	}

	return l.getLimiter(host).Allow()
}

// getLimiter returns the rate limiter for a host, refreshing its expiry
func (l *Limiter) getLimiter(host string) *rate.Limiter {
	if v, ok := l.limiters.Get(host); ok {
		limiter := v.(*rate.Limiter)
		l.limiters.SetDefault(host, limiter)
		return limiter
	}

	limiter := rate.NewLimiter(l.defaultRate, l.defaultBurst)
	if err := l.limiters.Add(host, limiter, gocache.DefaultExpiration); err != nil {
		// Lost the race; use the winner
		if v, ok := l.limiters.Get(host); ok {
			return v.(*rate.Limiter)
		}
	}
	return limiter
}

// hostKey extracts the lowercased host from a URL
func hostKey(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("no host in URL %q", rawURL)
	}
	return strings.ToLower(parsed.Hostname()), nil
}
