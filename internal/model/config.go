package model

import "time"

// Config holds the complete service configuration
type Config struct {
	HTTP         HTTPConfig        `yaml:"http" mapstructure:"http"`
	LLM          LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Reputation   ReputationConfig  `yaml:"reputation" mapstructure:"reputation"`
	Server       ServerConfig      `yaml:"server" mapstructure:"server"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
}

// HTTPConfig configures the content fetcher
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	MaxTextChars  int           `yaml:"max_text_chars" mapstructure:"max_text_chars"`
	RetryAttempts int           `yaml:"retry_attempts" mapstructure:"retry_attempts"`
	RetryBackoff  time.Duration `yaml:"retry_backoff" mapstructure:"retry_backoff"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// LLMConfig configures the model client
type LLMConfig struct {
	Provider        string        `yaml:"provider" mapstructure:"provider"` // gemini, openai, anthropic, ollama, "" (disabled)
	Model           string        `yaml:"model" mapstructure:"model"`
	APIKey          string        `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL         string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout         time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens       int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature     float64       `yaml:"temperature" mapstructure:"temperature"`
	MaxContentChars int           `yaml:"max_content_chars" mapstructure:"max_content_chars"`
}

// CacheConfig configures the verdict and page caches
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`             // AI verdicts
	FetchTTL        time.Duration `yaml:"fetch_ttl" mapstructure:"fetch_ttl"` // extracted page text
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
	Dir             string        `yaml:"dir,omitempty" mapstructure:"dir"` // persist AI verdicts here when set
}

// ReputationConfig overrides the built-in domain lists. Empty lists keep
// the defaults.
type ReputationConfig struct {
	TrustedDomains     []string `yaml:"trusted_domains" mapstructure:"trusted_domains"`
	SuspiciousPatterns []string `yaml:"suspicious_patterns" mapstructure:"suspicious_patterns"`
}

// ServerConfig configures the HTTP boundary
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	AllowedOrigins  []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// ConcurrencyConfig configures batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitConfig configures per-host fetch rate limiting
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       4 * time.Second,
			UserAgent:     "Mozilla/5.0 (compatible; TrueVail/1.0; +https://github.com/ppiankov/truevail)",
			MaxBodyBytes:  2_000_000,
			MaxTextChars:  5000,
			RetryAttempts: 2,
			RetryBackoff:  500 * time.Millisecond,
			RespectRobots: true,
		},
		LLM: LLMConfig{
			Provider:        "gemini",
			Model:           "",
			Timeout:         8 * time.Second,
			MaxTokens:       1024,
			Temperature:     0.1,
			MaxContentChars: 8000,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             15 * time.Minute,
			FetchTTL:        10 * time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
		Server: ServerConfig{
			Addr:            ":5000",
			AllowedOrigins:  []string{"*"},
			MaxBodyBytes:    10 << 20,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2,
			Burst:             4,
		},
	}
}
