package model

import "time"

// Config holds the complete navilex configuration
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" mapstructure:"rate_limit"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
}

// HTTPConfig configures the lexicon provider client
type HTTPConfig struct {
	BaseURL       string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// CacheConfig configures the durable word cache
type CacheConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// ConcurrencyConfig configures the resolution worker pool
type ConcurrencyConfig struct {
	// MaxWorkers caps the pool size; the effective size is
	// min(unique word count, MaxWorkers).
	MaxWorkers int `yaml:"max_workers" mapstructure:"max_workers"`
}

// RateLimitConfig throttles requests against the lexicon host
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// ServerConfig configures the JSON API server
type ServerConfig struct {
	Addr           string   `yaml:"addr" mapstructure:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LLMConfig configures the optional gloss-hint fallback.
// Disabled unless Provider is set; never affects dictionary resolution.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "openai" or "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			BaseURL:       "https://www.navigium.de/latein-woerterbuch",
			Timeout:       10 * time.Second,
			UserAgent:     "Navilex/0.1 (+https://github.com/dkrebs/navilex)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    ".word_cache.json",
		},
		Concurrency: ConcurrencyConfig{
			MaxWorkers: 50,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 8,
			Burst:             4,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		LLM: LLMConfig{
			Provider:  "", // Disabled by default
			Timeout:   30,
			MaxTokens: 200,
		},
	}
}
