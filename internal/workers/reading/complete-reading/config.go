// internal/workers/reading/complete-reading/config.go
package completereading

import (
	"time"

	"moonlight-diary/internal/common/config"
)

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32

	Flow                string
	Timeout             time.Duration
	ForceAfterUserTurns int
	ForceAfterRunes     int
	DefaultLuckyItem    string
}

func LoadConfig() *Config {
	return &Config{
		Model:               "gpt-4o",
		MaxTokens:           1024,
		Temperature:         0.8,
		Flow:                config.FlowProbe,
		Timeout:             15 * time.Second,
		ForceAfterUserTurns: 2,
		ForceAfterRunes:     8,
		DefaultLuckyItem:    "따뜻한 허브티",
	}
}

// FromAppConfig maps the openai and reading sections of the service config.
func FromAppConfig(o config.OpenAIConfig, r config.ReadingConfig) *Config {
	cfg := LoadConfig()
	cfg.APIKey = o.APIKey
	cfg.BaseURL = o.BaseURL
	if o.Model != "" {
		cfg.Model = o.Model
	}
	if o.MaxTokens > 0 {
		cfg.MaxTokens = o.MaxTokens
	}
	cfg.Temperature = o.Temperature

	if r.Flow != "" {
		cfg.Flow = r.Flow
	}
	if r.CompletionTimeout > 0 {
		cfg.Timeout = config.GetDuration(r.CompletionTimeout)
	}
	cfg.ForceAfterUserTurns = r.ForceAfterUserTurns
	cfg.ForceAfterRunes = r.ForceAfterRunes
	if r.DefaultLuckyItem != "" {
		cfg.DefaultLuckyItem = r.DefaultLuckyItem
	}
	return cfg
}
