// internal/workers/affiliate/resolve-link/config.go
package resolvelink

import "moonlight-diary/internal/common/config"

const DefaultSearchURL = "https://www.coupang.com/np/search"

type Config struct {
	SearchURL string
}

func LoadConfig() *Config {
	return &Config{SearchURL: DefaultSearchURL}
}

func FromAppConfig(c config.AffiliateConfig) *Config {
	cfg := LoadConfig()
	if c.SearchURL != "" {
		cfg.SearchURL = c.SearchURL
	}
	return cfg
}
