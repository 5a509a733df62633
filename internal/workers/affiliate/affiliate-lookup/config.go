// internal/workers/affiliate/affiliate-lookup/config.go
package affiliatelookup

import (
	"time"

	"moonlight-diary/internal/common/config"
)

const (
	DefaultBaseURL = "https://api-gateway.coupang.com"
	SearchPath     = "/v2/providers/affiliate_open_api/apis/openapi/products/search"
)

type Config struct {
	AccessKey   string
	SecretKey   string
	BaseURL     string
	Timeout     time.Duration
	ResultLimit int
	CacheTTL    time.Duration
}

func LoadConfig() *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		Timeout:     5 * time.Second,
		ResultLimit: 1,
		CacheTTL:    time.Hour,
	}
}

// FromAppConfig maps the affiliate section of the service config.
func FromAppConfig(c config.AffiliateConfig) *Config {
	cfg := LoadConfig()
	cfg.AccessKey = c.AccessKey
	cfg.SecretKey = c.SecretKey
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	if c.Timeout > 0 {
		cfg.Timeout = config.GetDuration(c.Timeout)
	}
	if c.ResultLimit > 0 {
		cfg.ResultLimit = c.ResultLimit
	}
	if c.CacheTTL > 0 {
		cfg.CacheTTL = config.GetDuration(c.CacheTTL)
	}
	return cfg
}

func (c *Config) hasCredentials() bool {
	return c.AccessKey != "" && c.SecretKey != ""
}
