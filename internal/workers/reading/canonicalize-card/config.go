// internal/workers/reading/canonicalize-card/config.go
package canonicalizecard

import "moonlight-diary/internal/models"

type Config struct {
	// DefaultCard replaces any name outside the catalog.
	DefaultCard models.CardID
}

func LoadConfig() *Config {
	return &Config{DefaultCard: models.DefaultCardID}
}
