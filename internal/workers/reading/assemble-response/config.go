// internal/workers/reading/assemble-response/config.go
package assembleresponse

type Config struct {
	// ResolveInline fills coupangLink in the chat response. When false the
	// client asks /api/coupang itself.
	ResolveInline bool
}

func LoadConfig() *Config {
	return &Config{ResolveInline: true}
}
