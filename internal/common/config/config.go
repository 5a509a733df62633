// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Reading   ReadingConfig   `mapstructure:"reading"`
	Affiliate AffiliateConfig `mapstructure:"affiliate"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
	MaxBodyBytes    int64  `mapstructure:"max_body_bytes"`
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig is optional. An empty address disables the affiliate link cache.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// --- Specific Configuration Sections ---

// OpenAIConfig holds settings for the completion API. Model and sampling
// limits are deployment configuration.
type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float32 `mapstructure:"temperature"`
}

// ReadingConfig controls the completion orchestrator.
type ReadingConfig struct {
	Flow                string `mapstructure:"flow"`               // "probe" or "always_draw"
	CompletionTimeout   int    `mapstructure:"completion_timeout"` // milliseconds
	ForceAfterUserTurns int    `mapstructure:"force_after_user_turns"`
	ForceAfterRunes     int    `mapstructure:"force_after_runes"`
	DefaultLuckyItem    string `mapstructure:"default_lucky_item"`
	PersonaRegistryPath string `mapstructure:"persona_registry_path"`
	PersonaID           string `mapstructure:"persona_id"`
}

// AffiliateConfig holds Coupang Partners credentials and link settings.
type AffiliateConfig struct {
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	BaseURL       string `mapstructure:"base_url"`
	SearchURL     string `mapstructure:"search_url"`
	Timeout       int    `mapstructure:"timeout"`   // milliseconds
	CacheTTL      int    `mapstructure:"cache_ttl"` // milliseconds
	ResolveInline bool   `mapstructure:"resolve_inline"`
	ResultLimit   int    `mapstructure:"result_limit"`
}

// HasCredentials reports whether both signing keys are present.
func (a AffiliateConfig) HasCredentials() bool {
	return a.AccessKey != "" && a.SecretKey != ""
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
