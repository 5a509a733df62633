// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	FlowProbe      = "probe"
	FlowAlwaysDraw = "always_draw"
)

// Load reads configs/config.yaml (optional), merges configs/config.<env>.yaml,
// applies environment overrides and defaults, and validates the result.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional per-environment overlay

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// zero is a meaningful value for these, so applyDefaults cannot fill them
	v.SetDefault("affiliate.resolve_inline", true)
	v.SetDefault("openai.temperature", 0.8)
	v.SetDefault("reading.force_after_user_turns", 2)
	v.SetDefault("reading.force_after_runes", 8)

	// AutomaticEnv only applies to keys viper already knows about.
	for _, key := range []string{
		"openai.api_key", "openai.base_url", "openai.model",
		"affiliate.access_key", "affiliate.secret_key",
		"database.redis.address", "database.redis.password",
		"logging.level", "logging.format",
		"server.address", "reading.flow",
	} {
		_ = v.BindEnv(key)
	}
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders left in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig falls back to the conventional variable names used by
// the hosting platform when the config file left a secret empty.
func overrideEmptyConfig(cfg *Config) {
	if cfg.OpenAI.APIKey == "" {
		if val := os.Getenv("OPENAI_API_KEY"); val != "" {
			cfg.OpenAI.APIKey = val
		}
	}

	if cfg.Affiliate.AccessKey == "" {
		if val := os.Getenv("COUPANG_ACCESS_KEY"); val != "" {
			cfg.Affiliate.AccessKey = val
		}
	}
	if cfg.Affiliate.SecretKey == "" {
		if val := os.Getenv("COUPANG_SECRET_KEY"); val != "" {
			cfg.Affiliate.SecretKey = val
		}
	}

	if cfg.Database.Redis.Address == "" {
		if val := os.Getenv("REDIS_ADDRESS"); val != "" {
			cfg.Database.Redis.Address = val
		}
	}
	if cfg.Database.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Database.Redis.Password = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "moonlight-diary"
	}
	if cfg.App.Version == "" {
		cfg.App.Version = "dev"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15000
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 64 << 10
	}

	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4o"
	}
	if cfg.OpenAI.MaxTokens == 0 {
		cfg.OpenAI.MaxTokens = 1024
	}

	if cfg.Reading.Flow == "" {
		cfg.Reading.Flow = FlowProbe
	}
	if cfg.Reading.CompletionTimeout == 0 {
		cfg.Reading.CompletionTimeout = 15000
	}
	if cfg.Reading.DefaultLuckyItem == "" {
		cfg.Reading.DefaultLuckyItem = "따뜻한 허브티"
	}
	if cfg.Reading.PersonaID == "" {
		cfg.Reading.PersonaID = "moonlight-sister"
	}

	if cfg.Affiliate.BaseURL == "" {
		cfg.Affiliate.BaseURL = "https://api-gateway.coupang.com"
	}
	if cfg.Affiliate.SearchURL == "" {
		cfg.Affiliate.SearchURL = "https://www.coupang.com/np/search"
	}
	if cfg.Affiliate.Timeout == 0 {
		cfg.Affiliate.Timeout = 5000
	}
	if cfg.Affiliate.CacheTTL == 0 {
		cfg.Affiliate.CacheTTL = 3600000
	}
	if cfg.Affiliate.ResultLimit == 0 {
		cfg.Affiliate.ResultLimit = 1
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields.
func validateConfig(cfg *Config) error {
	switch cfg.Reading.Flow {
	case FlowProbe, FlowAlwaysDraw:
	default:
		return fmt.Errorf("reading.flow must be %q or %q, got %q", FlowProbe, FlowAlwaysDraw, cfg.Reading.Flow)
	}

	if cfg.Reading.CompletionTimeout < 0 {
		return fmt.Errorf("reading.completion_timeout must be positive")
	}
	if cfg.Affiliate.Timeout < 0 {
		return fmt.Errorf("affiliate.timeout must be positive")
	}
	if cfg.Affiliate.ResultLimit < 1 {
		return fmt.Errorf("affiliate.result_limit must be at least 1")
	}

	if cfg.OpenAI.Temperature < 0 || cfg.OpenAI.Temperature > 2 {
		return fmt.Errorf("openai.temperature must be between 0 and 2")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
