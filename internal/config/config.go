package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/codemarcinu/ageny-online/internal/core/domain"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Providers ProvidersConfig `mapstructure:"providers"`
}

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Env            string   `mapstructure:"env"`
	APIKeys        []string `mapstructure:"api_keys"`
	AttemptTimeout int      `mapstructure:"attempt_timeout_seconds"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// ProvidersConfig groups registrations by capability family.
type ProvidersConfig struct {
	LLM    []ProviderEntry `mapstructure:"llm"`
	OCR    []ProviderEntry `mapstructure:"ocr"`
	Vector []ProviderEntry `mapstructure:"vector"`
}

// ProviderEntry is one provider registration: its identity, priority within
// the family (lower = tried first) and credentials.
type ProviderEntry struct {
	Name        string            `mapstructure:"name"`
	Priority    int               `mapstructure:"priority"`
	Enabled     bool              `mapstructure:"enabled"`
	APIKey      string            `mapstructure:"api_key"`
	Endpoint    string            `mapstructure:"endpoint"`
	BaseURL     string            `mapstructure:"base_url"`
	Environment string            `mapstructure:"environment"`
	Extra       map[string]string `mapstructure:"extra"`
}

// ProviderConfig converts the entry into the registry's config shape.
func (e ProviderEntry) ProviderConfig() domain.ProviderConfig {
	return domain.ProviderConfig{
		APIKey:      e.APIKey,
		Endpoint:    e.Endpoint,
		BaseURL:     e.BaseURL,
		Environment: e.Environment,
		Extra:       e.Extra,
	}
}

// LoadConfig reads configuration from file and environment variables.
// API keys may be written as "ENV:VAR_NAME" to be resolved from the process
// environment, keeping secrets out of config files.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
	}

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.attempt_timeout_seconds", 30)
	v.SetDefault("database.dsn", "file:ageny.db?cache=shared&mode=rwc&_journal_mode=WAL&_busy_timeout=5000")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	resolveSecrets(cfg.Providers.LLM, v)
	resolveSecrets(cfg.Providers.OCR, v)
	resolveSecrets(cfg.Providers.Vector, v)

	return &cfg, nil
}

func resolveSecrets(entries []ProviderEntry, v *viper.Viper) {
	for i, e := range entries {
		if strings.HasPrefix(e.APIKey, "ENV:") {
			envVar := strings.TrimPrefix(e.APIKey, "ENV:")
			val := os.Getenv(envVar)
			if val == "" {
				val = v.GetString(envVar)
			}
			entries[i].APIKey = val
		}
	}
}
