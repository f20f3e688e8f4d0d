// Package config provides application configuration management using Viper.
// Configuration is loaded from YAML files and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Provider ProviderConfig `mapstructure:"provider"`
	Health   HealthConfig   `mapstructure:"health"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name  string `mapstructure:"name"`
	Env   string `mapstructure:"env"` // development, staging, production
	Port  int    `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"`
}

// ProviderConfig holds the three upstream endpoints: the primary and backup
// REST tiers and the authenticated GraphQL endpoint.
type ProviderConfig struct {
	A       ProviderEndpoint `mapstructure:"a"`
	B       ProviderEndpoint `mapstructure:"b"`
	AniList ProviderEndpoint `mapstructure:"anilist"`
}

// ProviderEndpoint holds a single provider's configuration.
type ProviderEndpoint struct {
	BaseURL   string          `mapstructure:"base_url"`
	Timeout   time.Duration   `mapstructure:"timeout"`
	CB        CBConfig        `mapstructure:"circuit_breaker"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// CBConfig holds circuit breaker settings.
type CBConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
	MinRequests  uint32        `mapstructure:"min_requests"`
}

// RateLimitConfig holds client-side rate limiting. RPS 0 disables it.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// HealthConfig holds the provider health monitor settings.
type HealthConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Interval  time.Duration `mapstructure:"interval"`
	Timeout   time.Duration `mapstructure:"timeout"`
	StatusTTL time.Duration `mapstructure:"status_ttl"`
	LockTTL   time.Duration `mapstructure:"lock_ttl"` // 0 = Interval
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

// SentryConfig holds Sentry error tracking settings.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// RedisConfig holds Redis connection settings for shared health state and
// distributed locking.
type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// Addr returns host:port.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Override sets a value with the highest precedence.
type Override func(v *viper.Viper)

// WithValue overrides key with value. Empty strings are ignored so unset
// CLI flags can be passed through unconditionally.
func WithValue(key string, value any) Override {
	return func(v *viper.Viper) {
		if s, ok := value.(string); ok && s == "" {
			return
		}
		v.Set(key, value)
	}
}

// Base URL environment variables, read without the APP_ prefix.
const (
	EnvPrimaryURL = "API_URL"
	EnvBackupURL  = "BACKUP_API_URL"
	EnvAniListURL = "ANILIST_API_URL"
)

// Load reads configuration from file and environment variables.
// Priority: overrides > env vars > config file > defaults
func Load(configPath string, overrides ...Override) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found, continue with defaults + env vars
	}

	// Environment variable settings
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range map[string]string{
		"provider.a.base_url":       EnvPrimaryURL,
		"provider.b.base_url":       EnvBackupURL,
		"provider.anilist.base_url": EnvAniListURL,
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	for _, o := range overrides {
		o(v)
	}

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "anime-aggregator")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.debug", true)

	// Provider A (primary) defaults; the public API allows 3 req/s
	v.SetDefault("provider.a.base_url", "https://api.jikan.moe/v4")
	v.SetDefault("provider.a.timeout", "5s")
	v.SetDefault("provider.a.rate_limit.rps", 3)
	v.SetDefault("provider.a.rate_limit.burst", 3)
	setBreakerDefaults(v, "provider.a")

	// Provider B (backup) defaults
	v.SetDefault("provider.b.base_url", "https://kitsu.io/api/edge")
	v.SetDefault("provider.b.timeout", "5s")
	v.SetDefault("provider.b.rate_limit.rps", 0)
	v.SetDefault("provider.b.rate_limit.burst", 0)
	setBreakerDefaults(v, "provider.b")

	// AniList defaults
	v.SetDefault("provider.anilist.base_url", "https://graphql.anilist.co")
	v.SetDefault("provider.anilist.timeout", "5s")
	v.SetDefault("provider.anilist.rate_limit.rps", 1)
	v.SetDefault("provider.anilist.rate_limit.burst", 5)
	setBreakerDefaults(v, "provider.anilist")

	// Health monitor defaults
	v.SetDefault("health.enabled", false)
	v.SetDefault("health.interval", "1m")
	v.SetDefault("health.timeout", "5s")
	v.SetDefault("health.status_ttl", "3m")
	v.SetDefault("health.lock_ttl", "0s") // 0 holds the lock for the full interval

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")

	// Sentry defaults
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "anime-aggregator")
}

func setBreakerDefaults(v *viper.Viper, prefix string) {
	v.SetDefault(prefix+".circuit_breaker.max_requests", 3)
	v.SetDefault(prefix+".circuit_breaker.interval", "60s")
	v.SetDefault(prefix+".circuit_breaker.timeout", "30s")
	v.SetDefault(prefix+".circuit_breaker.failure_ratio", 0.5)
	v.SetDefault(prefix+".circuit_breaker.min_requests", 3)
}
