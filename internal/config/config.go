package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingDatabaseURL is returned when DATABASE_URL is not set anywhere.
var ErrMissingDatabaseURL = errors.New("config: DATABASE_URL is required")

// Config holds all runtime configuration loaded from environment variables.
// It is built once in main and passed down explicitly.
type Config struct {
	// Server
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	// Database
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis board cache; empty disables it
	RedisURL             string `mapstructure:"REDIS_URL"`
	BoardCacheTTLSeconds int    `mapstructure:"BOARD_CACHE_TTL_SECONDS"`

	// HTTP
	RateLimitPerMinute int    `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	CORSOrigins        string `mapstructure:"CORS_ORIGINS"` // comma separated; empty allows all
}

// BoardCacheTTL is the lifetime of a cached board listing.
func (c *Config) BoardCacheTTL() time.Duration {
	return time.Duration(c.BoardCacheTTLSeconds) * time.Second
}

// AllowedOrigins splits CORSOrigins, dropping blanks.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Load reads configuration from environment variables and an optional .env
// file in the working directory. Environment wins over the file.
func Load() (*Config, error) {
	return load(".")
}

func load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(dir)
	v.AutomaticEnv()

	v.SetDefault("PORT", 8000)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("BOARD_CACHE_TTL_SECONDS", 15)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 600)
	v.SetDefault("CORS_ORIGINS", "")

	// Optional .env file for local development; does not fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, ErrMissingDatabaseURL
	}
	return cfg, nil
}
