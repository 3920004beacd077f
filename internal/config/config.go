package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the top-level configuration for weatherd.
type Config struct {
	ListenAddr string         `mapstructure:"listen_addr"`
	LogFormat  string         `mapstructure:"log_format"`
	CORS       CORSConfig     `mapstructure:"cors"`
	Storage    StorageConfig  `mapstructure:"storage"`
	Provider   ProviderConfig `mapstructure:"provider"`
	Cache      CacheConfig    `mapstructure:"cache"`
	Auth       AuthConfig     `mapstructure:"auth"`
}

// CORSConfig is the cross-origin contract served to browsers. An
// empty allow_origin disables CORS headers entirely.
type CORSConfig struct {
	AllowOrigin      string   `mapstructure:"allow_origin"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
}

// StorageConfig defines the database backend.
type StorageConfig struct {
	Driver   string         `mapstructure:"driver"` // "sqlite" or "postgres"
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// SQLiteConfig holds SQLite-specific configuration.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// PostgresConfig holds PostgreSQL-specific configuration.
type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// ProviderConfig defines the upstream weather provider.
type ProviderConfig struct {
	APIKey         string  `mapstructure:"api_key"`
	BaseURL        string  `mapstructure:"base_url"`
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// CacheConfig defines cached-reading freshness and refresh behavior.
type CacheConfig struct {
	TTLMinutes             int  `mapstructure:"ttl_minutes"`
	RefreshEnabled         bool `mapstructure:"refresh_enabled"`
	RefreshIntervalMinutes int  `mapstructure:"refresh_interval_minutes"`
}

// AuthConfig holds the token-signing secret and token lifetime.
type AuthConfig struct {
	Secret          string `mapstructure:"secret"`
	TokenTTLMinutes int    `mapstructure:"token_ttl_minutes"`
}

// Load reads configuration from flag path, env vars, then default file paths.
// Precedence: flag → $WEATHERD_CONFIG env → ~/.config/weatherd/config.yaml → /etc/weatherd/config.yaml
func Load(configPath string) (*Config, error) {
	// A .env file in the working directory supplies env vars during
	// local development; absence is not an error.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")

	// Defaults
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("log_format", "json")
	v.SetDefault("cors.allow_origin", "*")
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.allow_methods", []string{"*"})
	v.SetDefault("cors.allow_headers", []string{"*"})
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.sqlite.path", "weatherd.db")
	v.SetDefault("provider.base_url", "https://api.openweathermap.org")
	v.SetDefault("provider.rate_limit_rps", 1.0)
	v.SetDefault("provider.rate_limit_burst", 5)
	v.SetDefault("cache.ttl_minutes", 60)
	v.SetDefault("cache.refresh_enabled", false)
	v.SetDefault("cache.refresh_interval_minutes", 30)
	v.SetDefault("auth.token_ttl_minutes", 10)

	// Env var support
	v.SetEnvPrefix("WEATHERD")
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else if envPath := os.Getenv("WEATHERD_CONFIG"); envPath != "" {
		v.SetConfigFile(envPath)
	} else {
		// Try ~/.config/weatherd/config.yaml first
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "weatherd"))
		}
		// Fall back to /etc/weatherd/config.yaml
		v.AddConfigPath("/etc/weatherd")
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Secrets are injected from env vars so they stay out of config
	// files (K8s secret injection).
	if key := os.Getenv("WEATHERD_PROVIDER_API_KEY"); key != "" {
		cfg.Provider.APIKey = key
	}
	if secret := os.Getenv("WEATHERD_AUTH_SECRET"); secret != "" {
		cfg.Auth.Secret = secret
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration is complete and correct.
func (c *Config) Validate() error {
	if c.Provider.APIKey == "" {
		return fmt.Errorf("provider.api_key is required (or set WEATHERD_PROVIDER_API_KEY)")
	}
	if c.Provider.RateLimitRPS <= 0 {
		return fmt.Errorf("provider.rate_limit_rps must be positive, got %v", c.Provider.RateLimitRPS)
	}
	if c.Cache.TTLMinutes <= 0 {
		return fmt.Errorf("cache.ttl_minutes must be positive, got %d", c.Cache.TTLMinutes)
	}
	if c.Cache.RefreshEnabled && c.Cache.RefreshIntervalMinutes <= 0 {
		return fmt.Errorf("cache.refresh_interval_minutes must be positive, got %d", c.Cache.RefreshIntervalMinutes)
	}

	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.SQLite.Path == "" {
			return fmt.Errorf("storage.sqlite.path is required for sqlite driver")
		}
		dir := filepath.Dir(c.Storage.SQLite.Path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0700); err != nil {
				return fmt.Errorf("creating storage directory %q: %w", dir, err)
			}
		}
	case "postgres":
		if c.Storage.Postgres.DSN == "" {
			return fmt.Errorf("storage.postgres.dsn is required for postgres driver")
		}
	default:
		return fmt.Errorf("storage.driver must be 'sqlite' or 'postgres', got %q", c.Storage.Driver)
	}

	// Validate listen_addr.
	if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
		return fmt.Errorf("listen_addr %q is not a valid address: %w", c.ListenAddr, err)
	}

	return nil
}

// DSN returns the appropriate DSN for the configured storage driver.
func (c *Config) DSN() string {
	switch c.Storage.Driver {
	case "sqlite":
		return c.Storage.SQLite.Path
	case "postgres":
		return c.Storage.Postgres.DSN
	default:
		return ""
	}
}

// CacheTTL returns the cache freshness window as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}

// RefreshInterval returns the background refresh interval as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Cache.RefreshIntervalMinutes) * time.Minute
}

// TokenTTL returns the auth token lifetime as a duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}
