package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	CORS        CORSConfig
	Irradiance  IrradianceConfig
	Persistence PersistenceConfig
	Catalog     CatalogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	PoolMin  int
	PoolMax  int
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// IrradianceConfig configures the remote solar resource provider. An empty
// APIURL disables it and every request uses the latitude estimate.
type IrradianceConfig struct {
	APIURL   string
	APIKey   string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Enabled reports whether a remote provider is configured.
func (c IrradianceConfig) Enabled() bool {
	return c.APIURL != ""
}

// PersistenceConfig controls fire-and-forget saving of calculations.
type PersistenceConfig struct {
	Enabled     bool
	Timeout     time.Duration
	MaxInflight int
}

// CatalogConfig points at an optional YAML equipment catalog override.
type CatalogConfig struct {
	File string
}

// LoadDotEnv loads variables from path into the process environment. A
// missing file is not an error; variables already set are not overridden.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from environment variables with development defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "helios")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("IRRADIANCE_API_URL", "")
	v.SetDefault("IRRADIANCE_TIMEOUT", "10s")
	v.SetDefault("IRRADIANCE_CACHE_TTL", "24h")
	v.SetDefault("PERSIST_ENABLED", true)
	v.SetDefault("PERSIST_TIMEOUT", "5s")
	v.SetDefault("PERSIST_MAX_INFLIGHT", 16)
	v.SetDefault("CATALOG_FILE", "")

	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
		Irradiance: IrradianceConfig{
			APIURL:   v.GetString("IRRADIANCE_API_URL"),
			APIKey:   v.GetString("IRRADIANCE_API_KEY"),
			Timeout:  v.GetDuration("IRRADIANCE_TIMEOUT"),
			CacheTTL: v.GetDuration("IRRADIANCE_CACHE_TTL"),
		},
		Persistence: PersistenceConfig{
			Enabled:     v.GetBool("PERSIST_ENABLED"),
			Timeout:     v.GetDuration("PERSIST_TIMEOUT"),
			MaxInflight: v.GetInt("PERSIST_MAX_INFLIGHT"),
		},
		Catalog: CatalogConfig{
			File: v.GetString("CATALOG_FILE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid. Database
// settings are only required when persistence is enabled.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Persistence.Enabled {
		if err := c.Database.validate(); err != nil {
			return err
		}
		if c.Persistence.Timeout <= 0 {
			return fmt.Errorf("PERSIST_TIMEOUT must be positive")
		}
		if c.Persistence.MaxInflight < 1 {
			return fmt.Errorf("PERSIST_MAX_INFLIGHT must be at least 1")
		}
	}

	if c.Irradiance.Enabled() {
		if c.Irradiance.APIKey == "" {
			return fmt.Errorf("IRRADIANCE_API_KEY is required when IRRADIANCE_API_URL is set")
		}
		if c.Irradiance.Timeout <= 0 {
			return fmt.Errorf("IRRADIANCE_TIMEOUT must be positive")
		}
	}
	if c.Irradiance.CacheTTL < 0 {
		return fmt.Errorf("IRRADIANCE_CACHE_TTL must be non-negative")
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	return nil
}

func (d DatabaseConfig) validate() error {
	if d.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if d.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if d.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if d.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if d.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if d.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if d.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if d.PoolMin > d.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}
	return nil
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
