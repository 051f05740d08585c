package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for kodibot-engine.
// Configuration can come from YAML file (config.yaml) or environment
// variables. Environment variables always override YAML values. Secrets
// (database password, OpenAI key) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"PORT" env-default:"8000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Text-completion provider configuration
	OpenAI OpenAIConfig `yaml:"openai"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"kodibot"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"kodibot"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MigrationsPath string `yaml:"migrations_path" env:"PGMIGRATIONS_PATH" env-default:"migrations"`
}

// OpenAIConfig holds the completion endpoint settings. The same endpoint is
// used for intent classification and answer generation.
type OpenAIConfig struct {
	BaseURL string `yaml:"base_url" env:"OPENAI_BASE_URL" env-default:"https://api.openai.com/v1"`
	Model   string `yaml:"model" env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
	APIKey  string `yaml:"-" env:"OPENAI_API_KEY"` // Secret - not in YAML
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time. If no
// config.yaml exists, environment variables and defaults are used alone.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	return cfg, nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// URL returns a postgres:// URL for tooling that requires the URL form.
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}
