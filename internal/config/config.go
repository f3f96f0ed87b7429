package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Provider exposes read access to the application configuration.
type Provider interface {
	GetBackendURL() string
	GetServerAddr() string
	GetSessionSecret() string
	GetLogFormat() string
	GetLogLevel() string
}

// Config holds all configuration for the application.
type Config struct {
	BackendURL    string `validate:"required,url"`
	ServerAddr    string `validate:"required"`
	SessionSecret string `validate:"required,min=16"`
	LogFormat     string `validate:"oneof=text json"`
	LogLevel      string `validate:"oneof=debug info warn error"`
}

// New loads a .env file if one exists and then reads configuration from the
// environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// slog is not configured yet at this point.
		log.Println("No .env file found, relying on environment variables")
	}
	return Load()
}

// Load reads configuration from environment variables only.
func Load() (*Config, error) {
	cfg := &Config{
		BackendURL:    strings.TrimRight(os.Getenv("BACKEND_URL"), "/"),
		ServerAddr:    getEnv("SERVER_ADDR", ":8080"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (c *Config) GetBackendURL() string    { return c.BackendURL }
func (c *Config) GetServerAddr() string    { return c.ServerAddr }
func (c *Config) GetSessionSecret() string { return c.SessionSecret }
func (c *Config) GetLogFormat() string     { return c.LogFormat }
func (c *Config) GetLogLevel() string      { return c.LogLevel }
