package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the viewer and the reference host
type Config struct {
	Client   ClientConfig `yaml:"client"`
	Host     HostConfig   `yaml:"host"`
	LogLevel string       `yaml:"log_level"`
}

// ClientConfig holds viewer-related configuration
type ClientConfig struct {
	ServerURL    string        `yaml:"server_url"`
	DefaultURL   string        `yaml:"default_url"`
	MoveDebounce time.Duration `yaml:"move_debounce"`
	MetricsAddr  string        `yaml:"metrics_addr"`
}

// HostConfig holds reference host configuration
type HostConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	FPS        int    `yaml:"fps"`
	Quality    int    `yaml:"quality"` // 1-100
	Display    int    `yaml:"display"`
	MaxWidth   int    `yaml:"max_width"` // 0 keeps the native capture width
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Client: ClientConfig{
			ServerURL:    "http://localhost:8000",
			DefaultURL:   "https://duckduckgo.com",
			MoveDebounce: 500 * time.Millisecond,
		},
		Host: HostConfig{
			ListenAddr: ":8000",
			FPS:        5,
			Quality:    85,
		},
		LogLevel: "info",
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, in that order of precedence.
func Load(path string) (*Config, error) {
	// Load .env file if it exists (optional)
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Client.ServerURL = getEnv("BROWSERCONTROL_SERVER_URL", cfg.Client.ServerURL)
	cfg.Client.DefaultURL = getEnv("BROWSERCONTROL_DEFAULT_URL", cfg.Client.DefaultURL)
	cfg.Client.MoveDebounce = getEnvAsDuration("BROWSERCONTROL_MOVE_DEBOUNCE", cfg.Client.MoveDebounce)
	cfg.Client.MetricsAddr = getEnv("BROWSERCONTROL_METRICS_ADDR", cfg.Client.MetricsAddr)
	cfg.Host.ListenAddr = getEnv("BROWSERCONTROL_LISTEN_ADDR", cfg.Host.ListenAddr)
	cfg.Host.FPS = getEnvAsInt("BROWSERCONTROL_FPS", cfg.Host.FPS)
	cfg.Host.Quality = getEnvAsInt("BROWSERCONTROL_QUALITY", cfg.Host.Quality)
	cfg.Host.Display = getEnvAsInt("BROWSERCONTROL_DISPLAY", cfg.Host.Display)
	cfg.Host.MaxWidth = getEnvAsInt("BROWSERCONTROL_MAX_WIDTH", cfg.Host.MaxWidth)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid option
func (c *Config) Validate() error {
	u, err := url.Parse(c.Client.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid server_url %q: scheme must be http or https", c.Client.ServerURL)
	}
	if c.Client.MoveDebounce <= 0 {
		return errors.New("move_debounce must be positive")
	}
	if c.Host.Quality < 1 || c.Host.Quality > 100 {
		return fmt.Errorf("quality %d out of range 1-100", c.Host.Quality)
	}
	return nil
}

// StreamURL returns the websocket address of the streaming channel for a
// session: http(s)://host/base becomes ws(s)://host/base/stream/{id}.
func (c *ClientConfig) StreamURL(sessionID string) (string, error) {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/stream/" + url.PathEscape(sessionID)
	return u.String(), nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as int or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
