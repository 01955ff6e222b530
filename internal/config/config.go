// Package config loads application configuration in three layers:
// built-in defaults, an optional YAML file, then BLOG_-prefixed environment
// variables. Later layers override earlier ones.
//
// Example override: BLOG_SERVER_PORT=9000 sets server.port.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the environment variables this app reads.
const envPrefix = "BLOG_"

// defaultConfigPaths are searched in order; the first file found is used.
var defaultConfigPaths = []string{"config.yaml", "config.yml"}

type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Auth       AuthConfig       `koanf:"auth"`
	SMTP       SMTPConfig       `koanf:"smtp"`
	Cloudinary CloudinaryConfig `koanf:"cloudinary"`
	Contact    ContactConfig    `koanf:"contact"`
	Dev        bool             `koanf:"dev"` // development mode: verbose logging, raw error messages
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	// AuthRateLimit caps requests per minute per IP on the auth endpoints —
	// OTP request/verify and login are the brute-forceable surface.
	AuthRateLimit int `koanf:"auth_rate_limit"`
}

type DatabaseConfig struct {
	Path string `koanf:"path"`
}

type AuthConfig struct {
	JWTSecret  string `koanf:"jwt_secret"`
	BcryptCost int    `koanf:"bcrypt_cost"` // 0 = library default
}

type SMTPConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`
}

// Enabled reports whether outbound mail is configured. With mail disabled the
// server still runs, but signup OTPs are only visible in the logs — useful in
// development.
func (c SMTPConfig) Enabled() bool { return c.Host != "" }

type CloudinaryConfig struct {
	CloudName string `koanf:"cloud_name"`
	APIKey    string `koanf:"api_key"`
	APISecret string `koanf:"api_secret"`
}

func (c CloudinaryConfig) Enabled() bool { return c.CloudName != "" }

type ContactConfig struct {
	// Recipient receives messages submitted through the contact form.
	Recipient string `koanf:"recipient"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			CORSOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
			AuthRateLimit:   20,
		},
		Database: DatabaseConfig{
			Path: "data/blog.db",
		},
		SMTP: SMTPConfig{
			Port: 587,
		},
	}
}

// Load reads configuration from defaults, then the first config file found
// (or the path given in BLOG_CONFIG_PATH), then environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: loading defaults: %w", err)
	}

	paths := defaultConfigPaths
	if p := os.Getenv(envPrefix + "CONFIG_PATH"); p != "" {
		paths = []string{p}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: loading %s: %w", path, err)
		}
		break
	}

	// BLOG_SERVER_PORT → server.port, BLOG_AUTH_JWT_SECRET → auth.jwt_secret.
	// Only the first underscore becomes a key separator; the rest stay as-is
	// so multi-word keys like read_timeout survive the mapping.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.Replace(s, "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("config: loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("config: auth.jwt_secret is required (set BLOG_AUTH_JWT_SECRET)")
	}
	if c.Database.Path == "" {
		return errors.New("config: database.path is required")
	}
	return nil
}
