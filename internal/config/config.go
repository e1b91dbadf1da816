package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the server's configuration model.
// It captures API credentials, runtime mode, and the upstream/rate-limit tunables.
type Config struct {
	Credentials CredentialsConfig `yaml:"credentials"`
	Server      ServerConfig      `yaml:"server"`
	RateLimit   RateLimitConfig   `yaml:"rateLimit"`
	API         APIConfig         `yaml:"api"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

type CredentialsConfig struct {
	// OAuth1.0a user-context credentials, used for posting
	APIKey            string `yaml:"apiKey"`
	APISecret         string `yaml:"apiSecret"`
	AccessToken       string `yaml:"accessToken"`
	AccessTokenSecret string `yaml:"accessTokenSecret"`
	// App-only token, used for read endpoints
	BearerToken string `yaml:"bearerToken"`
}

type ServerConfig struct {
	Env      string `yaml:"env"`      // development, production or test
	LogLevel string `yaml:"logLevel"` // error, warn, info or debug
}

// RateLimitConfig values are read and validated but not enforced anywhere.
type RateLimitConfig struct {
	WindowMS    int `yaml:"windowMs"`
	MaxRequests int `yaml:"maxRequests"`
}

type APIConfig struct {
	BaseURL string `yaml:"baseURL"`
	// Per-request timeout; 0 means requests may block indefinitely.
	TimeoutMS int `yaml:"timeoutMs"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	DefaultBaseURL = "https://api.twitter.com/2"
)

var (
	validEnvs      = []string{EnvDevelopment, EnvProduction, EnvTest}
	validLogLevels = []string{"error", "warn", "info", "debug"}
)

// ConfigurationError reports every missing or invalid setting found during validation.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + strings.Join(e.Problems, "; ")
}

// Default returns the configuration with every optional value at its default.
func Default() Config {
	return Config{
		Server:    ServerConfig{Env: EnvProduction, LogLevel: "info"},
		RateLimit: RateLimitConfig{WindowMS: 900000, MaxRequests: 300},
		API:       APIConfig{BaseURL: DefaultBaseURL},
	}
}

// IsDevelopment reports whether the server runs in development mode.
func (c Config) IsDevelopment() bool { return c.Server.Env == EnvDevelopment }

// IsProduction reports whether the server runs in production mode.
func (c Config) IsProduction() bool { return c.Server.Env == EnvProduction }

// ResolveEnv overrides config fields with environment variables that are set.
// Numeric values that fail to parse are recorded and reported by Validate.
func (c *Config) ResolveEnv(getenv func(string) string) []string {
	if getenv == nil {
		getenv = os.Getenv
	}
	var bad []string
	setStr := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := strings.TrimSpace(getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}
	setInt := func(dst *int, key string) {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			bad = append(bad, fmt.Sprintf("%s must be a number, got %q", key, v))
			return
		}
		*dst = n
	}

	setStr(&c.Credentials.APIKey, "TWITTER_API_KEY")
	setStr(&c.Credentials.APISecret, "TWITTER_API_SECRET")
	setStr(&c.Credentials.AccessToken, "TWITTER_ACCESS_TOKEN")
	setStr(&c.Credentials.AccessTokenSecret, "TWITTER_ACCESS_TOKEN_SECRET")
	setStr(&c.Credentials.BearerToken, "TWITTER_BEARER_TOKEN")
	setStr(&c.Server.Env, "APP_ENV", "NODE_ENV")
	setStr(&c.Server.LogLevel, "LOG_LEVEL")
	setInt(&c.RateLimit.WindowMS, "RATE_LIMIT_WINDOW_MS")
	setInt(&c.RateLimit.MaxRequests, "RATE_LIMIT_MAX_REQUESTS")
	setStr(&c.API.BaseURL, "X_API_BASE_URL")
	setInt(&c.API.TimeoutMS, "X_API_TIMEOUT_MS")
	setStr(&c.Metrics.Addr, "METRICS_ADDR")
	return bad
}

// Validate checks required credentials and enumerated values.
func (c Config) Validate() error {
	var problems []string
	required := []struct {
		key, val string
	}{
		{"TWITTER_API_KEY", c.Credentials.APIKey},
		{"TWITTER_API_SECRET", c.Credentials.APISecret},
		{"TWITTER_ACCESS_TOKEN", c.Credentials.AccessToken},
		{"TWITTER_ACCESS_TOKEN_SECRET", c.Credentials.AccessTokenSecret},
		{"TWITTER_BEARER_TOKEN", c.Credentials.BearerToken},
	}
	for _, r := range required {
		if r.val == "" {
			problems = append(problems, r.key+" is required")
		}
	}
	if !oneOf(c.Server.Env, validEnvs) {
		problems = append(problems, fmt.Sprintf("APP_ENV must be one of [%s], got %q", strings.Join(validEnvs, ", "), c.Server.Env))
	}
	if !oneOf(c.Server.LogLevel, validLogLevels) {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of [%s], got %q", strings.Join(validLogLevels, ", "), c.Server.LogLevel))
	}
	if c.API.TimeoutMS < 0 {
		problems = append(problems, "X_API_TIMEOUT_MS must not be negative")
	}
	if len(problems) > 0 {
		return &ConfigurationError{Problems: problems}
	}
	return nil
}

// FromEnv builds a config from defaults and the process environment.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	return finish(cfg, getenv)
}

// Load reads YAML config from path, then applies environment overrides and validates.
// An empty path behaves like FromEnv.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if path == "" {
		return finish(cfg, getenv)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return finish(cfg, getenv)
}

func finish(cfg Config, getenv func(string) string) (Config, error) {
	bad := cfg.ResolveEnv(getenv)
	err := cfg.Validate()
	if len(bad) > 0 {
		var ce *ConfigurationError
		if errors.As(err, &ce) {
			ce.Problems = append(bad, ce.Problems...)
		} else {
			err = &ConfigurationError{Problems: bad}
		}
	}
	return cfg, err
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

func oneOf(v string, set []string) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}
	return false
}
