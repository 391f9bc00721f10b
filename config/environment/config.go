package environment

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar points at an optional YAML file layered between defaults and env.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultProxyURL is the local completion proxy used when UPSTREAM_URL is not set.
const DefaultProxyURL = "http://localhost:8888/.netlify/functions/claude"

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Log      LogConfig      `koanf:"log"`
	Upstream UpstreamConfig `koanf:"upstream"`
	Storage  StorageConfig  `koanf:"storage"`
	Session  SessionConfig  `koanf:"session"`
}

type ServerConfig struct {
	Port        string   `koanf:"port"`
	GinMode     string   `koanf:"gin_mode"`
	CORSOrigins []string `koanf:"cors_origins"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type UpstreamConfig struct {
	Provider   string        `koanf:"provider"`
	URL        string        `koanf:"url"`
	APIKey     string        `koanf:"api_key"`
	Model      string        `koanf:"model"`
	Timeout    time.Duration `koanf:"timeout"`
	RatePerSec float64       `koanf:"rate_per_sec"`
	Burst      int           `koanf:"burst"`
}

type StorageConfig struct {
	Driver                    string `koanf:"driver"`
	BadgerPath                string `koanf:"badger_path"`
	FirebaseCredentialsBase64 string `koanf:"firebase_credentials_base64"`
	FirebaseProjectID         string `koanf:"firebase_project_id"`
}

type SessionConfig struct {
	Secret          string        `koanf:"secret"`
	IdleTTL         time.Duration `koanf:"idle_ttl"`
	ConfirmDebounce time.Duration `koanf:"confirm_debounce"`
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:        "8080",
			GinMode:     "release",
			CORSOrigins: []string{"*"},
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Upstream: UpstreamConfig{
			Provider:   "proxy",
			URL:        DefaultProxyURL,
			Model:      "",
			Timeout:    60 * time.Second,
			RatePerSec: 5,
			Burst:      5,
		},
		Storage: StorageConfig{
			Driver:     "memory",
			BadgerPath: "data/sessions",
		},
		Session: SessionConfig{
			Secret:          "",
			IdleTTL:         2 * time.Hour,
			ConfirmDebounce: 500 * time.Millisecond,
		},
	}
}

// envKeys maps the flat environment names onto koanf paths.
var envKeys = map[string]string{
	"port":                        "server.port",
	"gin_mode":                    "server.gin_mode",
	"cors_origins":                "server.cors_origins",
	"log_level":                   "log.level",
	"log_format":                  "log.format",
	"upstream_provider":           "upstream.provider",
	"upstream_url":                "upstream.url",
	"upstream_api_key":            "upstream.api_key",
	"upstream_model":              "upstream.model",
	"upstream_timeout":            "upstream.timeout",
	"upstream_rate_per_sec":       "upstream.rate_per_sec",
	"upstream_burst":              "upstream.burst",
	"storage_driver":              "storage.driver",
	"badger_path":                 "storage.badger_path",
	"firebase_credentials_base64": "storage.firebase_credentials_base64",
	"firebase_project_id":         "storage.firebase_project_id",
	"session_secret":              "session.secret",
	"session_idle_ttl":            "session.idle_ttl",
	"confirm_debounce":            "session.confirm_debounce",
}

func envTransform(key string) string {
	if path, ok := envKeys[strings.ToLower(key)]; ok {
		return path
	}
	// unknown variables are dropped
	return ""
}

// Load reads .env (if any), then layers defaults, the optional YAML file and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// comma separated lists arrive from the environment as one string
	if raw := k.String("server.cors_origins"); raw != "" && strings.Contains(raw, ",") {
		if err := k.Set("server.cors_origins", splitList(raw)); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) Validate() error {
	switch c.Upstream.Provider {
	case "proxy":
		if c.Upstream.URL == "" {
			return errors.New("UPSTREAM_URL is required for the proxy provider")
		}
	case "openai", "gemini":
		if c.Upstream.APIKey == "" {
			return fmt.Errorf("UPSTREAM_API_KEY is required for the %s provider", c.Upstream.Provider)
		}
	default:
		return fmt.Errorf("unknown upstream provider %q", c.Upstream.Provider)
	}

	switch c.Storage.Driver {
	case "memory":
	case "badger":
		if c.Storage.BadgerPath == "" {
			return errors.New("BADGER_PATH is required for the badger driver")
		}
	case "firestore":
		if c.Storage.FirebaseCredentialsBase64 == "" {
			return errors.New("FIREBASE_CREDENTIALS_BASE64 environment variable is missing")
		}
		if c.Storage.FirebaseProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID environment variable is missing")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Upstream.RatePerSec <= 0 || c.Upstream.Burst <= 0 {
		return errors.New("upstream rate and burst must be positive")
	}
	if c.Session.ConfirmDebounce < 0 {
		return errors.New("CONFIRM_DEBOUNCE must not be negative")
	}
	return nil
}
