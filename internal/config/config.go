// Package config loads server configuration from a YAML file with
// environment-variable overrides for deployment settings.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the top-level server configuration
type Config struct {
	Server   Server   `yaml:"server"`
	Storage  Storage  `yaml:"storage"`
	OCR      OCR      `yaml:"ocr"`
	Receipts Receipts `yaml:"receipts"`
	Uploads  Uploads  `yaml:"uploads"`
	LogLevel string   `yaml:"log_level"`
}

// Server holds HTTP listener settings
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Storage selects and configures the storage backend
type Storage struct {
	// Type is one of "memory", "redis" or "bolt"
	Type string `yaml:"type"`

	RedisURL string `yaml:"redis_url"`
	BoltPath string `yaml:"bolt_path"`
}

// OCR configures the text-recognition provider
type OCR struct {
	// Provider is "gemini" or "none". With "none", clients must supply
	// recognized text themselves via the extract endpoint.
	Provider     string `yaml:"provider"`
	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`
}

// Receipts configures the receipt image file store
type Receipts struct {
	Dir string `yaml:"dir"`
}

// Uploads configures per-client upload rate limiting
type Uploads struct {
	RatePerSecond float64 `yaml:"rate_per_second"`
	Burst         int     `yaml:"burst"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Server: Server{
			Host: "",
			Port: 8080,
		},
		Storage: Storage{
			Type:     "memory",
			RedisURL: "redis://localhost:6379",
			BoltPath: "data/tabsplit.db",
		},
		OCR: OCR{
			Provider: "none",
		},
		Receipts: Receipts{
			Dir: "data/receipts",
		},
		Uploads: Uploads{
			RatePerSecond: 0.2,
			Burst:         3,
		},
		LogLevel: "info",
	}
}

// Load reads configuration from the given path, falling back to
// defaults when the path is empty or the file does not exist, then
// applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TABSPLIT_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("TABSPLIT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("TABSPLIT_STORAGE"); v != "" {
		c.Storage.Type = v
	}
	if v := os.Getenv("TABSPLIT_REDIS_URL"); v != "" {
		c.Storage.RedisURL = v
	}
	if v := os.Getenv("TABSPLIT_BOLT_PATH"); v != "" {
		c.Storage.BoltPath = v
	}
	if v := os.Getenv("TABSPLIT_OCR_PROVIDER"); v != "" {
		c.OCR.Provider = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.OCR.GeminiAPIKey = v
	}
	if v := os.Getenv("TABSPLIT_RECEIPTS_DIR"); v != "" {
		c.Receipts.Dir = v
	}
	if v := os.Getenv("TABSPLIT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) validate() error {
	switch c.Storage.Type {
	case "memory", "redis", "bolt":
	default:
		return fmt.Errorf("invalid storage type %q: must be memory, redis or bolt", c.Storage.Type)
	}

	switch c.OCR.Provider {
	case "none", "gemini":
	default:
		return fmt.Errorf("invalid ocr provider %q: must be none or gemini", c.OCR.Provider)
	}

	if c.OCR.Provider == "gemini" && c.OCR.GeminiAPIKey == "" {
		return fmt.Errorf("gemini ocr provider requires an api key")
	}
	return nil
}
