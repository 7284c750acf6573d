package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config file location.
const ConfigPath = "config.yaml"

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	Port               string   `yaml:"port"`
	LogLevel           string   `yaml:"logLevel"`
	MediaAPIKey        string   `yaml:"mediaAPIKey"`
	MediaAPISecret     string   `yaml:"mediaAPISecret"`
	TokenTTLHours      int      `yaml:"tokenTTLHours"`
	DefaultRoom        string   `yaml:"defaultRoom"`
	RedisAddr          string   `yaml:"redisAddr"`
	RedisPassword      string   `yaml:"redisPassword"`
	RateLimitPerMinute int      `yaml:"rateLimitPerMinute"`
	TrustedProxies     []string `yaml:"trustedProxies"`
}

// Load reads config from path (defaults to config.yaml).
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	// Override with environment variables
	if v := os.Getenv("MEDIA_API_KEY"); v != "" {
		cfg.MediaAPIKey = v
	}
	if v := os.Getenv("MEDIA_API_SECRET"); v != "" {
		cfg.MediaAPISecret = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if cfg.DefaultRoom == "" {
		cfg.DefaultRoom = "gym-room"
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg FileConfig) error {
	if cfg.Port == "" {
		return errors.New("config: port is required (set in config.yaml)")
	}
	if cfg.MediaAPIKey == "" {
		return errors.New("config: mediaAPIKey is required (set in config.yaml or MEDIA_API_KEY)")
	}
	if cfg.MediaAPISecret == "" {
		return errors.New("config: mediaAPISecret is required (set in config.yaml or MEDIA_API_SECRET)")
	}
	if cfg.RedisAddr == "" {
		return errors.New("config: redisAddr is required (set in config.yaml or REDIS_ADDR)")
	}
	return nil
}
