package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"buzzboard/internal/store/natsstore"
	"buzzboard/internal/store/redisstore"
)

// Config is the full boardd configuration. Values come from an optional yaml
// file with environment variables layered on top.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Store struct {
		// Backend selects the shared state store: "memory", "nats" or "redis".
		Backend string `yaml:"backend"`
		NATS    struct {
			URL    string `yaml:"url"`
			Bucket string `yaml:"bucket"`
		} `yaml:"nats"`
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"store"`
	PrefsDir string `yaml:"prefs_dir"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func loadConfig(path string) (*Config, error) {
	var config Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Environment overrides and defaults.
	config.Server.Port = getEnv("PORT", defaultString(config.Server.Port, "8080"))
	config.Store.Backend = getEnv("STORE_BACKEND", defaultString(config.Store.Backend, "memory"))
	config.Store.NATS.URL = getEnv("NATS_URL", defaultString(config.Store.NATS.URL, natsstore.DefaultConfig().URL))
	config.Store.NATS.Bucket = getEnv("NATS_BUCKET", defaultString(config.Store.NATS.Bucket, natsstore.DefaultConfig().Bucket))
	config.Store.Redis.Addr = getEnv("REDIS_ADDR", defaultString(config.Store.Redis.Addr, redisstore.DefaultConfig().Addr))
	config.Store.Redis.Password = getEnv("REDIS_PASSWORD", config.Store.Redis.Password)
	config.Store.Redis.DB = getEnvAsInt("REDIS_DB", config.Store.Redis.DB)
	config.PrefsDir = getEnv("PREFS_DIR", defaultString(config.PrefsDir, ".boardd"))

	switch config.Store.Backend {
	case "memory", "nats", "redis":
	default:
		return nil, fmt.Errorf("unknown store backend %q", config.Store.Backend)
	}

	return &config, nil
}

func defaultString(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
