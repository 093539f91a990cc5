package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends for the access token.
const (
	KVBackendMemory   = "memory"
	KVBackendPostgres = "postgres"
	KVBackendRedis    = "redis"
)

// Config holds all configuration for the schedule client
type Config struct {
	Environment string
	APIBaseURL  string
	APITimeout  time.Duration
	AccessToken string

	KVBackend string
	KVTable   string
	DBUrl     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Load loads configuration from environment variables
// It attempts to load from .env file if not in production
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// In production the .env file is optional; system environment variables are used.
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment:   env,
		APIBaseURL:    getEnv("API_BASE_URL", "http://localhost:3000"),
		AccessToken:   os.Getenv("ACCESS_TOKEN"),
		KVBackend:     getEnv("KV_BACKEND", KVBackendMemory),
		KVTable:       getEnv("KV_TABLE", "kv_store"),
		DBUrl:         os.Getenv("DATABASE_URL"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisPrefix:   getEnv("REDIS_PREFIX", "calendar:"),
	}

	var err error
	if cfg.APITimeout, err = getEnvDuration("API_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}

	switch cfg.KVBackend {
	case KVBackendMemory, KVBackendRedis:
	case KVBackendPostgres:
		if cfg.DBUrl == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when KV_BACKEND=%s", KVBackendPostgres)
		}
	default:
		return nil, fmt.Errorf("unsupported KV_BACKEND %q", cfg.KVBackend)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}
