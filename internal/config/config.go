package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends understood by the server
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendR2       = "r2"
)

type Config struct {
	Port        string
	FrontendURL string
	LogLevel    string

	StorageBackend string
	StorageDir     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DatabaseURL string

	R2AccountID       string
	R2Bucket          string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2Prefix          string

	ClassesAPIURL string

	MockAIErrorRate float64
	MockAIMinDelay  time.Duration
	MockAIMaxDelay  time.Duration

	// Seed fixes the random source when non-zero
	Seed int64
}

// LoadDotEnv loads .env if present. A missing file is not an error.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARN: Error loading .env file: %v", err)
		} else {
			log.Println("INFO: .env file not found. Relying on system environment variables.")
		}
	}
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:5173"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		StorageBackend:    strings.ToLower(getEnv("STORAGE_BACKEND", BackendFile)),
		StorageDir:        getEnv("STORAGE_DIR", "data"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		R2AccountID:       getEnv("CLOUDFLARE_ACCOUNT_ID", ""),
		R2Bucket:          getEnv("R2_BUCKET_NAME", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2Prefix:          getEnv("R2_PREFIX", "linguaquiz/"),
		ClassesAPIURL:     strings.TrimRight(getEnv("CLASSES_API_URL", ""), "/"),
	}

	var err error
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.MockAIErrorRate, err = getEnvFloat("MOCK_AI_ERROR_RATE", 0.05); err != nil {
		return nil, err
	}
	if cfg.MockAIErrorRate < 0 || cfg.MockAIErrorRate > 1 {
		return nil, fmt.Errorf("MOCK_AI_ERROR_RATE must be between 0 and 1, got %v", cfg.MockAIErrorRate)
	}
	minMs, err := getEnvInt("MOCK_AI_MIN_DELAY_MS", 600)
	if err != nil {
		return nil, err
	}
	maxMs, err := getEnvInt("MOCK_AI_MAX_DELAY_MS", 1500)
	if err != nil {
		return nil, err
	}
	if minMs < 0 || maxMs < minMs {
		return nil, fmt.Errorf("invalid mock AI delay range %dms-%dms", minMs, maxMs)
	}
	cfg.MockAIMinDelay = time.Duration(minMs) * time.Millisecond
	cfg.MockAIMaxDelay = time.Duration(maxMs) * time.Millisecond

	seed, err := getEnvInt("SEED", 0)
	if err != nil {
		return nil, err
	}
	cfg.Seed = int64(seed)

	switch cfg.StorageBackend {
	case BackendMemory, BackendFile, BackendRedis:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable not set")
		}
	case BackendR2:
		if cfg.R2AccountID == "" || cfg.R2Bucket == "" || cfg.R2AccessKeyID == "" || cfg.R2SecretAccessKey == "" {
			return nil, fmt.Errorf("R2 storage requires CLOUDFLARE_ACCOUNT_ID, R2_BUCKET_NAME, R2_ACCESS_KEY_ID and R2_SECRET_ACCESS_KEY")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
