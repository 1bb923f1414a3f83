package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// TMDB
	TMDBAPIKey   string
	TMDBBaseURL  string
	TMDBCacheTTL time.Duration // Revalidation window for catalog responses (default: 60 minutes)
	TMDBRetries  int           // Retries on 429/503 (default: 2, 0 disables)

	// Cache
	CacheBackend  string // "memory" or "redis"
	RedisAddr     string
	RedisPassword string

	// Database
	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseDSN    string // $CONFIG_DIR/cinelist.db when unset with sqlite

	// Server
	ServerPort string

	// Import and sessions
	ImportConcurrency int
	SessionIdle       time.Duration

	// Paths
	PreferencesFile string // $CONFIG_DIR/preferences.db

	// Logging
	LogLevel  string
	LogFile   string // rotated application log, stdout when empty
	AccessLog string // JSON access log path, stdout when "stdout", disabled when empty
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = v.ReadInConfig()

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3")
	v.SetDefault("TMDB_CACHE_TTL_MINUTES", 60)
	v.SetDefault("TMDB_MAX_RETRIES", 2)
	v.SetDefault("CACHE_BACKEND", "memory")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("IMPORT_CONCURRENCY", 8)
	v.SetDefault("SESSION_IDLE_MINUTES", 120)
	v.SetDefault("LOG_LEVEL", "info")

	configDir := v.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "cinelist")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		TMDBAPIKey:   v.GetString("TMDB_API_KEY"),
		TMDBBaseURL:  v.GetString("TMDB_BASE_URL"),
		TMDBCacheTTL: time.Duration(v.GetInt("TMDB_CACHE_TTL_MINUTES")) * time.Minute,
		TMDBRetries:  v.GetInt("TMDB_MAX_RETRIES"),

		CacheBackend:  v.GetString("CACHE_BACKEND"),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),

		DatabaseDriver: v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),

		ServerPort: v.GetString("SERVER_PORT"),

		ImportConcurrency: v.GetInt("IMPORT_CONCURRENCY"),
		SessionIdle:       time.Duration(v.GetInt("SESSION_IDLE_MINUTES")) * time.Minute,

		PreferencesFile: filepath.Join(configDir, "preferences.db"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFile:   v.GetString("LOG_FILE"),
		AccessLog: v.GetString("ACCESS_LOG"),
	}

	if config.DatabaseDSN == "" && config.DatabaseDriver == "sqlite" {
		config.DatabaseDSN = filepath.Join(configDir, "cinelist.db")
	}

	// Validate required fields
	if config.TMDBAPIKey == "" {
		return nil, fmt.Errorf("TMDB_API_KEY is required")
	}
	switch config.DatabaseDriver {
	case "sqlite":
	case "postgres":
		if config.DatabaseDSN == "" {
			return nil, fmt.Errorf("DATABASE_DSN is required for postgres")
		}
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", config.DatabaseDriver)
	}
	switch config.CacheBackend {
	case "memory":
	case "redis":
		if config.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required for the redis cache backend")
		}
	default:
		return nil, fmt.Errorf("unsupported CACHE_BACKEND %q", config.CacheBackend)
	}
	if config.ImportConcurrency < 1 {
		config.ImportConcurrency = 1
	}
	if config.TMDBRetries < 0 {
		config.TMDBRetries = 0
	}

	return config, nil
}
