package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the chat binary needs from the environment.
type Config struct {
	// Storage
	DataBackend  string
	SQLiteDBPath string

	// Language-understanding service
	GeminiModel    string
	RequestTimeout time.Duration

	// Conversation
	HistorySize int
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DataBackend:    getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", "./data/finchat.db"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		HistorySize:    getEnvInt("HISTORY_SIZE", 10),
	}
}

// Validate checks the configuration and returns an error listing every
// problem found.
func (c *Config) Validate() error {
	var problems []string

	switch c.DataBackend {
	case "sqlite", "memory":
	default:
		problems = append(problems, fmt.Sprintf("invalid data backend %q: must be sqlite or memory", c.DataBackend))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			problems = append(problems, "SQLite database path cannot be empty when using the sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					problems = append(problems, fmt.Sprintf("cannot create database directory %q: %v", dir, err))
				}
			}
		}
	}

	if c.GeminiModel == "" {
		problems = append(problems, "Gemini model name cannot be empty")
	}
	if c.RequestTimeout <= 0 {
		problems = append(problems, "request timeout must be positive")
	}
	if c.HistorySize < 1 {
		problems = append(problems, "history size must be at least 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
