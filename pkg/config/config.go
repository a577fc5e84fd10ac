package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// DCA simulator defaults (CLI flags and API query params override)
	DCA DCAConfig

	// API upload limits
	API APIConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DCAConfig holds simulator defaults
type DCAConfig struct {
	WeeklyBudget string // decimal string, parsed by the caller
	DateFormat   string // dd/mm/yyyy | mm/dd/yyyy
	TrailingDays int    // 0 = whole file
}

// APIConfig holds HTTP upload limits
type APIConfig struct {
	MaxUploadBytes int64
	RateLimit      float64 // requests per second
	RateBurst      int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// Accepted values of DCAConfig.DateFormat
const (
	DateFormatDayFirst   = "dd/mm/yyyy"
	DateFormatMonthFirst = "mm/dd/yyyy"
)

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		DCA: DCAConfig{
			WeeklyBudget: getEnv("DCA_WEEKLY_BUDGET", "100"),
			DateFormat:   getEnv("DCA_DATE_FORMAT", DateFormatDayFirst),
			TrailingDays: getEnvAsInt("DCA_TRAILING_DAYS", 0),
		},

		API: APIConfig{
			MaxUploadBytes: getEnvAsInt64("MAX_UPLOAD_BYTES", 10<<20),
			RateLimit:      getEnvAsFloat("API_RATE_LIMIT", 5),
			RateBurst:      getEnvAsInt("API_RATE_BURST", 10),
			ReadTimeout:    getEnvAsDuration("API_READ_TIMEOUT", "15s"),
			WriteTimeout:   getEnvAsDuration("API_WRITE_TIMEOUT", "15s"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when no environment is available
// (library callers, tests).
func Default() *Config {
	return &Config{
		Port: "8089",
		Env:  "development",
		DCA: DCAConfig{
			WeeklyBudget: "100",
			DateFormat:   DateFormatDayFirst,
		},
		API: APIConfig{
			MaxUploadBytes: 10 << 20,
			RateLimit:      5,
			RateBurst:      10,
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
		},
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// validate checks if configuration values are usable
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.DCA.DateFormat != DateFormatDayFirst && c.DCA.DateFormat != DateFormatMonthFirst {
		return fmt.Errorf("DCA_DATE_FORMAT must be %s or %s", DateFormatDayFirst, DateFormatMonthFirst)
	}

	if c.DCA.TrailingDays < 0 {
		return fmt.Errorf("DCA_TRAILING_DAYS must be >= 0")
	}

	if c.API.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be > 0")
	}

	if c.API.RateLimit <= 0 || c.API.RateBurst <= 0 {
		return fmt.Errorf("API_RATE_LIMIT and API_RATE_BURST must be > 0")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
