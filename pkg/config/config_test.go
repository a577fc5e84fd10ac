package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check defaults
	if cfg.Port != "8089" {
		t.Errorf("Expected Port to be 8089, got %s", cfg.Port)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.DCA.DateFormat != DateFormatDayFirst {
		t.Errorf("Expected DateFormat to be %s, got %s", DateFormatDayFirst, cfg.DCA.DateFormat)
	}

	if cfg.API.MaxUploadBytes != 10<<20 {
		t.Errorf("Expected MaxUploadBytes to be 10MiB, got %d", cfg.API.MaxUploadBytes)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("DCA_WEEKLY_BUDGET", "250.50")
	t.Setenv("DCA_DATE_FORMAT", DateFormatMonthFirst)
	t.Setenv("DCA_TRAILING_DAYS", "90")
	t.Setenv("API_RATE_LIMIT", "2.5")
	t.Setenv("API_READ_TIMEOUT", "3s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be 9000, got %s", cfg.Port)
	}

	if cfg.DCA.WeeklyBudget != "250.50" {
		t.Errorf("Expected WeeklyBudget to be 250.50, got %s", cfg.DCA.WeeklyBudget)
	}

	if cfg.DCA.TrailingDays != 90 {
		t.Errorf("Expected TrailingDays to be 90, got %d", cfg.DCA.TrailingDays)
	}

	if cfg.API.RateLimit != 2.5 {
		t.Errorf("Expected RateLimit to be 2.5, got %v", cfg.API.RateLimit)
	}

	if cfg.API.ReadTimeout != 3*time.Second {
		t.Errorf("Expected ReadTimeout to be 3s, got %v", cfg.API.ReadTimeout)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("Expected LogLevel to be debug, got %s", cfg.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad env", func(c *Config) { c.Env = "qa" }},
		{"bad date format", func(c *Config) { c.DCA.DateFormat = "yyyy-mm-dd" }},
		{"negative trailing days", func(c *Config) { c.DCA.TrailingDays = -1 }},
		{"zero upload limit", func(c *Config) { c.API.MaxUploadBytes = 0 }},
		{"zero rate", func(c *Config) { c.API.RateLimit = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.validate(); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}

	if err := Default().validate(); err != nil {
		t.Errorf("Default() should be valid, got %v", err)
	}
}

func TestGetEnvAsIntFallback(t *testing.T) {
	t.Setenv("DCA_TRAILING_DAYS", "not-a-number")

	if got := getEnvAsInt("DCA_TRAILING_DAYS", 30); got != 30 {
		t.Errorf("Expected fallback 30, got %d", got)
	}
}
