// Package config loads runtime settings from the environment with the
// defaults the volunteer-hours sheet and bucket were created with.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Backend names for the record source.
const (
	BackendGoogle = "google"
	BackendMemory = "memory"
)

type Config struct {
	// HTTP server
	Port string

	// Destination bucket
	BucketName string

	// Google service-account credentials (optional; falls back to
	// GOOGLE_APPLICATION_CREDENTIALS, then ambient ADC)
	CredentialsFile string

	// Source sheet. SpreadsheetID wins over SpreadsheetName when set.
	SpreadsheetID   string
	SpreadsheetName string
	WorksheetName   string

	// Backend selects the record source: google or memory. The memory
	// backend reads SeedFile when set, for credential-free runs.
	Backend  string
	SeedFile string

	// RequestTimeout bounds the fetch and each upload.
	RequestTimeout time.Duration
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		BucketName:      getEnv("BUCKET_NAME", "volunteer_hours"),
		CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
		SpreadsheetID:   getEnv("SPREADSHEET_ID", ""),
		SpreadsheetName: getEnv("SPREADSHEET_NAME", "PTA_Volunteer_Hours_2025-26"),
		WorksheetName:   getEnv("WORKSHEET_NAME", "hours"),
		Backend:         getEnv("DATA_BACKEND", BackendGoogle),
		SeedFile:        getEnv("SEED_FILE", ""),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
	}
}

// Validate returns an error listing every invalid setting.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.BucketName == "" {
		problems = append(problems, "bucket name cannot be empty")
	}

	switch c.Backend {
	case BackendGoogle:
		if c.SpreadsheetID == "" && c.SpreadsheetName == "" {
			problems = append(problems, "spreadsheet ID or name is required for the google backend")
		}
		if c.WorksheetName == "" {
			problems = append(problems, "worksheet name is required for the google backend")
		}
		if c.CredentialsFile != "" {
			if _, err := os.Stat(c.CredentialsFile); os.IsNotExist(err) {
				problems = append(problems, fmt.Sprintf("credentials file does not exist: %s", c.CredentialsFile))
			}
		}
	case BackendMemory:
		if c.SeedFile != "" {
			if _, err := os.Stat(c.SeedFile); os.IsNotExist(err) {
				problems = append(problems, fmt.Sprintf("seed file does not exist: %s", c.SeedFile))
			}
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid data backend '%s': must be one of [%s %s]", c.Backend, BackendGoogle, BackendMemory))
	}

	if c.RequestTimeout < time.Second {
		problems = append(problems, fmt.Sprintf("invalid request timeout %v: must be at least 1 second", c.RequestTimeout))
	} else if c.RequestTimeout > time.Hour {
		problems = append(problems, fmt.Sprintf("invalid request timeout %v: must be at most 1 hour", c.RequestTimeout))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
