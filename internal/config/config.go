// Package config provides configuration loading and validation for the server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds everything the server needs to run. Values come from a JSON
// file, environment variables, or both; the environment wins.
type Config struct {
	// Server
	Port string `json:"port,omitempty"` // HTTP listen port

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// AI backends
	GoogleAPIKey       string `json:"google_api_key,omitempty"`        // Gemini API key
	GoogleVisionAPIKey string `json:"google_vision_api_key,omitempty"` // Vision OCR key; empty enables the local PDF fallback

	// Matching limits
	MaxApplicants       int `json:"max_applicants,omitempty"`        // applicant pool cap per jobToApplicants run
	MaxJobs             int `json:"max_jobs,omitempty"`              // job pool cap per applicantToJobs run
	MatchMaxConcurrency int `json:"match_max_concurrency,omitempty"` // simultaneous per-item pipelines
}

// Defaults returns the configuration used when nothing else is specified.
func Defaults() Config {
	return Config{
		Port:                "8080",
		MaxApplicants:       10,
		MaxJobs:             20,
		MatchMaxConcurrency: 10,
	}
}

// LoadFile loads configuration from a JSON file.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables. Callers wanting .env
// support should run godotenv.Load first.
func FromEnv() Config {
	cfg := Config{
		Port:               os.Getenv("PORT"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		GoogleAPIKey:       os.Getenv("GOOGLE_API_KEY"),
		GoogleVisionAPIKey: os.Getenv("GOOGLE_VISION_API_KEY"),
	}
	cfg.MaxApplicants = envInt("MATCH_MAX_APPLICANTS")
	cfg.MaxJobs = envInt("MATCH_MAX_JOBS")
	cfg.MatchMaxConcurrency = envInt("MATCH_MAX_CONCURRENCY")
	return cfg
}

func envInt(key string) int {
	raw := os.Getenv(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == "" {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.GoogleAPIKey == "" {
		result.GoogleAPIKey = defaults.GoogleAPIKey
	}
	if result.GoogleVisionAPIKey == "" {
		result.GoogleVisionAPIKey = defaults.GoogleVisionAPIKey
	}

	if result.MaxApplicants == 0 {
		result.MaxApplicants = defaults.MaxApplicants
	}
	if result.MaxJobs == 0 {
		result.MaxJobs = defaults.MaxJobs
	}
	if result.MatchMaxConcurrency == 0 {
		result.MatchMaxConcurrency = defaults.MatchMaxConcurrency
	}

	return result
}

// Validate checks that the configuration can actually run the server.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: DATABASE_URL is required")
	}
	if c.GoogleAPIKey == "" {
		return fmt.Errorf("config error: GOOGLE_API_KEY is required")
	}
	if c.MaxApplicants < 0 {
		return fmt.Errorf("config error: 'max_applicants' must be non-negative")
	}
	if c.MaxJobs < 0 {
		return fmt.Errorf("config error: 'max_jobs' must be non-negative")
	}
	if c.MatchMaxConcurrency < 0 {
		return fmt.Errorf("config error: 'match_max_concurrency' must be non-negative")
	}
	return nil
}
