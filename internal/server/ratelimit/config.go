package ratelimit

import (
	"os"
	"strconv"
	"time"
)

// EndpointConfig is the rate limit for one endpoint. Paths ending in "/"
// match by prefix.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int // requests per window
	Window time.Duration
	Burst  int // burst capacity, defaults to Limit
}

// Config holds limiter-wide settings.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	EndpointConfigs []EndpointConfig
}

// LoadConfig reads limiter settings from the environment.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs tiers the API by cost.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: AI pipelines. A single aiMatch run can fan out to ten
		// model calls, so these get the strictest caps.
		{Path: "/api/aiMatch", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/api/extractCV", Method: "POST", Limit: 60, Window: time.Hour, Burst: 5},
		{Path: "/api/draftEmail", Method: "POST", Limit: 60, Window: time.Hour, Burst: 5},
		{Path: "/api/cvChat", Method: "POST", Limit: 120, Window: time.Hour, Burst: 10},

		// Tier 2: write operations.
		{Path: "/api/applicants", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/applicants/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/applicants/", Method: "PATCH", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/applicants/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/jobs", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/jobs/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/jobs/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},

		// Tier 3: reads fall through to the default limit.
		// Tier 4: /health is unthrottled via the matcher special case.
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
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
