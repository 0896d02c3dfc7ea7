package ratelimit

import (
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path; a trailing "/" matches by prefix
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window; 0 is unlimited
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration // Buckets unused for this long are dropped
	Allowlist       map[string]bool
	Denylist        map[string]bool
	EndpointConfigs []EndpointConfig
}

// LoadConfig builds the rate limiting configuration from environment
// variables read through getenv.
func LoadConfig(getenv func(string) string) *Config {
	env := envReader(getenv)
	if !env.getBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.getInt("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   env.getDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.getDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTTL:         env.getDuration("RATE_LIMIT_IDLE_TTL", time.Hour),
		Allowlist:       parseIPList(env.getString("RATE_LIMIT_ALLOWLIST", "")),
		Denylist:        parseIPList(env.getString("RATE_LIMIT_DENYLIST", "")),
		EndpointConfigs: DefaultEndpointConfigs(
			env.getInt("RATE_LIMIT_UPLOAD_PER_MINUTE", 20),
			env.getInt("RATE_LIMIT_RESUME_PER_MINUTE", 30),
		),
	}
}

// DefaultEndpointConfigs returns the per-endpoint tiers. Uploads create
// records and resume fetches start a browser and are the only place tokens
// can be guessed, so both are held well below the default.
func DefaultEndpointConfigs(uploadsPerMinute, resumesPerMinute int) []EndpointConfig {
	return []EndpointConfig{
		{Path: "/upload", Method: "POST", Limit: uploadsPerMinute, Window: time.Minute, Burst: 5},
		{Path: "/resume", Method: "GET", Limit: resumesPerMinute, Window: time.Minute, Burst: 5},
		{Path: "/static/", Method: "GET", Limit: 1200, Window: time.Minute, Burst: 100},
	}
}

type envReader func(string) string

func (e envReader) getString(key, def string) string {
	if v := strings.TrimSpace(e(key)); v != "" {
		return v
	}
	return def
}

func (e envReader) getInt(key string, def int) int {
	if v, err := strconv.Atoi(e.getString(key, "")); err == nil {
		return v
	}
	return def
}

func (e envReader) getBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(e.getString(key, "")); err == nil {
		return v
	}
	return def
}

func (e envReader) getDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(e.getString(key, "")); err == nil {
		return v
	}
	return def
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
