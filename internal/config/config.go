// Package config provides configuration loading and validation for the
// service and CLI.
//
// Values are layered: built-in defaults, then an optional JSON file, then
// environment variables, then CLI flags applied by the caller.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-pdf/internal/logging"
)

// Defaults
const (
	DefaultPort          = 8080
	DefaultBackend       = "memory"
	DefaultRetention     = 10 * time.Minute
	DefaultRenderTimeout = 60 * time.Second
)

// Config represents the service configuration that can be loaded from a JSON file.
type Config struct {
	Port          int            `json:"port,omitempty" validate:"min=1,max=65535"`
	Store         StoreConfig    `json:"store"`
	Retention     Duration       `json:"retention,omitempty" validate:"gt=0"`      // How long submissions stay retrievable
	RenderTimeout Duration       `json:"render_timeout,omitempty" validate:"gt=0"` // Upper bound for one PDF render
	ChromePath    string         `json:"chrome_path,omitempty"`                    // Chrome binary; empty searches PATH
	Log           logging.Config `json:"log"`
}

// StoreConfig selects and configures the submission store
type StoreConfig struct {
	Backend     string `json:"backend,omitempty" validate:"oneof=memory postgres redis"`
	DatabaseURL string `json:"database_url,omitempty" validate:"required_if=Backend postgres"` // PostgreSQL connection URL
	RedisURL    string `json:"redis_url,omitempty" validate:"required_if=Backend redis"`       // redis:// URL
}

// Duration is a time.Duration that reads from JSON as a string such as "10m"
// or as a number of seconds.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var seconds float64
	if err := json.Unmarshal(b, &seconds); err != nil {
		return fmt.Errorf("invalid duration %s", string(b))
	}
	*d = Duration(time.Duration(seconds * float64(time.Second)))
	return nil
}

// Default returns the configuration used when nothing else is specified.
func Default() Config {
	return Config{
		Port:          DefaultPort,
		Store:         StoreConfig{Backend: DefaultBackend},
		Retention:     Duration(DefaultRetention),
		RenderTimeout: Duration(DefaultRenderTimeout),
		Log:           logging.Config{Level: "info", Format: logging.FormatJSON},
	}
}

// LoadConfig loads configuration from a JSON file on top of the defaults.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
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

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load returns the defaults, overlaid with the file at path when path is
// not empty, overlaid with environment variables.
func Load(path string) (*Config, error) {
	var cfg *Config
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		d := Default()
		cfg = &d
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables. Unset or empty
// variables leave the current value in place.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	get := func(key string) string {
		return strings.TrimSpace(getenv(key))
	}

	if v := get("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: PORT must be an integer: %w", err)
		}
		c.Port = port
	}
	if v := get("STORE_BACKEND"); v != "" {
		c.Store.Backend = strings.ToLower(v)
	}
	if v := get("DATABASE_URL"); v != "" {
		c.Store.DatabaseURL = v
	}
	if v := get("REDIS_URL"); v != "" {
		c.Store.RedisURL = v
	}
	if v := get("RETENTION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config error: RETENTION: %w", err)
		}
		c.Retention = Duration(d)
	}
	if v := get("RENDER_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config error: RENDER_TIMEOUT: %w", err)
		}
		c.RenderTimeout = Duration(d)
	}
	if v := get("CHROME_PATH"); v != "" {
		c.ChromePath = v
	}
	if v := get("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := get("LOG_FORMAT"); v != "" {
		c.Log.Format = strings.ToLower(v)
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	validate := validator.New()
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config error: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required_if":
		return fmt.Sprintf("'%s' is required when store backend is %s", field, fe.Param()[strings.LastIndex(fe.Param(), " ")+1:])
	case "oneof":
		return fmt.Sprintf("'%s' must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("'%s' must be positive", field)
	case "min", "max":
		return fmt.Sprintf("'%s' is out of range", field)
	default:
		return fmt.Sprintf("'%s' failed '%s'", field, fe.Tag())
	}
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
