package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Retention.Std())
	assert.Equal(t, 60*time.Second, cfg.RenderTimeout.Std())
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, `{
		"port": 9090,
		"store": {"backend": "postgres", "database_url": "postgres://localhost/resumes"},
		"retention": "15m",
		"log": {"level": "debug", "format": "pretty"}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres", cfg.Store.Backend)
	assert.Equal(t, "postgres://localhost/resumes", cfg.Store.DatabaseURL)
	assert.Equal(t, 15*time.Minute, cfg.Retention.Std())
	assert.Equal(t, DefaultRenderTimeout, cfg.RenderTimeout.Std(), "unset fields keep defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_NumericDuration(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{"render_timeout": 1.5}`))
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.RenderTimeout.Std())
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `{"retention": "ten minutes"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{ invalid json }`))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"PORT":           "3000",
		"STORE_BACKEND":  "Redis",
		"REDIS_URL":      "redis://localhost:6379/0",
		"RETENTION":      "5m",
		"RENDER_TIMEOUT": "30s",
		"CHROME_PATH":    "/usr/bin/chromium",
		"LOG_LEVEL":      "warn",
		"LOG_FORMAT":     "PRETTY",
	}))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Store.RedisURL)
	assert.Equal(t, 5*time.Minute, cfg.Retention.Std())
	assert.Equal(t, 30*time.Second, cfg.RenderTimeout.Std())
	assert.Equal(t, "/usr/bin/chromium", cfg.ChromePath)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "pretty", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv_EmptyKeepsValues(t *testing.T) {
	cfg := Default()
	cfg.Store.DatabaseURL = "postgres://from-file"
	require.NoError(t, cfg.ApplyEnv(envMap(map[string]string{"DATABASE_URL": "  "})))
	assert.Equal(t, "postgres://from-file", cfg.Store.DatabaseURL)
}

func TestApplyEnv_Invalid(t *testing.T) {
	tests := map[string]string{
		"PORT":           "eighty",
		"RETENTION":      "soon",
		"RENDER_TIMEOUT": "-",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			cfg := Default()
			err := cfg.ApplyEnv(envMap(map[string]string{key: value}))
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Store.Backend = "sqlite" },
			wantErr: "must be one of",
		},
		{
			name:    "postgres without url",
			mutate:  func(c *Config) { c.Store.Backend = "postgres" },
			wantErr: "'Store.DatabaseURL' is required when store backend is postgres",
		},
		{
			name:    "redis without url",
			mutate:  func(c *Config) { c.Store.Backend = "redis" },
			wantErr: "'Store.RedisURL' is required when store backend is redis",
		},
		{
			name:    "zero retention",
			mutate:  func(c *Config) { c.Retention = 0 },
			wantErr: "'Retention' must be positive",
		},
		{
			name:    "negative render timeout",
			mutate:  func(c *Config) { c.RenderTimeout = Duration(-time.Second) },
			wantErr: "'RenderTimeout' must be positive",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Port = 70000 },
			wantErr: "'Port' is out of range",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: "'Log.Format' must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config error")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_MemoryIgnoresURLs(t *testing.T) {
	cfg := Default()
	cfg.Store.RedisURL = ""
	cfg.Store.DatabaseURL = ""
	assert.NoError(t, cfg.Validate())
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := Duration(90 * time.Second).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}
