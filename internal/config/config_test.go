package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()

	v, err := New(home)
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, DirName), cfg.Dir)
	assert.Equal(t, "http://127.0.0.1:8000/api", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "default", cfg.Profile)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, 10, cfg.ItemsPerPage)
	assert.Equal(t, BackendChain, cfg.SecretsBackend)
	assert.Equal(t, filepath.Join(home, DirName, "secrets"), cfg.SecretsDir())
	assert.Equal(t, filepath.Join(home, DirName, "profiles.toml"), v.GetString(KeyProfilesPath))
}

func TestLoadReadsConfigFileAndEnvOverrides(t *testing.T) {
	home := t.TempDir()
	dir := filepath.Join(home, DirName)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
profile = "staging"

[api]
base_url = "https://admin.example.com/api"
timeout = "5s"

[activity]
items_per_page = 25
`), 0o600))
	t.Setenv("AD_API_BASE_URL", "http://localhost:9000/api")
	t.Setenv("AD_LOG_LEVEL", "debug")

	v, err := New(home)
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/api", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "staging", cfg.Profile)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 25, cfg.ItemsPerPage)
}

func TestNewRejectsMalformedConfigFile(t *testing.T) {
	home := t.TempDir()
	dir := filepath.Join(home, DirName)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[api\n"), 0o600))

	_, err := New(home)
	assert.ErrorContains(t, err, "read config")
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   any
		wantErr string
	}{
		{name: "log level", key: KeyLogLevel, value: "loud", wantErr: "invalid log.level"},
		{name: "timeout", key: KeyTimeout, value: "0s", wantErr: "api.timeout must be positive"},
		{name: "items per page", key: KeyItemsPerPage, value: 0, wantErr: "activity.items_per_page must be at least 1"},
		{name: "secrets backend", key: KeySecretsBackend, value: "vault", wantErr: "unsupported secrets.backend"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := New(t.TempDir())
			require.NoError(t, err)
			v.Set(tc.key, tc.value)

			_, err = Load(v)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestNewLoggerHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown", "path", "/tasks")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown path=/tasks")
}
