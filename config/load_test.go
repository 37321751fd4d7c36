package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.Server.BaseURL)
	assert.Equal(t, DefaultTimeoutSeconds, cfg.Server.TimeoutSeconds)
	assert.Zero(t, cfg.Server.RequestsPerSecond)
	assert.False(t, cfg.Logging.JSON)
	assert.Empty(t, cfg.Server.Username)
	assert.Empty(t, cfg.Server.APIToken)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "d2.toml")
	content := `
[server]
base_url = "https://play.dhis2.org/demo"
username = "admin"
password = "district"
timeout_seconds = 30
requests_per_second = 5.0

[logging]
json = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://play.dhis2.org/demo", cfg.Server.BaseURL)
	assert.Equal(t, "admin", cfg.Server.Username)
	assert.Equal(t, "district", cfg.Server.Password)
	assert.Equal(t, 30, cfg.Server.TimeoutSeconds)
	assert.Equal(t, 5.0, cfg.Server.RequestsPerSecond)
	assert.True(t, cfg.Logging.JSON)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadCachesGlobal(t *testing.T) {
	Reset()
	defer Reset()

	first, err := Load()
	require.NoError(t, err)

	second, err := Load()
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestEnvOverride(t *testing.T) {
	Reset()
	defer Reset()

	t.Setenv("D2_BASE_URL", "https://dhis2.example.org")
	t.Setenv("D2_API_TOKEN", "d2pat_secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://dhis2.example.org", cfg.Server.BaseURL)
	assert.Equal(t, "d2pat_secret", cfg.Server.APIToken)
}
