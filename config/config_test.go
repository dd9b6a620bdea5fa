package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("dev", "")
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Name)
	assert.Equal(t, 10*time.Second, cfg.Timeout())
	assert.Equal(t, 30*time.Second, cfg.APITimeout())
	assert.True(t, cfg.Debug)
	assert.False(t, cfg.TestDataCleanup)
}

func TestLoadFallsBackToEnvVarThenDev(t *testing.T) {
	t.Setenv(EnvVarEnvironment, "staging")
	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Name)

	t.Setenv(EnvVarEnvironment, "")
	cfg, err = Load("", "")
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Name)
}

func TestLoadRejectsUnknownEnvironment(t *testing.T) {
	_, err := Load("nonsense", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown environment")
}

func TestLoadOverlaysYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "environments.yaml")
	content := `
dev:
  baseUrl: http://localhost:9999/app
  timeoutSeconds: 42
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load("dev", path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999/app", cfg.BaseURL)
	assert.Equal(t, 42, cfg.TimeoutSeconds)
	// fields the file does not mention keep their defaults
	assert.Equal(t, "test_user@example.com", cfg.Username)
}

func TestLoadReportsMissingFile(t *testing.T) {
	_, err := Load("dev", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadReportsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n :::"), 0600))
	_, err := Load("dev", path)
	assert.Error(t, err)
}

func TestEnvVarOverrides(t *testing.T) {
	t.Setenv("WEBTEST_BASE_URL", "http://override:1234")
	t.Setenv("WEBTEST_USERNAME", "override_user")
	t.Setenv("WEBTEST_TIMEOUT_SECONDS", "99")
	t.Setenv("WEBTEST_DEBUG", "false")

	cfg, err := Load("dev", "")
	require.NoError(t, err)
	assert.Equal(t, "http://override:1234", cfg.BaseURL)
	assert.Equal(t, "override_user", cfg.Username)
	assert.Equal(t, 99, cfg.TimeoutSeconds)
	assert.False(t, cfg.Debug)
}

func TestEnvironmentNames(t *testing.T) {
	assert.Equal(t, []string{"dev", "prod", "staging"}, EnvironmentNames())
}
