package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_JSONDefaults(t *testing.T) {
	path := writeConfig(t, "config.json", `{"port": 8080, "galasa": {"api_server_url": "https://galasa.example.com/api/"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://galasa.example.com/api", cfg.Galasa.APIServerURL)
	require.Equal(t, DefaultClientAPIVersion, cfg.Galasa.ClientAPIVersion)
	require.Equal(t, DefaultMaxRecords, cfg.Galasa.MaxRecords)
	require.Equal(t, "http://localhost:8080", cfg.WebUIURL)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "local", cfg.FileStore.Type)
	require.Equal(t, "info", cfg.LogConfig.Level)
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
port: 9000
webui_url: https://ui.example.com/
galasa:
  api_server_url: https://galasa.example.com/api
  max_records: 5000
feature_flags:
  testRuns: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Port)
	require.Equal(t, "https://ui.example.com", cfg.WebUIURL)
	require.Equal(t, DefaultMaxRecords, cfg.Galasa.MaxRecords)
	require.True(t, cfg.FeatureFlags["testRuns"])
}

func TestLoad_Validation(t *testing.T) {
	_, err := Load(writeConfig(t, "a.json", `{"galasa": {"api_server_url": "x"}}`))
	require.ErrorContains(t, err, "port is required")

	_, err = Load(writeConfig(t, "b.json", `{"port": 1}`))
	require.ErrorContains(t, err, "api_server_url")

	_, err = Load(writeConfig(t, "c.json", `{"port": 1, "galasa": {"api_server_url": "x"}, "database": {"driver": "postgres"}}`))
	require.ErrorContains(t, err, "database.dsn")

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
