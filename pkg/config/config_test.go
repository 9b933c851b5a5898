package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "EUR", cfg.SEPA.DefaultCurrency)
	assert.True(t, cfg.SEPA.MinorUnitHeuristic)
	assert.Equal(t, int64(10000), cfg.SEPA.MinorUnitThreshold)
	assert.True(t, cfg.SEPA.InjectAddresses)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("SEPA_DEFAULT_CURRENCY", "chf")
	t.Setenv("SEPA_MINOR_UNIT_HEURISTIC", "off")
	t.Setenv("SEPA_MINOR_UNIT_THRESHOLD", "500")
	t.Setenv("SERVER_READ_TIMEOUT", "3s")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg := Load()
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "CHF", cfg.SEPA.DefaultCurrency)
	assert.False(t, cfg.SEPA.MinorUnitHeuristic)
	assert.Equal(t, int64(500), cfg.SEPA.MinorUnitThreshold)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
}

func TestLoadFile_EnvWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sepa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "7000"
  write_timeout: 30s
log:
  level: debug
sepa:
  default_currency: GBP
  inject_addresses: false
`), 0o600))
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "GBP", cfg.SEPA.DefaultCurrency)
	assert.False(t, cfg.SEPA.InjectAddresses)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [1, 2"), 0o600))
	_, err = LoadFile(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	cfg.SEPA.DefaultCurrency = "EURO"
	cfg.SEPA.MinorUnitThreshold = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SEPA_DEFAULT_CURRENCY")
	assert.Contains(t, err.Error(), "SEPA_MINOR_UNIT_THRESHOLD")
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SEPA_TEST_DOTENV=loaded\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SEPA_TEST_DOTENV") })

	assert.True(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("SEPA_TEST_DOTENV"))
	assert.False(t, LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")))
}
