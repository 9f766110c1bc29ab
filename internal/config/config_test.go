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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverCSV, cfg.Storage.Driver)
	assert.Equal(t, 2009, cfg.Analysis.StartYear)
	assert.Equal(t, 2023, cfg.Analysis.EndYear)
}

func TestLoadFileWithoutFile(t *testing.T) {
	cfg, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, Default().Analysis.TopK, cfg.Analysis.TopK)
}

func TestLoadFileOverlaysYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
  read_timeout: 5s
analysis:
  min_years: 3
  low_price: 2
  high_price: 4
  scenarios:
    - name: flat
      multipliers: [1, 1, 1]
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout, "keys absent from the file keep defaults")
	assert.Equal(t, 3, cfg.Analysis.MinYears)

	params := cfg.Analysis.Params()
	assert.Equal(t, 2.0, params.Bands.Low)
	assert.Equal(t, 4.0, params.Bands.High)
	require.Len(t, params.Scenarios, 1)
	assert.Equal(t, "flat", params.Scenarios[0].Name)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\n")
	t.Setenv("VITIS_SERVER_PORT", "9100")
	t.Setenv("VITIS_ANALYSIS_MIN_CAGR", "7.5")
	t.Setenv("VITIS_ANALYSIS_TOP_K", "3,5")
	t.Setenv("VITIS_STORAGE_SSL_MODE", "disable")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 7.5, cfg.Analysis.MinCAGR)
	assert.Equal(t, []int{3, 5}, cfg.Analysis.TopK)
	assert.Equal(t, "disable", cfg.Storage.SSLMode)
}

func TestLoadUsesConfigEnv(t *testing.T) {
	path := writeConfig(t, "analysis:\n  top_n: 7\n")
	t.Setenv(ConfigFileEnv, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Analysis.TopN)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadFile(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }},
		{"rate limit without burst", func(c *Config) { c.Server.RateLimit.Burst = 0 }},
		{"bad log output", func(c *Config) { c.Logging.Output = "syslog" }},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mongo" }},
		{"postgres without target", func(c *Config) { c.Storage.Driver = DriverPostgres }},
		{"inverted years", func(c *Config) { c.Analysis.StartYear, c.Analysis.EndYear = 2020, 2010 }},
		{"inverted bands", func(c *Config) { c.Analysis.LowPrice, c.Analysis.HighPrice = 5, 1 }},
		{"zero min years", func(c *Config) { c.Analysis.MinYears = 0 }},
		{"negative cache", func(c *Config) { c.Analysis.CacheSize = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	t.Run("postgres with host", func(t *testing.T) {
		cfg := Default()
		cfg.Storage.Driver = DriverPostgres
		cfg.Storage.Host = "localhost"
		assert.NoError(t, cfg.Validate())
	})
}

func TestServerAddr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:8080", ServerConfig{Host: "127.0.0.1", Port: 8080}.Addr())
	assert.Equal(t, ":9090", ServerConfig{Port: 9090}.Addr())
}
