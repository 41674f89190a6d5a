package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 50, cfg.Server.MaxUploadMB)
	assert.Empty(t, cfg.Server.CORSOrigins)
	assert.Equal(t, 0, cfg.Input.SheetIndex)
	assert.Equal(t, ",", cfg.Input.CSVDelimiter)
	assert.Equal(t, "2025-01-01", cfg.Dashboard.DefaultStart)
	assert.Equal(t, 10, cfg.Dashboard.TopN)
	assert.Equal(t, 10, cfg.Search.Limit)
	assert.InDelta(t, 0.5, cfg.Search.Cutoff, 0.001)
	assert.Equal(t, "Datos", cfg.Export.SheetName)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
  format: console
server:
  port: 9090
  cors_origins:
    - http://localhost:3000
input:
  csv_charset: windows-1252
search:
  cutoff: 0.6
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "windows-1252", cfg.Input.CSVCharset)
	assert.InDelta(t, 0.6, cfg.Search.Cutoff, 0.001)
	// Defaults still apply for unset values
	assert.Equal(t, 10, cfg.Dashboard.TopN)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
dashboard:
  top_n: 5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("TRADEFLOW_LOG_LEVEL", "warn")
	t.Setenv("TRADEFLOW_DASHBOARD_TOP_N", "20")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 20, cfg.Dashboard.TopN)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("TRADEFLOW_SERVER_PORT", "3000")
	t.Setenv("TRADEFLOW_DASHBOARD_DEFAULT_START", "2024-06-01")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)

	d, err := cfg.Dashboard.DefaultStartDate()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), d)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unclosed"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Server.MaxUploadMB = 50
	cfg.Input.CSVDelimiter = ","
	cfg.Dashboard.DefaultStart = "2025-01-01"
	cfg.Dashboard.TopN = 10
	cfg.Search.Limit = 10
	cfg.Search.Cutoff = 0.5
	return cfg
}

func TestValidate_AllModes(t *testing.T) {
	cfg := validDefaults()
	for _, mode := range []string{"serve", "report", "search", "export", "clean"} {
		assert.NoError(t, cfg.Validate(mode), mode)
	}
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")

	// Other commands do not bind a port.
	assert.NoError(t, cfg.Validate("report"))
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateDashboardBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Dashboard.TopN = 0
	err := cfg.Validate("report")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "dashboard.top_n must be between 1 and 100")

	cfg.Dashboard.TopN = 10
	cfg.Dashboard.DefaultStart = "01/01/2025"
	err = cfg.Validate("report")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "dashboard.default_start")

	// clean does not build dashboards.
	assert.NoError(t, cfg.Validate("clean"))
}

func TestValidateSearchBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Search.Cutoff = 1.5
	err := cfg.Validate("search")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "search.cutoff")

	cfg.Search.Cutoff = 0.5
	cfg.Search.Limit = 0
	err = cfg.Validate("search")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "search.limit")
}

func TestValidateInput(t *testing.T) {
	cfg := validDefaults()
	cfg.Input.SheetIndex = -1
	cfg.Input.CSVDelimiter = ";;"

	err := cfg.Validate("clean")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "input.sheet_index")
	assert.Contains(t, err.Error(), "input.csv_delimiter")
}
