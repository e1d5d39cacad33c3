package config

import (
	"os"
	"path/filepath"
	"testing"

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
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.Equal(t, "xlsx", cfg.Workbook.Codec)
	assert.Equal(t, 30, cfg.Fetch.TimeoutSecs)
	assert.Equal(t, 3, cfg.Fetch.MaxRetries)
	assert.Equal(t, "policy-compare/1.0", cfg.Fetch.UserAgent)
	assert.Equal(t, int64(50<<20), cfg.Fetch.MaxBytes)
	assert.InDelta(t, 5.0, cfg.Fetch.RequestsPerSecond, 0.001)
	assert.Empty(t, cfg.Registry.Path)
	assert.Equal(t, []int{10, 20, 30, 40, 50}, cfg.Summary.Intervals)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 50, cfg.Server.MaxUploadMB)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, ".", cfg.Watch.Dir)
	assert.Equal(t, "json", cfg.Watch.Format)
	assert.Equal(t, 500, cfg.Watch.DebounceMillis)
	assert.Empty(t, cfg.Monitoring.WebhookURL)
	assert.InDelta(t, 0.5, cfg.Monitoring.FailureRateThreshold, 0.001)
	assert.Equal(t, 5, cfg.Monitoring.MinFiles)
	assert.Equal(t, 300, cfg.Monitoring.CheckIntervalSecs)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
  format: console
server:
  port: 9090
batch:
  concurrency: 8
workbook:
  codec: excelize
summary:
  intervals: [5, 15]
registry:
  path: synonyms.yaml
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
	assert.Equal(t, "excelize", cfg.Workbook.Codec)
	assert.Equal(t, []int{5, 15}, cfg.Summary.Intervals)
	assert.Equal(t, "synonyms.yaml", cfg.Registry.Path)
	// Defaults still apply for unset values
	assert.Equal(t, 30, cfg.Fetch.TimeoutSecs)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unclosed"), 0644))

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
workbook:
  codec: xlsx
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("POLICY_WORKBOOK_CODEC", "excelize")
	t.Setenv("POLICY_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "excelize", cfg.Workbook.Codec)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("POLICY_SERVER_PORT", "3000")
	t.Setenv("POLICY_MONITORING_FAILURE_RATE_THRESHOLD", "0.25")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.InDelta(t, 0.25, cfg.Monitoring.FailureRateThreshold, 0.001)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("POLICY_BATCH_CONCURRENCY=12\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("POLICY_BATCH_CONCURRENCY") }) //nolint:errcheck

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Batch.Concurrency)
}

func TestLoadDotEnvDoesNotOverrideEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("POLICY_SERVER_PORT=7000\n"), 0644))
	t.Setenv("POLICY_SERVER_PORT", "7100")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7100, cfg.Server.Port)
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
	return &Config{
		Log:      LogConfig{Level: "info", Format: "json"},
		Batch:    BatchConfig{Concurrency: 4},
		Workbook: WorkbookConfig{Codec: "xlsx"},
		Fetch: FetchConfig{
			TimeoutSecs:       30,
			MaxRetries:        3,
			UserAgent:         "policy-compare/1.0",
			MaxBytes:          50 << 20,
			RequestsPerSecond: 5,
		},
		Summary:    SummaryConfig{Intervals: []int{10, 20}},
		Server:     ServerConfig{Port: 8080, MaxUploadMB: 50},
		Watch:      WatchConfig{Dir: ".", Format: "json", DebounceMillis: 500},
		Monitoring: MonitoringConfig{FailureRateThreshold: 0.5, MinFiles: 5, CheckIntervalSecs: 300},
	}
}

func TestValidateModes(t *testing.T) {
	for _, mode := range []string{"process", "summary", "serve", "watch"} {
		t.Run(mode, func(t *testing.T) {
			assert.NoError(t, validDefaults().Validate(mode))
		})
	}
}

func TestValidateUnknownMode(t *testing.T) {
	err := validDefaults().Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be between 1 and 65535")

	// Port is irrelevant outside serve.
	assert.NoError(t, cfg.Validate("process"))
}

func TestValidateWatch_MissingDir(t *testing.T) {
	cfg := validDefaults()
	cfg.Watch.Dir = "  "

	err := cfg.Validate("watch")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "watch.dir is required")
}

func TestValidateFieldRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"concurrency zero", func(c *Config) { c.Batch.Concurrency = 0 }, "batch.concurrency fails min=1"},
		{"concurrency too high", func(c *Config) { c.Batch.Concurrency = 65 }, "batch.concurrency fails max=64"},
		{"unknown codec", func(c *Config) { c.Workbook.Codec = "ods" }, "workbook.codec fails oneof"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level fails oneof"},
		{"missing user agent", func(c *Config) { c.Fetch.UserAgent = "" }, "fetch.user_agent fails required"},
		{"zero rate", func(c *Config) { c.Fetch.RequestsPerSecond = 0 }, "fetch.requests_per_second fails gt=0"},
		{"bad interval", func(c *Config) { c.Summary.Intervals = []int{10, 0} }, "summary.intervals[1] fails min=1"},
		{"threshold above one", func(c *Config) { c.Monitoring.FailureRateThreshold = 1.5 }, "monitoring.failure_rate_threshold fails max=1"},
		{"bad webhook", func(c *Config) { c.Monitoring.WebhookURL = "not a url" }, "monitoring.webhook_url fails url"},
		{"bad watch format", func(c *Config) { c.Watch.Format = "pdf" }, "watch.format fails oneof"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDefaults()
			tt.mutate(cfg)
			err := cfg.Validate("process")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := validDefaults()
	cfg.Batch.Concurrency = 0
	cfg.Server.Port = -1

	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch.concurrency")
	assert.Contains(t, err.Error(), "server.port")
}
