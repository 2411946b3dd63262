package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
app:
  name: clinical-score-workers
  version: 1.2.0
camunda:
  broker_address: zeebe:26500
  use_plaintext: true
workers:
  evaluate-clinical-score:
    enabled: true
    max_jobs_active: 20
    reject_group_conflicts: true
  toggle-score-factor:
    enabled: false
logging:
  level: debug
  format: console
instruments:
  registry_path: /etc/scores/instruments.json
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "1.2.0", cfg.App.Version)
	assert.Equal(t, "zeebe:26500", cfg.Camunda.BrokerAddress)
	assert.True(t, cfg.Camunda.UsePlaintextConnection)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/etc/scores/instruments.json", cfg.Instruments.RegistryPath)

	eval := cfg.Workers["evaluate-clinical-score"]
	assert.True(t, eval.Enabled)
	assert.Equal(t, 20, eval.MaxJobsActive)
	assert.Equal(t, 10000, eval.Timeout, "default timeout applied")
	assert.True(t, eval.RejectGroupConflicts)
	assert.False(t, cfg.Workers["toggle-score-factor"].RejectGroupConflicts)

	assert.False(t, IsWorkerEnabled(cfg, "toggle-score-factor"))
	assert.True(t, IsWorkerEnabled(cfg, "not-listed"))
}

func TestLoadFromFile_Defaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, "camunda:\n  broker_address: localhost:26500\n"))
	require.NoError(t, err)

	assert.Equal(t, "clinical-score-workers", cfg.App.Name)
	assert.Equal(t, 10, cfg.Camunda.MaxJobsActive)
	assert.Equal(t, 30000, cfg.Camunda.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, ":8080", cfg.Metrics.Address)
	assert.Empty(t, cfg.Instruments.RegistryPath)
	assert.NotNil(t, cfg.Workers)
}

func TestLoadFromFile_EnvOverrides(t *testing.T) {
	t.Setenv("CAMUNDA_BROKER_ADDRESS", "env-broker:26500")
	t.Setenv("TEST_REGISTRY_DIR", "/srv/registry")

	cfg, err := LoadFromFile(writeConfig(t, `
camunda:
  broker_address: file-broker:26500
instruments:
  registry_path: ${TEST_REGISTRY_DIR}/instruments.json
`))
	require.NoError(t, err)

	assert.Equal(t, "env-broker:26500", cfg.Camunda.BrokerAddress)
	assert.Equal(t, "/srv/registry/instruments.json", cfg.Instruments.RegistryPath)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		errMsg string
	}{
		{
			name:   "missing broker",
			body:   "logging:\n  level: info\n",
			errMsg: "camunda.broker_address is required",
		},
		{
			name:   "bad log level",
			body:   "camunda:\n  broker_address: b:1\nlogging:\n  level: chatty\n",
			errMsg: "logging.level",
		},
		{
			name:   "bad log format",
			body:   "camunda:\n  broker_address: b:1\nlogging:\n  format: xml\n",
			errMsg: "logging.format",
		},
		{
			name:   "negative worker timeout",
			body:   "camunda:\n  broker_address: b:1\nworkers:\n  evaluate-clinical-score:\n    timeout: -5\n",
			errMsg: "must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestGetWorkerConfig(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"evaluate-clinical-score": {Enabled: true, MaxJobsActive: 3, Timeout: 500},
	}}

	assert.Equal(t, 3, GetWorkerConfig(cfg, "evaluate-clinical-score").MaxJobsActive)

	fallback := GetWorkerConfig(cfg, "toggle-score-factor")
	assert.True(t, fallback.Enabled)
	assert.Equal(t, 5, fallback.MaxJobsActive)
	assert.False(t, fallback.RejectGroupConflicts)

	assert.Equal(t, 500*time.Millisecond, GetDuration(500))
}
