package main

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
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Stopper.Enabled)
	assert.Equal(t, 3*time.Second, cfg.Stopper.DismissAfter)
	assert.Equal(t, 60*time.Second, cfg.Judge0.Timeout)
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("CODESTOP_AI_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	path := writeConfig(t, `
stopper:
  enabled: false
  dismiss_after: 5s
assistant:
  model: llama3
  base_url: http://localhost:11434/v1
  auto_explain: true
judge0:
  url: http://localhost:2358
  timeout: 10s
log:
  level: debug
metrics:
  addr: 127.0.0.1:9464
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.False(t, cfg.Stopper.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Stopper.DismissAfter)
	assert.Equal(t, "llama3", cfg.Assistant.Model)
	assert.True(t, cfg.Assistant.AutoExplain)
	assert.Equal(t, "http://localhost:2358", cfg.Judge0.URL)
	assert.Equal(t, 10*time.Second, cfg.Judge0.Timeout)
	assert.Equal(t, time.Second, cfg.Judge0.PollInterval)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:9464", cfg.Metrics.Addr)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("CODESTOP_AI_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("CODESTOP_AI_MODEL", "gpt-4.1")
	t.Setenv("JUDGE0_API_KEY", "rapid")
	t.Setenv("JUDGE0_URL", "http://judge0.local")
	path := writeConfig(t, "assistant:\n  api_key: from-file\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "sk-env", cfg.Assistant.APIKey)
	assert.Equal(t, "gpt-4.1", cfg.Assistant.Model)
	assert.Equal(t, "rapid", cfg.Judge0.APIKey)
	assert.Equal(t, "http://judge0.local", cfg.Judge0.URL)
}

func TestCodestopKeyWinsOverOpenAIKey(t *testing.T) {
	cfg := DefaultConfig()
	env := map[string]string{"CODESTOP_AI_KEY": "a", "OPENAI_API_KEY": "b"}
	cfg.applyEnv(func(k string) string { return env[k] })
	assert.Equal(t, "a", cfg.Assistant.APIKey)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad yaml", "stopper: [", "failed to parse config"},
		{"bad level", "log:\n  level: loud\n", "Log.Level"},
		{"bad judge0 url", "judge0:\n  url: not a url\n", "Judge0.URL"},
		{"negative dismiss", "stopper:\n  dismiss_after: -1s\n", "Stopper.DismissAfter"},
		{"bad metrics addr", "metrics:\n  addr: nowhere\n", "Metrics.Addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JUDGE0_URL", "")
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}
