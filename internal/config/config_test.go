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

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, ProviderOllama, cfg.LLM.Provider)
	assert.Equal(t, int64(512), cfg.LLM.MaxTokens)
	assert.Equal(t, 20, cfg.LLM.TimeoutSecs)
	assert.InDelta(t, 2.0, cfg.LLM.RatePerSec, 0.001)
	assert.Equal(t, 4, cfg.LLM.Burst)
	assert.Equal(t, 5, cfg.LLM.BreakerThreshold)
	assert.Equal(t, 30, cfg.LLM.BreakerResetSecs)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.Model)
	assert.Equal(t, "http://127.0.0.1:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, "qwen2.5:3b-instruct", cfg.Ollama.Model)
	assert.InDelta(t, 0.1, cfg.Ollama.TopP, 0.001)
	assert.Equal(t, 220, cfg.Ollama.NumPredict)
	assert.Equal(t, 512, cfg.Ollama.NumCtx)
	assert.InDelta(t, 1.05, cfg.Ollama.RepeatPenalty, 0.001)
	assert.Equal(t, 2, cfg.Ollama.Retries)
	assert.Equal(t, "ja-JP", cfg.Analyze.DefaultLocale)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.Empty(t, cfg.Lexicon.Path)
	assert.Equal(t, 300, cfg.Monitoring.CheckIntervalSecs)
	assert.InDelta(t, 0.25, cfg.Monitoring.DraftFailureRateThreshold, 0.001)
	assert.InDelta(t, 0.5, cfg.Monitoring.HighRiskRateThreshold, 0.001)
	assert.Equal(t, 5, cfg.Monitoring.MinSamples)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
  format: console
server:
  port: 9090
  cors_origins: ["https://app.example.com"]
llm:
  provider: anthropic
anthropic:
  key: sk-test
lexicon:
  path: packs.yaml
batch:
  concurrency: 10
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.Anthropic.Key)
	assert.Equal(t, "packs.yaml", cfg.Lexicon.Path)
	assert.Equal(t, 10, cfg.Batch.Concurrency)
	// Defaults still apply for unset values
	assert.Equal(t, "ja-JP", cfg.Analyze.DefaultLocale)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
llm:
  provider: anthropic
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("LIFEBOX_LLM_PROVIDER", "none")
	t.Setenv("LIFEBOX_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, ProviderNone, cfg.LLM.Provider)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("LIFEBOX_SERVER_PORT", "3000")
	t.Setenv("LIFEBOX_OLLAMA_MODEL", "llama3.2")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "llama3.2", cfg.Ollama.Model)
}

func TestLoadBadYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unclosed"), 0644))

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestLoadExplicitPath(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "lifebox.yaml")
	require.NoError(t, os.WriteFile(path, []byte("batch:\n  concurrency: 9\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Batch.Concurrency)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
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
	cfg.LLM.Provider = ProviderOllama
	cfg.LLM.TimeoutSecs = 20
	cfg.LLM.RatePerSec = 2
	cfg.Ollama.BaseURL = "http://127.0.0.1:11434"
	cfg.Batch.Concurrency = 4
	cfg.Server.Port = 8080
	return cfg
}

func TestValidate_Normalize(t *testing.T) {
	cfg := &Config{}
	assert.NoError(t, cfg.Validate("normalize"))
}

func TestValidate_AnthropicNeedsKey(t *testing.T) {
	cfg := validDefaults()
	cfg.LLM.Provider = ProviderAnthropic

	err := cfg.Validate("analyze")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic.key is required")

	cfg.Anthropic.Key = "sk-ant-key"
	assert.NoError(t, cfg.Validate("analyze"))
}

func TestValidate_OllamaNeedsBaseURL(t *testing.T) {
	cfg := validDefaults()
	cfg.Ollama.BaseURL = ""

	err := cfg.Validate("mcp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama.base_url is required")
}

func TestValidate_NoneProviderSkipsLLMChecks(t *testing.T) {
	cfg := validDefaults()
	cfg.LLM.Provider = ProviderNone
	cfg.LLM.TimeoutSecs = 0
	assert.NoError(t, cfg.Validate("analyze"))
}

func TestValidate_UnknownProvider(t *testing.T) {
	cfg := validDefaults()
	cfg.LLM.Provider = "openai"

	err := cfg.Validate("analyze")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.provider")
}

func TestValidate_LLMBounds(t *testing.T) {
	cfg := validDefaults()
	cfg.LLM.RatePerSec = -1
	cfg.LLM.TimeoutSecs = 0
	cfg.LLM.BreakerThreshold = -1
	cfg.Ollama.Retries = -1

	err := cfg.Validate("analyze")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.breaker_threshold must be >= 0")
	assert.Contains(t, err.Error(), "llm.rate_per_sec must be >= 0")
	assert.Contains(t, err.Error(), "llm.timeout_secs must be > 0")
	assert.Contains(t, err.Error(), "ollama.retries must be >= 0")
}

func TestValidateServe_Port(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 9090
	assert.NoError(t, cfg.Validate("serve"))

	cfg.Server.Port = 0
	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateServe_MonitoringThresholds(t *testing.T) {
	cfg := validDefaults()
	cfg.Monitoring.DraftFailureRateThreshold = 1.5
	cfg.Monitoring.HighRiskRateThreshold = -0.1

	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "draft_failure_rate_threshold")
	assert.Contains(t, err.Error(), "high_risk_rate_threshold")
}

func TestValidateBatch_ConcurrencyBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Batch.Concurrency = 0
	err := cfg.Validate("batch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch.concurrency must be between 1 and 64")

	cfg.Batch.Concurrency = 65
	assert.Error(t, cfg.Validate("batch"))

	cfg.Batch.Concurrency = 64
	assert.NoError(t, cfg.Validate("batch"))
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
