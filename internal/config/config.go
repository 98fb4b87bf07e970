package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LLM provider names.
const (
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderNone      = "none"
)

// Config holds the full application configuration.
type Config struct {
	LLM        LLMConfig        `yaml:"llm" mapstructure:"llm"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Ollama     OllamaConfig     `yaml:"ollama" mapstructure:"ollama"`
	Lexicon    LexiconConfig    `yaml:"lexicon" mapstructure:"lexicon"`
	Analyze    AnalyzeConfig    `yaml:"analyze" mapstructure:"analyze"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Monitoring MonitoringConfig `yaml:"monitoring" mapstructure:"monitoring"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// LLMConfig selects and throttles the drafting model.
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"`
	Model       string  `yaml:"model" mapstructure:"model"`
	MaxTokens   int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst       int     `yaml:"burst" mapstructure:"burst"`

	// BreakerThreshold consecutive failures open the circuit; 0 disables it.
	BreakerThreshold int `yaml:"breaker_threshold" mapstructure:"breaker_threshold"`
	BreakerResetSecs int `yaml:"breaker_reset_secs" mapstructure:"breaker_reset_secs"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// OllamaConfig holds local Ollama settings.
type OllamaConfig struct {
	BaseURL       string  `yaml:"base_url" mapstructure:"base_url"`
	Model         string  `yaml:"model" mapstructure:"model"`
	Temperature   float64 `yaml:"temperature" mapstructure:"temperature"`
	TopP          float64 `yaml:"top_p" mapstructure:"top_p"`
	NumPredict    int     `yaml:"num_predict" mapstructure:"num_predict"`
	NumCtx        int     `yaml:"num_ctx" mapstructure:"num_ctx"`
	RepeatPenalty float64 `yaml:"repeat_penalty" mapstructure:"repeat_penalty"`
	Retries       int     `yaml:"retries" mapstructure:"retries"`
}

// LexiconConfig points at an optional keyword pack override file.
type LexiconConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// AnalyzeConfig holds request defaults.
type AnalyzeConfig struct {
	DefaultLocale string `yaml:"default_locale" mapstructure:"default_locale"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// MonitoringConfig configures draft health alerts for the server.
type MonitoringConfig struct {
	WebhookURL                string  `yaml:"webhook_url" mapstructure:"webhook_url"`
	CheckIntervalSecs         int     `yaml:"check_interval_secs" mapstructure:"check_interval_secs"`
	DraftFailureRateThreshold float64 `yaml:"draft_failure_rate_threshold" mapstructure:"draft_failure_rate_threshold"`
	HighRiskRateThreshold     float64 `yaml:"high_risk_rate_threshold" mapstructure:"high_risk_rate_threshold"`
	MinSamples                int     `yaml:"min_samples" mapstructure:"min_samples"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment. With an empty path
// an optional ./config.yaml is used; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("LIFEBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("llm.provider", ProviderOllama)
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.max_tokens", 512)
	v.SetDefault("llm.timeout_secs", 20)
	v.SetDefault("llm.rate_per_sec", 2.0)
	v.SetDefault("llm.burst", 4)
	v.SetDefault("llm.breaker_threshold", 5)
	v.SetDefault("llm.breaker_reset_secs", 30)
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("ollama.base_url", "http://127.0.0.1:11434")
	v.SetDefault("ollama.model", "qwen2.5:3b-instruct")
	v.SetDefault("ollama.temperature", 0.0)
	v.SetDefault("ollama.top_p", 0.1)
	v.SetDefault("ollama.num_predict", 220)
	v.SetDefault("ollama.num_ctx", 512)
	v.SetDefault("ollama.repeat_penalty", 1.05)
	v.SetDefault("ollama.retries", 2)
	v.SetDefault("lexicon.path", "")
	v.SetDefault("analyze.default_locale", "ja-JP")
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("monitoring.webhook_url", "")
	v.SetDefault("monitoring.check_interval_secs", 300)
	v.SetDefault("monitoring.draft_failure_rate_threshold", 0.25)
	v.SetDefault("monitoring.high_risk_rate_threshold", 0.5)
	v.SetDefault("monitoring.min_samples", 5)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on. Modes: normalize,
// analyze, batch, serve, mcp.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "normalize":
	case "analyze", "mcp":
		errs = append(errs, c.validateLLM()...)
	case "batch":
		errs = append(errs, c.validateLLM()...)
		if c.Batch.Concurrency < 1 || c.Batch.Concurrency > 64 {
			errs = append(errs, "batch.concurrency must be between 1 and 64")
		}
	case "serve":
		errs = append(errs, c.validateLLM()...)
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if r := c.Monitoring.DraftFailureRateThreshold; r < 0 || r > 1 {
			errs = append(errs, "monitoring.draft_failure_rate_threshold must be between 0 and 1")
		}
		if r := c.Monitoring.HighRiskRateThreshold; r < 0 || r > 1 {
			errs = append(errs, "monitoring.high_risk_rate_threshold must be between 0 and 1")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateLLM() []string {
	var errs []string
	switch c.LLM.Provider {
	case ProviderNone:
		return nil
	case ProviderAnthropic:
		if c.Anthropic.Key == "" {
			errs = append(errs, "anthropic.key is required")
		}
	case ProviderOllama:
		if c.Ollama.BaseURL == "" {
			errs = append(errs, "ollama.base_url is required")
		}
		if c.Ollama.Retries < 0 {
			errs = append(errs, "ollama.retries must be >= 0")
		}
	default:
		errs = append(errs, fmt.Sprintf("llm.provider %q must be one of anthropic, ollama, none", c.LLM.Provider))
	}
	if c.LLM.RatePerSec < 0 {
		errs = append(errs, "llm.rate_per_sec must be >= 0")
	}
	if c.LLM.BreakerThreshold < 0 {
		errs = append(errs, "llm.breaker_threshold must be >= 0")
	}
	if c.LLM.TimeoutSecs <= 0 {
		errs = append(errs, "llm.timeout_secs must be > 0")
	}
	return errs
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
