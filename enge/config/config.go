package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	internal "github.com/ZanzyTHEbar/enge-ai/enge"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Model    ModelConfig    `mapstructure:"model"`
	Tutor    TutorConfig    `mapstructure:"tutor"`
	Scenario ScenarioConfig `mapstructure:"scenario"`
	Harness  HarnessConfig  `mapstructure:"harness"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ModelConfig describes the model served by the local runtime and the
// default sampling parameters for calls that do not override them.
type ModelConfig struct {
	Name           string        `mapstructure:"name"`            // Model identifier, e.g. "llama3.2"
	APIEndpoint    string        `mapstructure:"api_endpoint"`    // Base URL of the model runtime
	Temperature    float64       `mapstructure:"temperature"`     // Default sampling temperature
	MaxTokens      int           `mapstructure:"max_tokens"`      // Default generation cap
	RequestTimeout time.Duration `mapstructure:"request_timeout"` // 0 means no client timeout
	PullOnMissing  bool          `mapstructure:"pull_on_missing"` // Pull the model when it is not installed
}

// TutorConfig stores tutoring defaults.
type TutorConfig struct {
	DefaultMode             string `mapstructure:"default_mode"`
	IncludeCriticalThinking bool   `mapstructure:"include_critical_thinking"`
}

// ScenarioConfig stores scenario generation settings.
type ScenarioConfig struct {
	TemplatesDir         string  `mapstructure:"templates_dir"`
	ExportPath           string  `mapstructure:"export_path"`
	Temperature          float64 `mapstructure:"temperature"`
	VariationConcurrency int     `mapstructure:"variation_concurrency"` // Max in-flight variation calls
	WatchTemplates       bool    `mapstructure:"watch_templates"`       // Reload template files on change
	Seed                 int64   `mapstructure:"seed"`                  // 0 seeds from the clock
}

// HarnessConfig stores call harness settings around the model runtime.
type HarnessConfig struct {
	// Rate limiting
	RateLimitEnabled    bool          `mapstructure:"rate_limit_enabled"`
	RateLimitCapacity   int           `mapstructure:"rate_limit_capacity"`
	RateLimitRefillRate time.Duration `mapstructure:"rate_limit_refill_rate"`

	// Telemetry
	EnableTracing bool `mapstructure:"enable_tracing"`
}

// LoggingConfig stores logger settings.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	File    string `mapstructure:"file"` // Empty disables file output
	Console bool   `mapstructure:"console"`
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.GetViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("..")
		v.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		v.AddConfigPath(internal.DefaultConfigPath)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	SetDefaults(v)

	v.AutomaticEnv()
	// model.api_endpoint becomes MODEL_API_ENDPOINT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.BindEnv("model.api_endpoint", "MODEL_API_ENDPOINT", "OLLAMA_API_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Defaults and environment are enough to run.
	}

	if err := v.Unmarshal(&AppConfig); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &AppConfig, nil
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("model.name", internal.DefaultModelName)
	v.SetDefault("model.api_endpoint", internal.DefaultAPIEndpoint)
	v.SetDefault("model.temperature", internal.DefaultTemperature)
	v.SetDefault("model.max_tokens", internal.DefaultMaxTokens)
	v.SetDefault("model.request_timeout", "0s")
	v.SetDefault("model.pull_on_missing", true)

	v.SetDefault("tutor.default_mode", "general")
	v.SetDefault("tutor.include_critical_thinking", true)

	v.SetDefault("scenario.templates_dir", internal.DefaultTemplatesDir)
	v.SetDefault("scenario.export_path", internal.DefaultExportFile)
	v.SetDefault("scenario.temperature", internal.DefaultScenarioTemperature)
	v.SetDefault("scenario.variation_concurrency", 1)
	v.SetDefault("scenario.watch_templates", false)
	v.SetDefault("scenario.seed", 0)

	v.SetDefault("harness.rate_limit_enabled", false)
	v.SetDefault("harness.rate_limit_capacity", 10)
	v.SetDefault("harness.rate_limit_refill_rate", "1s")
	v.SetDefault("harness.enable_tracing", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", internal.DefaultLogFile)
	v.SetDefault("logging.console", true)
}

// Validate clamps out-of-range values in place and logs each adjustment.
func (c *Config) Validate(logger zerolog.Logger) {
	if c.Model.Temperature < 0 {
		logger.Warn().Float64("temperature", c.Model.Temperature).Msg("Model temperature clamped to minimum of 0")
		c.Model.Temperature = 0
	}
	if c.Model.Temperature > 1 {
		logger.Warn().Float64("temperature", c.Model.Temperature).Msg("Model temperature clamped to maximum of 1")
		c.Model.Temperature = 1
	}
	if c.Model.MaxTokens < 1 {
		logger.Warn().Int("max_tokens", c.Model.MaxTokens).Msg("Model max_tokens reset to default")
		c.Model.MaxTokens = internal.DefaultMaxTokens
	}
	if c.Model.Name == "" {
		c.Model.Name = internal.DefaultModelName
	}
	if c.Model.APIEndpoint == "" {
		c.Model.APIEndpoint = internal.DefaultAPIEndpoint
	}
	c.Model.APIEndpoint = strings.TrimRight(c.Model.APIEndpoint, "/")

	if c.Scenario.Temperature < 0 || c.Scenario.Temperature > 1 {
		logger.Warn().Float64("temperature", c.Scenario.Temperature).Msg("Scenario temperature reset to default")
		c.Scenario.Temperature = internal.DefaultScenarioTemperature
	}
	if c.Scenario.VariationConcurrency < 1 {
		logger.Warn().Int("variation_concurrency", c.Scenario.VariationConcurrency).Msg("VariationConcurrency clamped to minimum of 1")
		c.Scenario.VariationConcurrency = 1
	}

	if c.Harness.RateLimitCapacity < 1 {
		logger.Warn().Int("rate_limit_capacity", c.Harness.RateLimitCapacity).Msg("RateLimitCapacity clamped to minimum of 1")
		c.Harness.RateLimitCapacity = 1
	}
	if c.Harness.RateLimitRefillRate <= 0 {
		c.Harness.RateLimitRefillRate = time.Second
	}
}
