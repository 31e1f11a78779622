// Package config loads service settings from the environment, an optional
// JSON file and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"ai_article_backend/generator"
)

const DefaultPort = "3000"

// Config holds everything the service needs at startup.
type Config struct {
	Port     string         `mapstructure:"port"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
}

type LLMConfig struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`
}

type PipelineConfig struct {
	Refine            bool          `mapstructure:"refine"`
	DraftTemperature  float64       `mapstructure:"draft_temperature"`
	RefineTemperature float64       `mapstructure:"refine_temperature"`
	StageTimeout      time.Duration `mapstructure:"stage_timeout"`
}

// providerKeyEnv is consulted when llm.api_key is not set explicitly.
var providerKeyEnv = map[string]string{
	"openai":   "OPENAI_API_KEY",
	"deepseek": "DEEPSEEK_API_KEY",
	"gemini":   "GEMINI_API_KEY",
}

var defaultModels = map[string]string{
	"openai":   "gpt-4.1-mini",
	"deepseek": "deepseek-chat",
	"gemini":   "gemini-2.5-flash",
	"mock":     "mock",
}

// New returns a viper instance with defaults and env bindings applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("port", DefaultPort)
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("pipeline.refine", true)
	v.SetDefault("pipeline.draft_temperature", generator.DefaultDraftTemperature)
	v.SetDefault("pipeline.refine_temperature", generator.DefaultRefineTemperature)
	v.SetDefault("pipeline.stage_timeout", generator.DefaultStageTimeout)

	_ = v.BindEnv("port", "PORT")
	_ = v.BindEnv("llm.provider", "LLM_PROVIDER")
	_ = v.BindEnv("llm.model", "LLM_MODEL")
	_ = v.BindEnv("llm.api_key", "LLM_API_KEY")
	_ = v.BindEnv("llm.base_url", "LLM_BASE_URL")
	_ = v.BindEnv("pipeline.refine", "ARTICLE_REFINE")
	_ = v.BindEnv("pipeline.stage_timeout", "ARTICLE_STAGE_TIMEOUT")
	return v
}

// Load reads path (if any) into v and decodes the result.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if cfg.LLM.APIKey == "" {
		if env, ok := providerKeyEnv[cfg.LLM.Provider]; ok {
			_ = v.BindEnv("llm.provider_key", env)
			cfg.LLM.APIKey = v.GetString("llm.provider_key")
		}
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = defaultModels[cfg.LLM.Provider]
	}
	if strings.TrimSpace(cfg.Port) == "" {
		cfg.Port = DefaultPort
	}
	return cfg, cfg.Validate()
}

// Validate reports settings that would make every request fail.
func (c Config) Validate() error {
	if c.LLM.Provider == "" {
		return errors.New("llm provider missing; set llm.provider or LLM_PROVIDER")
	}
	if c.LLM.Provider != "mock" && c.LLM.APIKey == "" {
		return fmt.Errorf("llm api key missing for provider %s", c.LLM.Provider)
	}
	if c.Pipeline.StageTimeout < 0 {
		return errors.New("pipeline.stage_timeout must not be negative")
	}
	return nil
}

func (c Config) LLMSettings() generator.LLMSettings {
	return generator.LLMSettings{
		Provider: c.LLM.Provider,
		Model:    c.LLM.Model,
		APIKey:   c.LLM.APIKey,
		BaseURL:  c.LLM.BaseURL,
	}
}

func (c Config) AgentOptions() generator.AgentOptions {
	return generator.AgentOptions{
		Refine:            c.Pipeline.Refine,
		DraftTemperature:  c.Pipeline.DraftTemperature,
		RefineTemperature: c.Pipeline.RefineTemperature,
		StageTimeout:      c.Pipeline.StageTimeout,
	}
}

// Addr is the listen address for Port.
func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
