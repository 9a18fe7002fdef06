package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the codestop configuration file.
type Config struct {
	Stopper   StopperConfig   `yaml:"stopper"`
	Assistant AssistantConfig `yaml:"assistant"`
	Judge0    Judge0Config    `yaml:"judge0"`
	Session   SessionConfig   `yaml:"session"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// StopperConfig is the code stopper section.
// StopperConfig - секция настроек code stopper.
type StopperConfig struct {
	Enabled      bool          `yaml:"enabled"`
	DismissAfter time.Duration `yaml:"dismiss_after" validate:"gte=0"`
	// Forced is set by --no-stopper. Saved preferences do not override a
	// forced value and are not written back.
	Forced bool `yaml:"-"`
}

// AssistantConfig configures the OpenAI-compatible assistant.
type AssistantConfig struct {
	BaseURL      string        `yaml:"base_url" validate:"omitempty,url"`
	APIKey       string        `yaml:"api_key"`
	Model        string        `yaml:"model" validate:"required"`
	AutoExplain  bool          `yaml:"auto_explain"`
	RateInterval time.Duration `yaml:"rate_interval" validate:"gte=0"`
	Burst        int           `yaml:"burst" validate:"gte=0"`
}

// Judge0Config points at a Judge0 CE instance, RapidAPI by default.
// Judge0Config - адрес и ключ сервера Judge0.
type Judge0Config struct {
	URL          string        `yaml:"url" validate:"required,url"`
	APIKey       string        `yaml:"api_key"`
	Host         string        `yaml:"host"`
	Timeout      time.Duration `yaml:"timeout" validate:"gte=0"`
	PollInterval time.Duration `yaml:"poll_interval" validate:"gte=0"`
}

// SessionConfig is where tabs and preferences are kept between runs.
type SessionConfig struct {
	Path     string `yaml:"path"`
	Disabled bool   `yaml:"disabled"`
}

// LogConfig selects the log level and file.
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	File  string `yaml:"file"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr" validate:"omitempty,hostname_port"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Stopper: StopperConfig{
			Enabled:      true,
			DismissAfter: 3 * time.Second,
		},
		Assistant: AssistantConfig{
			BaseURL:      "https://api.openai.com/v1",
			Model:        "gpt-4o-mini",
			RateInterval: 2 * time.Second,
			Burst:        2,
		},
		Judge0: Judge0Config{
			URL:          "https://judge0-ce.p.rapidapi.com",
			Host:         "judge0-ce.p.rapidapi.com",
			Timeout:      60 * time.Second,
			PollInterval: time.Second,
		},
		Session: SessionConfig{
			Path: filepath.Join(stateDir(), "session"),
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(stateDir(), "codestop.log"),
		},
	}
}

// defaultConfigPath is $XDG_CONFIG_HOME/codestop/config.yaml.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "codestop", "config.yaml")
}

func stateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "codestop")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", "codestop")
	}
	return filepath.Join(os.TempDir(), "codestop")
}

// LoadConfig reads path over the defaults, applies environment overrides
// and validates the result. A missing file at the default path is not an
// error; an explicit path must exist.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides secrets and endpoints from the environment.
func (c *Config) applyEnv(getenv func(string) string) {
	if v := firstNonEmpty(getenv("CODESTOP_AI_KEY"), getenv("OPENAI_API_KEY")); v != "" {
		c.Assistant.APIKey = v
	}
	if v := getenv("CODESTOP_AI_MODEL"); v != "" {
		c.Assistant.Model = v
	}
	if v := getenv("CODESTOP_AI_BASE_URL"); v != "" {
		c.Assistant.BaseURL = v
	}
	if v := getenv("JUDGE0_API_KEY"); v != "" {
		c.Judge0.APIKey = v
	}
	if v := getenv("JUDGE0_URL"); v != "" {
		c.Judge0.URL = v
	}
}

// Validate checks the struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
