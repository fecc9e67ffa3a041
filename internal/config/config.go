package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/sant0-9/daptalk/internal/usage"
)

// EnvPrefix namespaces environment overrides, e.g. DAPTALK_API_KEY
const EnvPrefix = "DAPTALK"

type Config struct {
	Provider string `yaml:"provider" mapstructure:"provider"`
	APIKey   string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	Model    string `yaml:"model" mapstructure:"model"`
	BaseURL  string `yaml:"base_url,omitempty" mapstructure:"base_url"`

	Usage   UsageConfig   `yaml:"usage" mapstructure:"usage"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`

	path string
}

type UsageConfig struct {
	DailyLimit int `yaml:"daily_limit" mapstructure:"daily_limit"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	File   string `yaml:"file,omitempty" mapstructure:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		Provider: "gemini",
		Model:    "gemini-1.5-flash",
		Usage: UsageConfig{
			DailyLimit: usage.DefaultDailyLimit,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "daptalk"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func Exists() bool {
	path, err := ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func newViper() *viper.Viper {
	d := DefaultConfig()
	v := viper.New()

	v.SetDefault("provider", d.Provider)
	v.SetDefault("api_key", "")
	v.SetDefault("model", d.Model)
	v.SetDefault("base_url", "")
	v.SetDefault("usage.daily_limit", d.Usage.DailyLimit)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.file", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the default config file. See LoadFile.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile layers defaults, the YAML file at path (if present) and
// DAPTALK_* environment variables. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.path = path

	if cfg.Usage.DailyLimit <= 0 {
		cfg.Usage.DailyLimit = usage.DefaultDailyLimit
	}

	return &cfg, nil
}

// Ready reports whether the selected provider has what it needs to run
func (c *Config) Ready() bool {
	p := GetProvider(c.Provider)
	if p == nil {
		return c.Provider == "custom" && c.BaseURL != ""
	}
	return !p.NeedsAPIKey || c.APIKey != ""
}

// Dir is the directory holding the config file, logs and settings
func (c *Config) Dir() (string, error) {
	if c.path != "" {
		return filepath.Dir(c.path), nil
	}
	return ConfigDir()
}

func (c *Config) Save() error {
	path := c.path
	if path == "" {
		var err error
		if path, err = ConfigPath(); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
