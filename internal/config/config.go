package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"dana-report-card/internal/model"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App     AppConfig     `yaml:"app"`
	Dana    DanaConfig    `yaml:"dana"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type DanaConfig struct {
	BaseURL     string        `yaml:"base_url"`
	Cookie      string        `yaml:"cookie"`
	ClientID    string        `yaml:"client_id"`
	Username    string        `yaml:"username"`
	ImplPaths   []string      `yaml:"impl_paths"`
	Timeout     time.Duration `yaml:"timeout"`
	Concurrency int           `yaml:"concurrency"`
}

type ExportConfig struct {
	XLSXPath string `yaml:"xlsx_path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads CONFIG_PATH (default config.yaml) and applies DANA_*
// environment overrides. A missing file is not an error.
func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	return LoadFile(configPath)
}

func LoadFile(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	config.applyEnv()
	config.applyDefaults()

	return &config, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DANA_COOKIE"); v != "" {
		c.Dana.Cookie = v
	}
	if v := os.Getenv("DANA_CLIENT_ID"); v != "" {
		c.Dana.ClientID = v
	}
	if v := os.Getenv("DANA_USERNAME"); v != "" {
		c.Dana.Username = v
	}
	if v := os.Getenv("DANA_BASE_URL"); v != "" {
		c.Dana.BaseURL = v
	}
	if v := os.Getenv("DANA_IMPL_PATH"); v != "" {
		c.Dana.ImplPaths = strings.Split(v, ",")
	}
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "dana-report-card"
	}
	if c.Dana.BaseURL == "" {
		c.Dana.BaseURL = "https://dana.medu.ir/core-api/v1"
	}
	if c.Dana.Timeout <= 0 {
		c.Dana.Timeout = 60 * time.Second
	}
	if c.Dana.Concurrency <= 0 {
		c.Dana.Concurrency = 4
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
}

func (c *Config) Credential() model.Credential {
	return model.Credential{
		Cookie:   c.Dana.Cookie,
		ClientID: c.Dana.ClientID,
		Username: c.Dana.Username,
	}
}
