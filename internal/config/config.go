package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultConfigRelPath = ".adfmt/config.yaml"

type APIConfig struct {
	BaseURL        string            `yaml:"base_url"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
	Headers        map[string]string `yaml:"headers"`
}

type PermissionConfig struct {
	Name    string `yaml:"name"`
	Explain string `yaml:"explain"`
}

type DocConfig struct {
	Group       string            `yaml:"group"`
	Description string            `yaml:"description"`
	Permission  PermissionConfig  `yaml:"permission"`
	Placeholder string            `yaml:"placeholder"`
	Mapping     map[string]string `yaml:"mapping"`
	// ErrorExample documents the error shape of probed endpoints; a probe
	// only observes the success path, so the error body comes from here.
	ErrorExample map[string]any `yaml:"error_example"`
}

type MaskConfig struct {
	Fields      []string `yaml:"fields"`
	Replacement string   `yaml:"replacement"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	API    APIConfig    `yaml:"api"`
	Doc    DocConfig    `yaml:"doc"`
	Mask   MaskConfig   `yaml:"mask"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
}

// Load loads YAML config, then applies env overrides.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}
	cfg.SetDefaults()

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		configPath = filepath.Join(home, defaultConfigRelPath)
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func (c *Config) SetDefaults() {
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = 30
	}
	if c.Doc.Placeholder == "" {
		c.Doc.Placeholder = "ready to fill in"
	}
	if len(c.Mask.Fields) == 0 {
		c.Mask.Fields = []string{"password", "secret", "token", "api_key", "access_token", "refresh_token", "credential"}
	}
	if c.Mask.Replacement == "" {
		c.Mask.Replacement = "***REDACTED***"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "./docs"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output.Dir) == "" {
		return errors.New("output.dir cannot be empty")
	}
	if err := ensureWritableDir(c.Output.Dir); err != nil {
		return fmt.Errorf("output.dir not writable: %w", err)
	}
	return nil
}

// ValidateProbe enforces probe-specific requirements.
func (c *Config) ValidateProbe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api.base_url cannot be empty")
	}
	return nil
}

func ensureWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".writable-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

func applyEnvOverrides(c *Config) {
	setString(&c.API.BaseURL, "ADFMT_API_BASE_URL")
	setInt(&c.API.TimeoutSeconds, "ADFMT_API_TIMEOUT_SECONDS")
	setString(&c.Doc.Group, "ADFMT_DOC_GROUP")
	setString(&c.Output.Dir, "ADFMT_OUTPUT_DIR")
	setString(&c.Log.Level, "ADFMT_LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
