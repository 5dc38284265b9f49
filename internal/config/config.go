// Package config loads and stores the bistro configuration file (~/.bistro/config.yaml).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultBaseURL       = "http://localhost:8080/api"
	DefaultTimeout       = 30 * time.Second
	DefaultPageSize      = 10
	DefaultDebounce      = 500 * time.Millisecond
	DefaultOutputFormat  = "table"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultCompatibility = ">=1.0.0, <2.0.0"

	configFileName = "config.yaml"
	outputTypeFile = "file"
)

// ErrConfigNotFound is returned by Load when the file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// Config is the bistro configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	List    ListConfig    `yaml:"list"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`

	// path is where the configuration was loaded from and where Save writes.
	path string
	// envErrs are the environment overrides New rejected.
	envErrs []error
}

// APIConfig is the backend connection.
type APIConfig struct {
	BaseURL       string        `yaml:"base_url"                validate:"required,url"`
	Token         string        `yaml:"token,omitempty"`
	Timeout       time.Duration `yaml:"timeout"                 validate:"min=1s,max=10m"`
	Compatibility string        `yaml:"compatibility,omitempty"`
}

// ListConfig holds list controller settings.
type ListConfig struct {
	PageSize int           `yaml:"page_size" validate:"min=1,max=100"`
	Debounce time.Duration `yaml:"debounce"  validate:"min=0s,max=10s"`
}

// OutputConfig holds output settings of the list command.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" validate:"oneof=table json yaml"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"          validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format"         validate:"oneof=json console"`
	File   string `yaml:"file,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:       DefaultBaseURL,
			Timeout:       DefaultTimeout,
			Compatibility: DefaultCompatibility,
		},
		List: ListConfig{
			PageSize: DefaultPageSize,
			Debounce: DefaultDebounce,
		},
		Output: OutputConfig{
			DefaultFormat: DefaultOutputFormat,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// New returns the configuration from the default file with environment overrides applied.
// A missing or unreadable file yields the defaults. Rejected overrides are kept for
// EnvWarnings.
func New() *Config {
	path, err := DefaultPath()
	if err != nil {
		cfg := Default()
		cfg.envErrs = ApplyEnv(cfg)
		return cfg
	}

	cfg, err := Load(path)
	if err != nil {
		cfg = Default()
		cfg.path = path
	}
	cfg.envErrs = ApplyEnv(cfg)
	return cfg
}

// EnvWarnings returns the environment overrides New rejected. The CLI logs them once
// logging is configured.
func (c *Config) EnvWarnings() []error {
	return c.envErrs
}

// Load reads the file at path on top of the defaults. Fields absent in the file keep
// their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath returns the path of the config file in the config directory.
func DefaultPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Path returns where the configuration is saved.
func (c *Config) Path() string {
	return c.path
}

// SetPath changes where Save writes.
func (c *Config) SetPath(path string) {
	c.path = path
}

// Validate checks every section against its constraints.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q (got %v): %w", fe.Namespace(), fe.ActualTag(), fe.Value(), err)
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save writes the configuration to its path, creating the directory if needed.
func (c *Config) Save() error {
	if c.path == "" {
		path, err := DefaultPath()
		if err != nil {
			return err
		}
		c.path = path
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file %s: %w", c.path, err)
	}
	return nil
}
