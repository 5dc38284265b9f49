package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrUnknownKey is returned by Get and Set for keys outside the configuration.
var ErrUnknownKey = errors.New("unknown config key")

// ErrInvalidEnv wraps environment overrides that ApplyEnv rejected.
var ErrInvalidEnv = errors.New("invalid environment override")

// Environment variables overriding the file.
const (
	EnvHome      = "BISTRO_HOME"
	EnvAPIURL    = "BISTRO_API_URL"
	EnvAPIToken  = "BISTRO_API_TOKEN"
	EnvLogLevel  = "BISTRO_LOG_LEVEL"
	EnvLogFormat = "BISTRO_LOG_FORMAT"
	EnvPageSize  = "BISTRO_PAGE_SIZE"
)

//nolint:gochecknoglobals // Compile-time constant lookup tables.
var (
	logLevels  = []string{"trace", "debug", "info", "warn", "error"}
	logFormats = []string{"json", "console"}
)

type field struct {
	get func(c *Config) string
	set func(c *Config, v string) error
	// secret values are masked by Values.
	secret bool
}

//nolint:gochecknoglobals // Compile-time constant lookup table.
var fields = map[string]field{
	"api.base_url": {
		get: func(c *Config) string { return c.API.BaseURL },
		set: func(c *Config, v string) error { c.API.BaseURL = v; return nil },
	},
	"api.token": {
		get:    func(c *Config) string { return c.API.Token },
		set:    func(c *Config, v string) error { c.API.Token = v; return nil },
		secret: true,
	},
	"api.timeout": {
		get: func(c *Config) string { return c.API.Timeout.String() },
		set: func(c *Config, v string) error { return setDuration(&c.API.Timeout, v) },
	},
	"api.compatibility": {
		get: func(c *Config) string { return c.API.Compatibility },
		set: func(c *Config, v string) error { c.API.Compatibility = v; return nil },
	},
	"list.page_size": {
		get: func(c *Config) string { return strconv.Itoa(c.List.PageSize) },
		set: func(c *Config, v string) error { return setInt(&c.List.PageSize, v) },
	},
	"list.debounce": {
		get: func(c *Config) string { return c.List.Debounce.String() },
		set: func(c *Config, v string) error { return setDuration(&c.List.Debounce, v) },
	},
	"output.default_format": {
		get: func(c *Config) string { return c.Output.DefaultFormat },
		set: func(c *Config, v string) error { c.Output.DefaultFormat = v; return nil },
	},
	"logging.level": {
		get: func(c *Config) string { return c.Logging.Level },
		set: func(c *Config, v string) error { c.Logging.Level = strings.ToLower(v); return nil },
	},
	"logging.format": {
		get: func(c *Config) string { return c.Logging.Format },
		set: func(c *Config, v string) error { c.Logging.Format = strings.ToLower(v); return nil },
	},
	"logging.file": {
		get: func(c *Config) string { return c.Logging.File },
		set: func(c *Config, v string) error { c.Logging.File = v; return nil },
	},
}

// Keys returns every dotted key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of a dotted key such as "api.base_url".
func (c *Config) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return f.get(c), nil
}

// Set parses value into a dotted key. The result is not validated.
func (c *Config) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err := f.set(c, value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

// Values returns every key with its value. Secrets are masked.
func (c *Config) Values() map[string]string {
	out := make(map[string]string, len(fields))
	for k, f := range fields {
		v := f.get(c)
		if f.secret && v != "" {
			v = "********"
		}
		out[k] = v
	}
	return out
}

// ApplyEnv overrides cfg with BISTRO_* environment variables. A value that cannot be
// used leaves its field unchanged and is returned as an ErrInvalidEnv error.
func ApplyEnv(cfg *Config) []error {
	var rejected []error
	reject := func(name, value, reason string) {
		rejected = append(rejected, fmt.Errorf("%w: %s=%q %s", ErrInvalidEnv, name, value, reason))
	}

	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv(EnvAPIToken); v != "" {
		cfg.API.Token = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		if lvl := strings.ToLower(strings.TrimSpace(v)); slices.Contains(logLevels, lvl) {
			cfg.Logging.Level = lvl
		} else {
			reject(EnvLogLevel, v, "is not one of "+strings.Join(logLevels, ", "))
		}
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		if format := strings.ToLower(strings.TrimSpace(v)); slices.Contains(logFormats, format) {
			cfg.Logging.Format = format
		} else {
			reject(EnvLogFormat, v, "is not one of "+strings.Join(logFormats, ", "))
		}
	}
	if v := os.Getenv(EnvPageSize); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.List.PageSize = n
		} else {
			reject(EnvPageSize, v, "is not an integer")
		}
	}
	return rejected
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("not an integer: %q", v)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, v string) error {
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("not a duration: %q", v)
	}
	*dst = d
	return nil
}
