package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyAPI     = "api"
	keyList    = "list"
	keyOutput  = "output"
	keyLogging = "logging"
)

// knownTopLevelKeys lists the YAML keys that correspond to exported Config fields.
// Keys not in this list are silently ignored during merge.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var knownTopLevelKeys = map[string]bool{
	keyAPI:     true,
	keyList:    true,
	keyOutput:  true,
	keyLogging: true,
}

// ShallowMergeYAML merges the top-level sections of the YAML file at overlayPath onto
// target. A section present in the overlay replaces the whole section in target; absent
// sections are left unchanged. Fields omitted inside a present section take their
// built-in defaults. The CLI applies --config files this way.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	// Discover which top-level keys are present in the overlay.
	var overlay map[string]interface{}
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	// Empty or comment-only file: nothing to merge.
	if len(overlay) == 0 {
		return nil
	}

	for key, value := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}

		sectionBytes, marshalErr := yaml.Marshal(value)
		if marshalErr != nil {
			return fmt.Errorf("re-marshalling overlay section %q: %w", key, marshalErr)
		}

		if err = unmarshalSection(target, key, sectionBytes); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}

	return nil
}

// unmarshalSection decodes one section onto the built-in defaults of that section, so the
// overlay replaces the whole section while fields it omits keep their default values.
func unmarshalSection(target *Config, key string, data []byte) error {
	defaults := Default()
	switch key {
	case keyAPI:
		v := defaults.API
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.API = v
		return nil
	case keyList:
		v := defaults.List
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.List = v
		return nil
	case keyOutput:
		v := defaults.Output
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Output = v
		return nil
	case keyLogging:
		v := defaults.Logging
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Logging = v
		return nil
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}
