package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// configFileUsed tracks the file the last load read, for verbose output.
var configFileUsed string

// GetConfigFileUsed returns the config file the last Load consumed, or
// "" when none was found.
func GetConfigFileUsed() string { return configFileUsed }

// findConfigFile finds the config file to use.
// Priority: explicit path > gridline.yaml > gridline.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"gridline.yaml", "gridline.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load resolves the configuration cascade.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"state_path": DefaultStateFile,
		"view":       DefaultView,
		"verbose":    false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment variables (GRIDLINE_ prefix).
	// GRIDLINE_STATE_PATH -> state_path, GRIDLINE_LAYOUT__MIN_COLUMN_WIDTH
	// -> layout.min_column_width.
	if err := k.Load(env.Provider("GRIDLINE_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "GRIDLINE_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags (highest priority)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// Unmarshal over the calibrated defaults so untouched tuning keys
	// keep their values.
	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the grid cannot run with.
func (c *Config) Validate() error {
	if c.StatePath == "" {
		return fmt.Errorf("state_path is required")
	}
	switch c.Density {
	case "", "compact", "comfortable":
	default:
		return fmt.Errorf("invalid density %q (use compact or comfortable)", c.Density)
	}
	t := c.Layout
	if t.NarrowBelow <= 0 || t.MediumBelow <= t.NarrowBelow {
		return fmt.Errorf("layout breakpoints must satisfy 0 < narrow_below < medium_below")
	}
	if t.DominantShare <= 0 || t.DominantShare > 1 {
		return fmt.Errorf("layout.dominant_share must be in (0, 1]")
	}
	if t.MinColumnWidth < 1 || t.MaxColumnWidth < t.MinColumnWidth {
		return fmt.Errorf("layout column width bounds are inconsistent")
	}
	if c.Grid.PageSize < 1 {
		return fmt.Errorf("grid.page_size must be at least 1")
	}
	return nil
}
