// Package config holds readahead's built-in defaults.
//
// Defaults are embedded from default.toml at build time. There is no
// configuration file; flags and environment variables override the
// defaults at runtime (handled by the CLI layer).
package config

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed default.toml
var defaultConfigTOML string

// Config is the top-level readahead configuration.
type Config struct {
	BPF     BPFConfig     `toml:"bpf"`
	Symbols SymbolsConfig `toml:"symbols"`
	Logging LoggingConfig `toml:"logging"`
}

// BPFConfig locates the compiled BPF object.
type BPFConfig struct {
	Object string `toml:"object"`
}

// SymbolsConfig selects how kernel symbols are resolved.
type SymbolsConfig struct {
	// Source is "kallsyms" or "btf".
	Source string `toml:"source"`
	// KallsymsPath is read when Source is "kallsyms".
	KallsymsPath string `toml:"kallsyms_path"`
}

// LoggingConfig controls logging behaviour.
type LoggingConfig struct {
	// Level is the log spec (e.g., "warn" or "warn,attach=debug").
	Level string `toml:"level"`
	// Format is the output format: "text" or "json".
	Format string `toml:"format"`
	// Components provides an alternative way to specify per-component levels.
	Components map[string]string `toml:"components"`
}

// ToSpec converts the LoggingConfig to a log spec string.
// If Level is set, it takes precedence. Otherwise, Components are used.
func (c *LoggingConfig) ToSpec() string {
	if c.Level != "" {
		return c.Level
	}
	if len(c.Components) == 0 {
		return ""
	}

	parts := make([]string, 0, len(c.Components)+1)
	parts = append(parts, "warn")
	for component, level := range c.Components {
		parts = append(parts, component+"="+level)
	}
	return strings.Join(parts, ",")
}

// Default returns the configuration decoded from the embedded
// default.toml.
func Default() Config {
	cfg, err := Parse(defaultConfigTOML)
	if err != nil {
		// default.toml is embedded at build time; a decode failure is
		// a build defect.
		panic(fmt.Sprintf("config: invalid embedded default.toml: %v", err))
	}
	return cfg
}

// Parse decodes TOML data. Keys not in Config are rejected.
func Parse(data string) (Config, error) {
	var cfg Config
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}
