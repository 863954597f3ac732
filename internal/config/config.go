// Package config provides configuration management for Scribe.
// Configuration is loaded from ~/.config/scribe/config.yaml, overlaying a
// set of embedded defaults that also seed the palette with its built-in
// commands.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"scribe/internal/palette"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// DefaultConfigDir is the default directory for Scribe's files, resolved
// under the user config directory.
const DefaultConfigDir = "~/.config/scribe"

// Config holds the Scribe configuration. It is constructed once at startup
// and passed by reference to the components that need it.
type Config struct {
	Inference InferenceConfig `yaml:"inference"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Store     StoreConfig     `yaml:"store"`
	Commands  []CommandConfig `yaml:"commands"`

	// options is the raw flattened view backing GetOption.
	options map[string]any
}

// InferenceConfig configures the text-generation client.
type InferenceConfig struct {
	BaseURL string            `yaml:"base_url"`
	Model   string            `yaml:"model"`
	Context map[string]string `yaml:"context"`
}

// SchedulerConfig configures the proactive refresh schedule.
type SchedulerConfig struct {
	Refresh string `yaml:"refresh"`
}

// StoreConfig configures command persistence. A relative path is resolved
// under the config directory. MaxUserCommands bounds how many non-starred
// saved commands are kept; the oldest are pruned past it.
type StoreConfig struct {
	Path            string `yaml:"path"`
	MaxUserCommands int    `yaml:"max_user_commands"`
}

// CommandConfig is the declaration of a built-in palette command.
type CommandConfig struct {
	Label     string `yaml:"label"`
	Action    string `yaml:"action"`
	Icon      string `yaml:"icon"`
	UserQuery string `yaml:"user_query"`
	Starred   bool   `yaml:"starred"`
	Proactive bool   `yaml:"proactive"`
	Fallback  bool   `yaml:"fallback"`
	Template  bool   `yaml:"template"`
}

// Load reads the configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom(filepath.Join(DefaultConfigDir, "config.yaml"))
}

// LoadFrom reads the configuration from a specific file path. A missing
// file is not an error; the embedded defaults apply.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("invalid embedded defaults: %w", err)
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal(defaultsYAML, &raw); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(ExpandPath(path))
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", path, err)
		}
		var userRaw map[string]any
		if err := yaml.Unmarshal(data, &userRaw); err == nil {
			mergeMaps(raw, userRaw)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg.options = map[string]any{}
	flatten("", raw, cfg.options)

	return cfg, nil
}

// GetOption returns the raw configuration value under a dotted key
// ("inference.model"), or fallback when the key is absent.
func (c *Config) GetOption(key string, fallback any) any {
	if value, ok := c.options[key]; ok {
		return value
	}
	return fallback
}

// StorePath returns the command database path, resolved under the config
// directory when relative.
func (c *Config) StorePath() string {
	path := c.Store.Path
	if path == "" {
		path = "commands.db"
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(DefaultConfigDir, path)
	}
	return ExpandPath(path)
}

// BuiltinCommands builds the palette commands declared in the
// configuration. Identities are derived from the labels so a builtin keeps
// its usage history across runs.
func (c *Config) BuiltinCommands() []*palette.Command {
	commands := make([]*palette.Command, 0, len(c.Commands))

	for _, decl := range c.Commands {
		if decl.Label == "" || decl.Action == "" {
			continue
		}

		cmd := palette.New(decl.Label, decl.Action)
		cmd.UUID = builtinUUID(decl.Label)
		if decl.Icon != "" {
			cmd.IconName = decl.Icon
		}
		cmd.UserQuery = decl.UserQuery
		cmd.Starred = decl.Starred
		cmd.Proactive = decl.Proactive
		cmd.Fallback = decl.Fallback
		cmd.Template = decl.Template
		cmd.Builtin = true

		commands = append(commands, cmd)
	}

	return commands
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}

// mergeMaps overlays src onto dst, descending into nested maps.
func mergeMaps(dst, src map[string]any) {
	for key, value := range src {
		if srcMap, ok := value.(map[string]any); ok {
			if dstMap, ok := dst[key].(map[string]any); ok {
				mergeMaps(dstMap, srcMap)
				continue
			}
		}
		dst[key] = value
	}
}

// flatten turns nested maps into dotted keys ("inference.base_url").
func flatten(prefix string, value any, into map[string]any) {
	nested, ok := value.(map[string]any)
	if !ok {
		into[prefix] = value
		return
	}

	for key, child := range nested {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		flatten(name, child, into)
	}
}
