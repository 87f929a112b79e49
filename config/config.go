// Package config loads the optional mvu.yaml that tunes the terminal host.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"maps"
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"
	"gopkg.in/yaml.v3"
)

// FileName is the file LoadOptional looks for.
const FileName = "mvu.yaml"

// Config represents the optional mvu.yaml configuration.
type Config struct {
	// Mount is the id of the document node the root component renders into.
	Mount   string           `yaml:"mount,omitempty"`
	Theme   string           `yaml:"theme,omitempty"` // auto, dark or light
	Mouse   *bool            `yaml:"mouse,omitempty"`
	QuitKey string           `yaml:"quit_key,omitempty"`
	Log     LogConfig        `yaml:"log"`
	Classes map[string]Style `yaml:"classes,omitempty"`
}

// LogConfig sends the log to File. The terminal belongs to the UI, so without
// a file nothing is logged.
type LogConfig struct {
	File string `yaml:"file,omitempty"`
	// Source adds the file:line of the call to every entry.
	Source bool `yaml:"source,omitempty"`
}

// Style describes how text of a class is drawn. Colors are names or #rrggbb.
type Style struct {
	FG        string `yaml:"fg,omitempty"`
	BG        string `yaml:"bg,omitempty"`
	Bold      bool   `yaml:"bold,omitempty"`
	Italic    bool   `yaml:"italic,omitempty"`
	Underline bool   `yaml:"underline,omitempty"`
	Reverse   bool   `yaml:"reverse,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Mount:   "app",
		Theme:   "auto",
		QuitKey: "Esc",
	}
}

// Load reads the configuration at path and fills unset fields with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// LoadOptional reads mvu.yaml in dir if present.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Parse decodes YAML data on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	cfg.Mount = strings.TrimSpace(cfg.Mount)
	if cfg.Mount == "" {
		cfg.Mount = Default().Mount
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch c.Theme {
	case "", "auto", "dark", "light":
	default:
		return fmt.Errorf("invalid theme %q: want auto, dark or light", c.Theme)
	}
	if strings.TrimSpace(c.QuitKey) == "" {
		return errors.New("quit_key must not be empty")
	}
	if _, ok := LookupKey(c.QuitKey); !ok {
		return fmt.Errorf("invalid quit_key %q: want a key name such as Esc or Ctrl-Q", c.QuitKey)
	}

	for _, name := range slices.Sorted(maps.Keys(c.Classes)) {
		st := c.Classes[name]
		for _, col := range []string{st.FG, st.BG} {
			if _, ok := LookupColor(col); !ok {
				return fmt.Errorf("class %q: unknown color %q", name, col)
			}
		}
	}
	return nil
}

// LookupKey finds a key by its tcell name ("Esc", "Ctrl-Q"), ignoring case
// and accepting '+' for '-'.
func LookupKey(name string) (tcell.Key, bool) {
	name = strings.ReplaceAll(strings.TrimSpace(name), "+", "-")
	for k, n := range tcell.KeyNames {
		if strings.EqualFold(n, name) {
			return k, true
		}
	}
	return 0, false
}

// LookupColor resolves a color name or #rrggbb. Empty and "default" mean the
// terminal's own color.
func LookupColor(name string) (tcell.Color, bool) {
	if name == "" || name == "default" {
		return tcell.ColorDefault, true
	}
	c := tcell.GetColor(name)
	return c, c != tcell.ColorDefault
}

// MouseEnabled reports whether the host should capture the mouse. Default on.
func (c *Config) MouseEnabled() bool { return c.Mouse == nil || *c.Mouse }
