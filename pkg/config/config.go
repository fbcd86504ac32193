package config

import (
	"strings"
	"time"

	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/paths"
)

// Config is the complete application configuration.
type Config struct {
	Root      RootConfig      `koanf:"root" toml:"root"`
	Listing   ListingConfig   `koanf:"listing" toml:"listing"`
	Search    SearchConfig    `koanf:"search" toml:"search"`
	Browser   BrowserConfig   `koanf:"browser" toml:"browser"`
	Delete    DeleteConfig    `koanf:"delete" toml:"delete"`
	Templates TemplatesConfig `koanf:"templates" toml:"templates"`
	Watch     WatchConfig     `koanf:"watch" toml:"watch"`
	Output    OutputConfig    `koanf:"output" toml:"output"`
}

// RootConfig controls root resolution.
type RootConfig struct {
	Path       string   `koanf:"path" toml:"path"`
	Roots      []string `koanf:"roots" toml:"roots"`
	AutoDetect bool     `koanf:"auto_detect" toml:"auto_detect"`
	Markers    []string `koanf:"markers" toml:"markers"`
	Fallback   string   `koanf:"fallback" toml:"fallback"`
}

type ListingConfig struct {
	ShowHidden bool     `koanf:"show_hidden" toml:"show_hidden"`
	Extensions []string `koanf:"extensions" toml:"extensions"`
}

type SearchConfig struct {
	Mode       string `koanf:"mode" toml:"mode"`
	Recursive  bool   `koanf:"recursive" toml:"recursive"`
	MaxResults int    `koanf:"max_results" toml:"max_results"`
}

type BrowserConfig struct {
	AutoOpen bool `koanf:"auto_open" toml:"auto_open"`
}

type DeleteConfig struct {
	UseTrash bool   `koanf:"use_trash" toml:"use_trash"`
	TrashDir string `koanf:"trash_dir" toml:"trash_dir"`
}

type TemplatesConfig struct {
	Dir        string            `koanf:"dir" toml:"dir"`
	Extensions []string          `koanf:"extensions" toml:"extensions"`
	Defaults   map[string]string `koanf:"defaults" toml:"defaults"`
	// Strict rejects values for placeholders a template does not declare.
	Strict bool `koanf:"strict" toml:"strict"`
}

type WatchConfig struct {
	Enabled  bool     `koanf:"enabled" toml:"enabled"`
	Debounce Duration `koanf:"debounce" toml:"debounce"`
}

// Duration is a time.Duration written as "250ms" in TOML.
type Duration time.Duration

// Std returns the standard library duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

type OutputConfig struct {
	Format string `koanf:"format" toml:"format"`
}

var (
	validFallbacks = []string{string(paths.FallbackLast), string(paths.FallbackHome), string(paths.FallbackNone)}
	validModes     = []string{"substring", "fuzzy"}
	validFormats   = []string{"auto", "term", "text", "json", "yaml"}
)

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	checks := []struct {
		key   string
		value string
		valid []string
	}{
		{"root.fallback", c.Root.Fallback, validFallbacks},
		{"search.mode", c.Search.Mode, validModes},
		{"output.format", c.Output.Format, validFormats},
	}
	for _, check := range checks {
		if !contains(check.valid, check.value) {
			return errors.Newf(errors.ErrInvalidInput, "invalid %s %q (want one of %s)",
				check.key, check.value, strings.Join(check.valid, ", ")).
				WithDetail("key", check.key)
		}
	}
	if c.Search.MaxResults < 0 {
		return errors.New(errors.ErrInvalidInput, "search.max_results cannot be negative")
	}
	if c.Watch.Debounce < 0 {
		return errors.New(errors.ErrInvalidInput, "watch.debounce cannot be negative")
	}
	return nil
}

// ResolverOptions maps the root settings onto the path resolver.
func (c *Config) ResolverOptions() paths.ResolverOptions {
	return paths.ResolverOptions{
		AutoDetect: c.Root.AutoDetect,
		Markers:    c.Root.Markers,
		Fallback:   paths.Fallback(c.Root.Fallback),
	}
}

// TemplatesDir returns the user template folder, defaulting to the data dir.
func (c *Config) TemplatesDir(dirs paths.Dirs) string {
	if c.Templates.Dir != "" {
		return paths.ExpandHome(c.Templates.Dir)
	}
	return dirs.TemplatesDir()
}

// AddRoot appends root to the extra roots unless already present.
func (c *Config) AddRoot(root string) bool {
	if contains(c.Root.Roots, root) {
		return false
	}
	c.Root.Roots = append(c.Root.Roots, root)
	return true
}

// RemoveRoot drops root from the extra roots.
func (c *Config) RemoveRoot(root string) bool {
	for i, r := range c.Root.Roots {
		if r == root {
			c.Root.Roots = append(c.Root.Roots[:i], c.Root.Roots[i+1:]...)
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
