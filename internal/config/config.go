// Package config loads and validates the sitegen.yaml configuration.
package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "sitegen.yaml"

// Config is the complete sitegen configuration.
type Config struct {
	Site        SiteConfig        `yaml:"site"`
	Content     ContentConfig     `yaml:"content"`
	Output      OutputConfig      `yaml:"output"`
	Passthrough []PassthroughRule `yaml:"passthrough,omitempty"`
	Plugins     PluginsConfig     `yaml:"plugins"`
	FastBuild   FastBuildConfig   `yaml:"fast_build"`
	Metrics     MetricsConfig     `yaml:"metrics,omitempty"`
}

// SiteConfig describes the site for feeds and absolute URLs.
type SiteConfig struct {
	Title       string `yaml:"title"`
	BaseURL     string `yaml:"base_url"`
	Description string `yaml:"description,omitempty"`
	Author      string `yaml:"author,omitempty"`
}

// ContentConfig locates the markdown sources.
type ContentConfig struct {
	Directory string `yaml:"directory"`
	Pattern   string `yaml:"pattern,omitempty"`
}

// OutputConfig controls where build output goes.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"`
	DataFile  string `yaml:"data_file,omitempty"` // relative to Directory
}

// PassthroughRule copies files matching Pattern into the output directory,
// below Dest when set.
type PassthroughRule struct {
	Pattern string `yaml:"pattern"`
	Dest    string `yaml:"dest,omitempty"`
}

// PluginsConfig toggles the built-in plugins.
type PluginsConfig struct {
	HeadingIDs PluginToggle    `yaml:"heading_ids"`
	Highlight  HighlightConfig `yaml:"syntax_highlight"`
	RSS        RSSConfig       `yaml:"rss"`
}

// PluginToggle enables a plugin that has no options.
type PluginToggle struct {
	Enabled bool `yaml:"enabled"`
}

// HighlightConfig configures code block highlighting.
type HighlightConfig struct {
	Enabled bool   `yaml:"enabled"`
	Style   string `yaml:"style,omitempty"`
}

// RSSConfig configures the per-locale feeds.
type RSSConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format,omitempty"` // rss or atom
	Limit   int    `yaml:"limit,omitempty"`
	Path    string `yaml:"path,omitempty"` // directory below the output directory
}

// FastBuildConfig drops dated content older than CutoffYear.
type FastBuildConfig struct {
	Enabled    bool `yaml:"enabled"`
	CutoffYear int  `yaml:"cutoff_year,omitempty"`
}

// MetricsConfig enables writing Prometheus metrics after a build.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// Load reads configPath, expands ${VAR} references (after loading .env files
// when present), applies defaults and validates the result.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "read configuration").
			Fatal().
			WithContext("path", configPath).
			Build()
	}

	return Parse([]byte(os.ExpandEnv(string(data))))
}

// Parse decodes YAML, applies defaults and validates. Environment expansion
// is the caller's concern.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "decode configuration").Fatal().Build()
	}
	if err := ApplyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadEnvFiles loads .env and .env.local when they exist. Variables already
// set in the process environment are not overwritten.
func loadEnvFiles() error {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryConfig, "load environment file").
				Fatal().
				WithContext("path", name).
				Build()
		}
	}
	return nil
}

// Init writes an example configuration to configPath. An existing file is
// only replaced when force is set.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ValidationError("configuration file already exists, use --force to overwrite").
			WithContext("path", configPath).
			Build()
	}

	example := Config{
		Site: SiteConfig{
			Title:       "My Site",
			BaseURL:     "https://example.org/",
			Description: "Posts, activities and jobs",
		},
		Content: ContentConfig{Directory: DefaultContentDir, Pattern: "**/*.md"},
		Output:  OutputConfig{Directory: DefaultOutputDir, Clean: true, DataFile: DefaultDataFile},
		Passthrough: []PassthroughRule{
			{Pattern: "_redirects"},
			{Pattern: "public/**/*"},
			{Pattern: "assets/{css,js}/**/*"},
			{Pattern: "static/**/*.{png,jpg,svg,webp}", Dest: "img"},
		},
		Plugins: PluginsConfig{
			HeadingIDs: PluginToggle{Enabled: true},
			Highlight:  HighlightConfig{Enabled: true, Style: DefaultHighlightStyle},
			RSS:        RSSConfig{Enabled: true, Format: DefaultFeedFormat, Limit: DefaultFeedLimit, Path: DefaultFeedPath},
		},
		FastBuild: FastBuildConfig{Enabled: false, CutoffYear: 2024},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "encode example configuration").Build()
	}
	// #nosec G306 -- configuration is not secret
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write configuration").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
