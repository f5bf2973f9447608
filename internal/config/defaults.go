package config

import (
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/content"
)

// Default values applied when the configuration leaves a field empty.
const (
	DefaultContentDir     = "content"
	DefaultOutputDir      = "_site"
	DefaultDataFile       = "_data/collections.json"
	DefaultFeedPath       = "feed"
	DefaultFeedFormat     = "rss"
	DefaultFeedLimit      = 20
	DefaultHighlightStyle = "github"
)

// DefaultApplier fills in defaults for one configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

type contentDefaults struct{}

func (contentDefaults) Domain() string { return "content" }

func (contentDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Content.Directory == "" {
		cfg.Content.Directory = DefaultContentDir
	}
	if cfg.Content.Pattern == "" {
		cfg.Content.Pattern = content.DefaultPattern
	}
	return nil
}

type outputDefaults struct{}

func (outputDefaults) Domain() string { return "output" }

func (outputDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutputDir
	}
	if cfg.Output.DataFile == "" {
		cfg.Output.DataFile = DefaultDataFile
	}
	return nil
}

type pluginDefaults struct{}

func (pluginDefaults) Domain() string { return "plugins" }

func (pluginDefaults) ApplyDefaults(cfg *Config) error {
	rss := &cfg.Plugins.RSS
	rss.Format = strings.ToLower(strings.TrimSpace(rss.Format))
	if rss.Format == "" {
		rss.Format = DefaultFeedFormat
	}
	if rss.Limit == 0 {
		rss.Limit = DefaultFeedLimit
	}
	if rss.Path == "" {
		rss.Path = DefaultFeedPath
	}
	if cfg.Plugins.Highlight.Style == "" {
		cfg.Plugins.Highlight.Style = DefaultHighlightStyle
	}
	return nil
}

func defaultAppliers() []DefaultApplier {
	return []DefaultApplier{contentDefaults{}, outputDefaults{}, pluginDefaults{}}
}

// ApplyDefaults runs every domain applier in order.
func ApplyDefaults(cfg *Config) error {
	for _, a := range defaultAppliers() {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}
