package site

import (
	"git.home.luguber.info/inful/sitegen/internal/collections"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/helpers"
	"git.home.luguber.info/inful/sitegen/internal/passthrough"
	"git.home.luguber.info/inful/sitegen/internal/plugin"
	"git.home.luguber.info/inful/sitegen/internal/plugin/headingids"
	"git.home.luguber.info/inful/sitegen/internal/plugin/highlight"
	"git.home.luguber.info/inful/sitegen/internal/plugin/rss"
)

// Overrides adjust a registration for one invocation, e.g. from CLI flags.
type Overrides struct {
	FastBuild *collections.FastBuild
}

// Default builds the registration described by cfg.
func Default(cfg *config.Config, ov Overrides) (*Registration, error) {
	var plugins []plugin.Plugin
	if cfg.Plugins.HeadingIDs.Enabled {
		plugins = append(plugins, headingids.New())
	}
	if cfg.Plugins.Highlight.Enabled {
		plugins = append(plugins, highlight.New(cfg.Plugins.Highlight.Style))
	}
	if cfg.Plugins.RSS.Enabled {
		plugins = append(plugins, rss.New(rss.Options{
			Format: cfg.Plugins.RSS.Format,
			Limit:  cfg.Plugins.RSS.Limit,
			Path:   cfg.Plugins.RSS.Path,
		}))
	}

	rules := make([]passthrough.Rule, 0, len(cfg.Passthrough))
	for _, r := range cfg.Passthrough {
		rules = append(rules, passthrough.Rule{Pattern: r.Pattern, Dest: r.Dest})
	}

	fast := collections.FastBuild{Enabled: cfg.FastBuild.Enabled, CutoffYear: cfg.FastBuild.CutoffYear}
	if ov.FastBuild != nil {
		fast = *ov.FastBuild
	}

	return NewRegistration(Inputs{
		Plugins:     plugins,
		Collections: collections.Definitions(),
		Helpers:     helpers.Builtin(cfg.Site.BaseURL),
		Passthrough: rules,
		FastBuild:   fast,
	})
}
