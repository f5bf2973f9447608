// Package plugin defines the extension points of a site build: markdown
// extensions, feed writers and asset producers.
package plugin

import (
	"context"
	"fmt"

	"github.com/yuin/goldmark"

	"git.home.luguber.info/inful/sitegen/internal/config"
)

// Plugin is a named build extension.
type Plugin interface {
	// Metadata returns the plugin's identity.
	Metadata() PluginMetadata

	// Validate checks whether the plugin can run with cfg.
	Validate(cfg *config.Config) error

	// Execute runs the plugin after collections have been derived.
	Execute(ctx context.Context, pluginCtx *PluginContext) error
}

// MarkdownPlugin contributes goldmark options to the body renderer. Its
// Execute is usually a no-op.
type MarkdownPlugin interface {
	Plugin
	MarkdownOptions() []goldmark.Option
}

// PluginMetadata describes a plugin's identity.
type PluginMetadata struct {
	// Name is the unique plugin identifier (e.g. "rss").
	Name string

	// Version is the plugin version (e.g. "v1.0.0").
	Version string

	Type        PluginType
	Description string
}

// String returns a human-readable representation of the plugin metadata.
func (m PluginMetadata) String() string {
	return fmt.Sprintf("%s@%s (%s)", m.Name, m.Version, m.Type)
}

// Validate checks if the plugin metadata is valid.
func (m PluginMetadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	if !m.Type.IsValid() {
		return fmt.Errorf("invalid plugin type: %s", m.Type)
	}
	return nil
}

// PluginType identifies the category of plugin.
type PluginType string

const (
	// PluginTypeMarkdown extends body rendering.
	PluginTypeMarkdown PluginType = "markdown"

	// PluginTypeFeed turns derived collections into syndication files.
	PluginTypeFeed PluginType = "feed"

	// PluginTypeAssets writes additional files into the output directory.
	PluginTypeAssets PluginType = "assets"
)

// IsValid returns true if the plugin type is recognized.
func (t PluginType) IsValid() bool {
	switch t {
	case PluginTypeMarkdown, PluginTypeFeed, PluginTypeAssets:
		return true
	default:
		return false
	}
}

func (t PluginType) String() string {
	return string(t)
}

// BasePlugin provides default implementations for optional methods.
// Plugins can embed this to avoid implementing them.
type BasePlugin struct{}

// Validate accepts any configuration.
func (BasePlugin) Validate(*config.Config) error { return nil }

// Execute does nothing.
func (BasePlugin) Execute(context.Context, *PluginContext) error { return nil }
