// Package highlight colours fenced code blocks with chroma.
package highlight

import (
	"fmt"

	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/plugin"
)

// Name is the registry name of the plugin.
const Name = "syntax-highlight"

// Plugin highlights fenced code blocks using a chroma style.
type Plugin struct {
	plugin.BasePlugin
	style string
}

// New returns a highlighter using the named chroma style.
func New(style string) *Plugin { return &Plugin{style: style} }

func (*Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        Name,
		Version:     "v1.0.0",
		Type:        plugin.PluginTypeMarkdown,
		Description: "Syntax highlighting for fenced code blocks",
	}
}

// Validate rejects unknown chroma styles.
func (p *Plugin) Validate(*config.Config) error {
	if _, ok := styles.Registry[p.style]; !ok {
		return fmt.Errorf("unknown highlight style %q", p.style)
	}
	return nil
}

func (p *Plugin) MarkdownOptions() []goldmark.Option {
	return []goldmark.Option{goldmark.WithExtensions(
		highlighting.NewHighlighting(highlighting.WithStyle(p.style)),
	)}
}
