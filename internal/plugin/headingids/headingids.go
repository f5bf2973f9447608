// Package headingids adds id attributes to rendered headings.
package headingids

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"

	"git.home.luguber.info/inful/sitegen/internal/plugin"
)

// Name is the registry name of the plugin.
const Name = "heading-ids"

// Plugin enables goldmark's automatic heading IDs.
type Plugin struct {
	plugin.BasePlugin
}

// New returns the heading-ids plugin.
func New() *Plugin { return &Plugin{} }

func (*Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        Name,
		Version:     "v1.0.0",
		Type:        plugin.PluginTypeMarkdown,
		Description: "Generate id attributes for headings",
	}
}

func (*Plugin) MarkdownOptions() []goldmark.Option {
	return []goldmark.Option{goldmark.WithParserOptions(parser.WithAutoHeadingID())}
}
