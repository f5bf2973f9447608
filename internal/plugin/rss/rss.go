// Package rss writes one syndication feed per locale from the published
// posts collections.
package rss

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gorilla/feeds"

	"git.home.luguber.info/inful/sitegen/internal/collections"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/content"
	"git.home.luguber.info/inful/sitegen/internal/helpers"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/plugin"
)

// Name is the registry name of the plugin.
const Name = "rss"

const excerptRunes = 280

// Options configures the feeds.
type Options struct {
	Format string // rss or atom
	Limit  int    // items per feed, 0 means unlimited
	Path   string // directory below the output directory
}

// Plugin renders published_posts_<locale> to <Path>/<locale>.xml.
type Plugin struct {
	opts Options
}

// New returns the feed plugin.
func New(opts Options) *Plugin { return &Plugin{opts: opts} }

func (*Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        Name,
		Version:     "v1.0.0",
		Type:        plugin.PluginTypeFeed,
		Description: "RSS or Atom feed of published posts per locale",
	}
}

func (p *Plugin) Validate(cfg *config.Config) error {
	if cfg == nil || cfg.Site.BaseURL == "" {
		return fmt.Errorf("feeds need site.base_url")
	}
	switch p.opts.Format {
	case "rss", "atom":
		return nil
	default:
		return fmt.Errorf("unsupported feed format %q", p.opts.Format)
	}
}

func (p *Plugin) Execute(ctx context.Context, pc *plugin.PluginContext) error {
	dir := filepath.Join(pc.OutputDir, p.opts.Path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	for _, locale := range content.Locales {
		if err := ctx.Err(); err != nil {
			return err
		}
		docs := pc.Bindings.Documents(collections.LocaleName(collections.NamePublishedPosts, locale))
		feed, err := p.buildFeed(pc, locale, docs)
		if err != nil {
			return err
		}

		var xml string
		if p.opts.Format == "atom" {
			xml, err = feed.ToAtom()
		} else {
			xml, err = feed.ToRss()
		}
		if err != nil {
			return fmt.Errorf("encode %s feed: %w", locale, err)
		}

		path := filepath.Join(dir, locale+".xml")
		// #nosec G306 -- public output
		if err := os.WriteFile(path, []byte(xml), 0o644); err != nil {
			return err
		}
		pc.Logger.Debug("Wrote feed", logfields.Locale(locale), logfields.Path(path), logfields.Count(len(feed.Items)))
	}
	return nil
}

func (p *Plugin) buildFeed(pc *plugin.PluginContext, locale string, docs []*content.Document) (*feeds.Feed, error) {
	site := pc.Config.Site
	abs := helpers.AbsoluteURL(site.BaseURL)

	if p.opts.Limit > 0 {
		docs = helpers.Limit(docs, p.opts.Limit)
	}

	feed := &feeds.Feed{
		Title:       fmt.Sprintf("%s (%s)", site.Title, locale),
		Link:        &feeds.Link{Href: abs("/" + locale + "/")},
		Description: site.Description,
		Id:          abs(fmt.Sprintf("/%s/%s.xml", p.opts.Path, locale)),
		Created:     pc.Now,
	}
	if site.Author != "" {
		feed.Author = &feeds.Author{Name: site.Author}
	}

	for _, doc := range docs {
		item := &feeds.Item{
			Title:       doc.Title(),
			Link:        &feeds.Link{Href: abs(doc.URL)},
			Id:          abs(doc.URL),
			Description: doc.String(content.FieldDescription),
			Created:     doc.Date,
		}
		if pc.Renderer != nil && len(doc.Body) > 0 {
			html, err := pc.Renderer.Render(doc.Body)
			if err != nil {
				return nil, fmt.Errorf("render %s: %w", doc.Path, err)
			}
			item.Content = string(html)
			if item.Description == "" {
				item.Description = pc.Renderer.Excerpt(doc.Body, excerptRunes)
			}
		}
		if doc.Date.After(feed.Updated) {
			feed.Updated = doc.Date
		}
		feed.Items = append(feed.Items, item)
	}
	return feed, nil
}
