package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/build"
	"git.home.luguber.info/inful/sitegen/internal/content"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/taxonomy"
)

// CollectionsCmd implements the 'collections' command.
type CollectionsCmd struct {
	Name       string `arg:"" optional:"" help:"Show the members of one collection"`
	JSON       bool   `help:"Print JSON instead of a table"`
	At         string `help:"Reference time for publication filters (RFC 3339 or YYYY-MM-DD)"`
	FastBuild  bool   `name:"fast-build" help:"Apply the fast-build pre-filter"`
	CutoffYear int    `name:"cutoff-year" help:"Cutoff year for --fast-build (implies it)"`
}

func (c *CollectionsCmd) Run(g *Global, root *CLI) error {
	cfg, dir, err := root.loadConfig()
	if err != nil {
		return err
	}

	opts := build.Options{
		Root:      dir,
		Logger:    g.Logger,
		FastBuild: fastBuildOverride(c.FastBuild, c.CutoffYear, cfg),
	}
	if c.At != "" {
		at, ok := content.ParseTime(c.At)
		if !ok {
			return ferrors.ValidationError("invalid --at time").WithContext("at", c.At).Build()
		}
		opts.Now = at
	}

	ctx, cancel := signalContext()
	defer cancel()

	d, err := build.Derive(ctx, cfg, opts)
	if err != nil {
		return err
	}

	if c.Name == "" {
		return c.printSummary(g, d)
	}
	if _, ok := d.Bindings[c.Name]; !ok {
		return ferrors.NotFoundError("unknown collection").WithContext("collection", c.Name).Build()
	}
	return c.printMembers(g, d)
}

func (c *CollectionsCmd) printSummary(g *Global, d *build.Derivation) error {
	if c.JSON {
		sizes := make(map[string]int, len(d.Bindings))
		for _, name := range d.Bindings.Names() {
			sizes[name] = d.Bindings.Len(name)
		}
		return writeJSON(g, sizes)
	}

	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "COLLECTION\tITEMS")
	for _, name := range d.Registration.CollectionNames() {
		_, _ = fmt.Fprintf(tw, "%s\t%d\n", name, d.Bindings.Len(name))
	}
	_, _ = fmt.Fprintf(tw, "\n%d documents in pool\n", len(d.Documents))
	return tw.Flush()
}

func (c *CollectionsCmd) printMembers(g *Global, d *build.Derivation) error {
	if c.JSON {
		return writeJSON(g, d.Bindings[c.Name])
	}

	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	switch v := d.Bindings[c.Name].(type) {
	case []*content.Document:
		_, _ = fmt.Fprintln(tw, "DATE\tLOCALE\tURL\tTITLE")
		for _, doc := range v {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", doc.Date.Format(time.DateOnly), doc.Locale(), doc.URL, doc.Title())
		}
	case []taxonomy.Entry:
		_, _ = fmt.Fprintln(tw, "SLUG\tTITLE")
		for _, e := range v {
			_, _ = fmt.Fprintf(tw, "%s\t%s\n", e.Slug, e.Title)
		}
	}
	return tw.Flush()
}

func writeJSON(g *Global, v any) error {
	enc := json.NewEncoder(g.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
