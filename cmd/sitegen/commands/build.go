package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/build"
	"git.home.luguber.info/inful/sitegen/internal/config"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output     string `short:"o" help:"Override the output directory"`
	FastBuild  bool   `name:"fast-build" help:"Drop posts, activities and jobs older than the cutoff year"`
	CutoffYear int    `name:"cutoff-year" help:"Cutoff year for --fast-build (implies it)"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, dir, err := root.loadConfig()
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.Output.Directory = b.Output
	}

	ctx, cancel := signalContext()
	defer cancel()

	report, err := runBuild(ctx, g, cfg, build.Options{
		Root:      dir,
		FastBuild: fastBuildOverride(b.FastBuild, b.CutoffYear, cfg),
	})
	if err != nil {
		return err
	}
	printReport(g.Out, report)
	return nil
}

// runBuild runs one build with logging and metrics wired from g and cfg.
func runBuild(ctx context.Context, g *Global, cfg *config.Config, opts build.Options) (*build.Report, error) {
	rec, flush := metricsSink(cfg, opts.Root, g.Logger)
	defer flush()
	opts.Logger = g.Logger
	opts.Recorder = rec
	return build.Run(ctx, cfg, opts)
}

func printReport(w io.Writer, r *build.Report) {
	_, _ = fmt.Fprintf(w, "Built %d documents into %s in %s\n", r.Documents, r.OutputDir, r.Duration.Round(time.Millisecond))
	if r.Filtered > 0 {
		_, _ = fmt.Fprintf(w, "Fast build skipped %d documents\n", r.Filtered)
	}
	_, _ = fmt.Fprintf(w, "Collections: %d, data file: %s\n", len(r.Collections), r.DataFile)
	if r.CopiedFiles > 0 {
		_, _ = fmt.Fprintf(w, "Copied %d static files\n", r.CopiedFiles)
	}
}
