package commands

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"git.home.luguber.info/inful/sitegen/internal/build"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	FastBuild  bool `name:"fast-build" help:"Drop posts, activities and jobs older than the cutoff year"`
	CutoffYear int  `name:"cutoff-year" help:"Cutoff year for --fast-build (implies it)"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, dir, err := root.loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	opts := build.Options{Root: dir, FastBuild: fastBuildOverride(w.FastBuild, w.CutoffYear, cfg)}
	rebuild := func(ctx context.Context) error {
		report, err := runBuild(ctx, g, cfg, opts)
		if err == nil {
			printReport(g.Out, report)
		}
		return err
	}

	if err := rebuild(ctx); err != nil {
		g.Logger.Warn("Initial build failed; waiting for changes", logfields.Error(err))
	}

	return watch.Run(ctx, watchDirs(cfg, dir), rebuild,
		watch.WithLogger(g.Logger),
		watch.WithIgnore(resolve(dir, cfg.Output.Directory)))
}

// watchDirs returns the content directory plus the existing static base
// directory of every passthrough rule.
func watchDirs(cfg *config.Config, root string) []string {
	dirs := []string{resolve(root, cfg.Content.Directory)}
	seen := map[string]bool{dirs[0]: true}
	for _, rule := range cfg.Passthrough {
		base, _ := doublestar.SplitPattern(rule.Pattern)
		d := resolve(root, filepath.FromSlash(base))
		if seen[d] {
			continue
		}
		seen[d] = true
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}
