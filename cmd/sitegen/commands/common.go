// Package commands implements the sitegen subcommands.
package commands

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitegen/internal/collections"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// LogLevelEnv overrides the log level when --verbose is not given.
const LogLevelEnv = "SITEGEN_LOG_LEVEL"

// Global is shared state passed to every command.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"sitegen.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build       BuildCmd       `cmd:"" help:"Derive collections, write the data file, run plugins and copy static files"`
	Collections CollectionsCmd `cmd:"" help:"Print derived collections without writing output"`
	Watch       WatchCmd       `cmd:"" help:"Build, then rebuild whenever content or static files change"`
	Init        InitCmd        `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply(g *Global) error {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: ParseLogLevel(c.Verbose, os.Getenv(LogLevelEnv))})
	g.Logger = slog.New(handler)
	slog.SetDefault(g.Logger)
	return nil
}

// ParseLogLevel returns debug when verbose is set, otherwise the level named
// by env (debug, info, warn, error), defaulting to info.
func ParseLogLevel(verbose bool, env string) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// loadConfig loads the configuration and returns it with the directory its
// relative paths resolve against.
func (c *CLI) loadConfig() (*config.Config, string, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, "", err
	}
	return cfg, filepath.Dir(c.Config), nil
}

// fastBuildOverride turns the --fast-build flags into a pre-filter override.
// It returns nil when the flags leave the configuration alone. Without any
// cutoff year the previous calendar year is kept.
func fastBuildOverride(enabled bool, cutoffYear int, cfg *config.Config) *collections.FastBuild {
	if !enabled && cutoffYear == 0 {
		return nil
	}
	fb := collections.FastBuild{Enabled: true, CutoffYear: cfg.FastBuild.CutoffYear}
	if cutoffYear != 0 {
		fb.CutoffYear = cutoffYear
	}
	if fb.CutoffYear == 0 {
		fb.CutoffYear = time.Now().Year() - 1
	}
	return &fb
}

// metricsSink returns the recorder for a build and a flush function writing
// the textfile when one is configured.
func metricsSink(cfg *config.Config, root string, logger *slog.Logger) (metrics.Recorder, func()) {
	if cfg.Metrics.Textfile == "" {
		return metrics.NoopRecorder{}, func() {}
	}
	path := cfg.Metrics.Textfile
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	return rec, func() {
		if err := metrics.WriteTextfile(reg, path); err != nil {
			logger.Warn("Failed to write metrics textfile", logfields.Path(path), logfields.Error(err))
		}
	}
}
