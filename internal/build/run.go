package build

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitegen/internal/collections"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/content"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/observability"
	"git.home.luguber.info/inful/sitegen/internal/passthrough"
	"git.home.luguber.info/inful/sitegen/internal/plugin"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// Derivation is the in-memory result of loading and deriving collections.
type Derivation struct {
	Documents    []*content.Document // pool after the pre-filter
	Filtered     int
	Bindings     collections.Bindings
	Registration *site.Registration
	Now          time.Time
}

type runner struct {
	cfg      *config.Config
	root     string
	now      time.Time
	reg      *site.Registration
	logger   *slog.Logger
	recorder metrics.Recorder
}

func newRunner(cfg *config.Config, opts Options) (*runner, error) {
	if cfg == nil {
		return nil, ferrors.ConfigError("config required").Build()
	}
	r := &runner{
		cfg:      cfg,
		root:     opts.Root,
		now:      opts.Now,
		reg:      opts.Registration,
		logger:   opts.Logger,
		recorder: opts.Recorder,
	}
	if r.root == "" {
		r.root = "."
	}
	if r.now.IsZero() {
		r.now = time.Now()
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.recorder == nil {
		r.recorder = metrics.NoopRecorder{}
	}
	if r.reg == nil {
		reg, err := site.Default(cfg, site.Overrides{FastBuild: opts.FastBuild})
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid site registration").Build()
		}
		r.reg = reg
	}
	return r, nil
}

func (r *runner) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(r.root, p)
}

// stage runs fn with the stage name in the logging context and records its
// duration and result.
func (r *runner) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx = observability.WithStage(ctx, name)
	start := time.Now()
	err := fn(ctx)
	d := time.Since(start)
	r.recorder.ObserveStageDuration(name, d)

	switch {
	case err == nil:
		r.recorder.IncStageResult(name, metrics.ResultSuccess)
		observability.DebugContext(ctx, "Stage complete", logfields.Duration(d))
	case isCanceled(err):
		r.recorder.IncStageResult(name, metrics.ResultCanceled)
		observability.WarnContext(ctx, "Stage canceled")
	default:
		r.recorder.IncStageResult(name, metrics.ResultFatal)
		observability.ErrorContext(ctx, "Stage failed", logfields.Error(err))
	}
	return err
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Derive loads the content pool and derives every registered collection
// without writing anything.
func Derive(ctx context.Context, cfg *config.Config, opts Options) (*Derivation, error) {
	r, err := newRunner(cfg, opts)
	if err != nil {
		return nil, err
	}
	ctx = observability.WithLogger(ctx, r.logger)
	return r.derive(ctx)
}

func (r *runner) derive(ctx context.Context) (*Derivation, error) {
	d := &Derivation{Registration: r.reg, Now: r.now}

	var pool []*content.Document
	err := r.stage(ctx, StageLoad, func(ctx context.Context) error {
		dir := r.path(r.cfg.Content.Directory)
		info, err := os.Stat(dir)
		if err != nil {
			return ferrors.NotFoundError("content directory not found").
				WithCause(err).
				WithContext("path", dir).
				Build()
		}
		if !info.IsDir() {
			return ferrors.FileSystemError("content path is not a directory").
				WithContext("path", dir).
				Build()
		}
		loader := content.NewLoader(dir, r.cfg.Content.Pattern, observability.ContextLogger(ctx))
		pool, err = loader.Load(ctx)
		if err != nil {
			return err
		}
		r.recorder.SetDocumentCount(len(pool))
		observability.InfoContext(ctx, "Loaded content", logfields.Path(dir), logfields.Count(len(pool)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = r.stage(ctx, StagePrefilter, func(ctx context.Context) error {
		fb := r.reg.FastBuild()
		d.Documents = fb.Apply(pool)
		d.Filtered = len(pool) - len(d.Documents)
		if fb.Enabled {
			observability.InfoContext(ctx, "Fast build pre-filter applied",
				slog.Int("cutoff_year", fb.CutoffYear),
				slog.Int("dropped", d.Filtered))
		}
		return ctx.Err()
	})
	if err != nil {
		return nil, err
	}

	err = r.stage(ctx, StageDerive, func(ctx context.Context) error {
		bindings, err := collections.DeriveAll(r.reg.Collections(), d.Documents, r.now)
		if err != nil {
			return ferrors.BuildError("derive collections").WithCause(err).Build()
		}
		for _, name := range bindings.Names() {
			n := bindings.Len(name)
			r.recorder.SetCollectionSize(name, n)
			observability.DebugContext(ctx, "Derived collection", logfields.Collection(name), logfields.Count(n))
		}
		d.Bindings = bindings
		return ctx.Err()
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Run executes a complete build and returns its report. The report is
// populated as far as the build got, also when an error is returned.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Report, error) {
	start := time.Now()
	report := &Report{
		BuildID:     uuid.NewString(),
		StartTime:   start,
		Collections: map[string]int{},
	}

	r, err := newRunner(cfg, opts)
	if err != nil {
		return finish(ctx, report, metrics.NoopRecorder{}, err)
	}

	ctx = observability.WithLogger(ctx, r.logger)
	ctx = observability.WithBuildID(ctx, report.BuildID)
	observability.InfoContext(ctx, "Build started", logfields.Path(r.path(cfg.Content.Directory)))

	report.OutputDir = r.path(cfg.Output.Directory)
	report.DataFile = filepath.Join(report.OutputDir, filepath.FromSlash(cfg.Output.DataFile))
	report.Plugins = r.reg.PluginNames()

	d, err := r.derive(ctx)
	if err != nil {
		return finish(ctx, report, r.recorder, err)
	}
	report.Documents = len(d.Documents)
	report.Filtered = d.Filtered
	for _, name := range d.Bindings.Names() {
		report.Collections[name] = d.Bindings.Len(name)
	}

	err = r.stage(ctx, StageWriteData, func(ctx context.Context) error {
		if cfg.Output.Clean {
			if err := cleanOutput(report.OutputDir, r.path(cfg.Content.Directory)); err != nil {
				return err
			}
		}
		if err := writeDataFile(report.DataFile, report.BuildID, r.now, d.Bindings); err != nil {
			return err
		}
		observability.InfoContext(ctx, "Wrote collections data", logfields.File(report.DataFile))
		return nil
	})
	if err != nil {
		return finish(ctx, report, r.recorder, err)
	}

	err = r.stage(ctx, StagePlugins, func(ctx context.Context) error {
		registry := r.reg.PluginRegistry()
		pc := &plugin.PluginContext{
			Logger:    observability.ContextLogger(ctx),
			Config:    cfg,
			OutputDir: report.OutputDir,
			BuildID:   report.BuildID,
			Bindings:  d.Bindings,
			Renderer:  markdown.NewRenderer(registry.MarkdownOptions()...),
			Now:       r.now,
		}
		if err := registry.ValidateAll(pc); err != nil {
			return err
		}
		return registry.ExecuteAll(ctx, pc)
	})
	if err != nil {
		return finish(ctx, report, r.recorder, err)
	}

	err = r.stage(ctx, StagePassthrough, func(ctx context.Context) error {
		n, err := passthrough.Copy(ctx, r.root, report.OutputDir, r.reg.Passthrough())
		report.CopiedFiles = n
		r.recorder.AddCopiedFiles(n)
		if n > 0 {
			observability.InfoContext(ctx, "Copied passthrough files", logfields.Count(n))
		}
		return err
	})
	return finish(ctx, report, r.recorder, err)
}

func finish(ctx context.Context, report *Report, rec metrics.Recorder, err error) (*Report, error) {
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	rec.ObserveBuildDuration(report.Duration)

	switch {
	case err == nil:
		report.Status = BuildStatusSuccess
		rec.IncBuildOutcome(metrics.BuildOutcomeSuccess)
		observability.InfoContext(ctx, "Build complete",
			logfields.Count(report.Documents),
			logfields.Duration(report.Duration))
	case isCanceled(err):
		report.Status = BuildStatusCancelled
		rec.IncBuildOutcome(metrics.BuildOutcomeCanceled)
	default:
		report.Status = BuildStatusFailed
		rec.IncBuildOutcome(metrics.BuildOutcomeFailed)
	}
	return report, err
}
