package build

import (
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/collections"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// Stage names used for logging and metrics.
const (
	StageLoad        = "load"
	StagePrefilter   = "prefilter"
	StageDerive      = "derive"
	StageWriteData   = "write_data"
	StagePlugins     = "plugins"
	StagePassthrough = "passthrough"
)

// Options controls a single build.
type Options struct {
	// Root is the directory relative paths in the configuration resolve
	// against. Defaults to the working directory.
	Root string

	// Now is the reference time for publication filters. Defaults to time.Now().
	Now time.Time

	// FastBuild overrides the configured fast-build pre-filter.
	FastBuild *collections.FastBuild

	// Registration replaces the one derived from the configuration.
	Registration *site.Registration

	Logger   *slog.Logger
	Recorder metrics.Recorder
}

// BuildStatus represents the outcome of a build execution.
type BuildStatus string

const (
	BuildStatusSuccess   BuildStatus = "success"
	BuildStatusFailed    BuildStatus = "failed"
	BuildStatusCancelled BuildStatus = "cancelled"
)

// IsSuccess returns true if the build completed successfully.
func (s BuildStatus) IsSuccess() bool {
	return s == BuildStatusSuccess
}

// Report summarises a build. It is returned even when the build fails.
type Report struct {
	BuildID   string        `json:"build_id"`
	Status    BuildStatus   `json:"status"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`

	Documents   int            `json:"documents"`
	Filtered    int            `json:"filtered"` // dropped by the fast-build pre-filter
	Collections map[string]int `json:"collections"`
	Plugins     []string       `json:"plugins"`
	CopiedFiles int            `json:"copied_files"`

	OutputDir string `json:"output_dir"`
	DataFile  string `json:"data_file"`
}
