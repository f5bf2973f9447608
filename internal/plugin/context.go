package plugin

import (
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/collections"
	"git.home.luguber.info/inful/sitegen/internal/config"
)

// BodyRenderer turns markdown bodies into HTML and plain-text excerpts.
type BodyRenderer interface {
	Render(body []byte) ([]byte, error)
	Excerpt(body []byte, maxRunes int) string
}

// PluginContext gives plugins access to the state of the running build.
type PluginContext struct {
	Logger *slog.Logger

	// Config is the validated site configuration.
	Config *config.Config

	// OutputDir is the resolved output directory.
	OutputDir string

	// BuildID uniquely identifies this build.
	BuildID string

	// Bindings holds every derived collection by name.
	Bindings collections.Bindings

	// Renderer renders document bodies with all markdown plugins applied.
	Renderer BodyRenderer

	// Now is the reference time the collections were derived with.
	Now time.Time
}

// WithLogger returns a copy of the context that logs through logger.
func (pc *PluginContext) WithLogger(logger *slog.Logger) *PluginContext {
	cp := *pc
	cp.Logger = logger
	return &cp
}
