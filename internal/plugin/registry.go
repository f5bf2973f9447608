package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/yuin/goldmark"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// Registry manages plugin registration for one build.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

// NewRegistry creates a new empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[string]Plugin)}
}

// Register adds a plugin. A plugin name can only be registered once.
func (r *Registry) Register(p Plugin) error {
	if p == nil {
		return fmt.Errorf("cannot register nil plugin")
	}

	metadata := p.Metadata()
	if err := metadata.Validate(); err != nil {
		return fmt.Errorf("invalid plugin metadata: %w", err)
	}
	if _, ok := p.(MarkdownPlugin); metadata.Type == PluginTypeMarkdown && !ok {
		return fmt.Errorf("plugin %s is typed markdown but provides no markdown options", metadata.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.plugins[metadata.Name]; exists {
		return fmt.Errorf("plugin %s already registered as %s", metadata.Name, existing.Metadata())
	}
	r.plugins[metadata.Name] = p
	return nil
}

// List returns all registered plugins ordered by name.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]Plugin, 0, len(names))
	for _, name := range names {
		result = append(result, r.plugins[name])
	}
	return result
}

// ListByType returns all plugins of a specific type, ordered by name.
func (r *Registry) ListByType(pluginType PluginType) []Plugin {
	var result []Plugin
	for _, p := range r.List() {
		if p.Metadata().Type == pluginType {
			result = append(result, p)
		}
	}
	return result
}

// MarkdownOptions collects the goldmark options of every markdown plugin.
func (r *Registry) MarkdownOptions() []goldmark.Option {
	var opts []goldmark.Option
	for _, p := range r.ListByType(PluginTypeMarkdown) {
		if mp, ok := p.(MarkdownPlugin); ok {
			opts = append(opts, mp.MarkdownOptions()...)
		}
	}
	return opts
}

// ValidateAll runs Validate on every plugin and returns the first failure.
func (r *Registry) ValidateAll(pc *PluginContext) error {
	for _, p := range r.List() {
		if err := p.Validate(pc.Config); err != nil {
			return ferrors.PluginError(p.Metadata().Name, "invalid configuration").
				WithCause(err).
				Build()
		}
	}
	return nil
}

// ExecuteAll runs every plugin in name order. Execution stops at the first
// error or when ctx is canceled.
func (r *Registry) ExecuteAll(ctx context.Context, pc *PluginContext) error {
	logger := pc.Logger
	if logger == nil {
		logger = slog.Default()
	}
	for _, p := range r.List() {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := p.Metadata().Name
		if err := p.Execute(ctx, pc.WithLogger(logger.With(logfields.Plugin(name)))); err != nil {
			return ferrors.PluginError(name, "execution failed").
				WithCause(err).
				Build()
		}
	}
	return nil
}
