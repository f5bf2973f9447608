// Package site assembles everything a build registers: plugins, derived
// collections, template helpers and passthrough rules.
package site

import (
	"fmt"
	"slices"
	"text/template"

	"git.home.luguber.info/inful/sitegen/internal/collections"
	"git.home.luguber.info/inful/sitegen/internal/helpers"
	"git.home.luguber.info/inful/sitegen/internal/passthrough"
	"git.home.luguber.info/inful/sitegen/internal/plugin"
)

// Inputs lists what a site registers.
type Inputs struct {
	Plugins     []plugin.Plugin
	Collections []collections.Definition
	Helpers     []helpers.Helper
	Passthrough []passthrough.Rule
	FastBuild   collections.FastBuild
}

// Registration is the validated, read-only result of NewRegistration.
// Accessors return copies.
type Registration struct {
	plugins     []plugin.Plugin
	collections []collections.Definition
	helpers     []helpers.Helper
	passthrough []passthrough.Rule
	fastBuild   collections.FastBuild
}

// NewRegistration validates in and captures it. Plugin, collection and
// helper names must be unique and non-empty.
func NewRegistration(in Inputs) (*Registration, error) {
	// Registering into a scratch registry applies its metadata checks.
	reg := plugin.NewRegistry()
	for _, p := range in.Plugins {
		if err := reg.Register(p); err != nil {
			return nil, err
		}
	}

	seen := make(map[string]struct{}, len(in.Collections))
	for _, def := range in.Collections {
		if def.Name == "" || def.Derive == nil {
			return nil, fmt.Errorf("collection %q is incomplete", def.Name)
		}
		if _, dup := seen[def.Name]; dup {
			return nil, fmt.Errorf("collection %q registered twice", def.Name)
		}
		seen[def.Name] = struct{}{}
	}

	if _, err := helpers.FuncMap(in.Helpers); err != nil {
		return nil, err
	}

	for i, rule := range in.Passthrough {
		if rule.Pattern == "" {
			return nil, fmt.Errorf("passthrough rule %d has no pattern", i)
		}
	}

	if in.FastBuild.Enabled && in.FastBuild.CutoffYear <= 0 {
		return nil, fmt.Errorf("fast build needs a cutoff year")
	}

	return &Registration{
		plugins:     slices.Clone(in.Plugins),
		collections: slices.Clone(in.Collections),
		helpers:     slices.Clone(in.Helpers),
		passthrough: slices.Clone(in.Passthrough),
		fastBuild:   in.FastBuild,
	}, nil
}

// PluginRegistry returns a fresh registry holding the registered plugins.
func (r *Registration) PluginRegistry() *plugin.Registry {
	reg := plugin.NewRegistry()
	for _, p := range r.plugins {
		// Names were validated by NewRegistration.
		_ = reg.Register(p)
	}
	return reg
}

// PluginNames returns registered plugin names in registration order.
func (r *Registration) PluginNames() []string {
	names := make([]string, 0, len(r.plugins))
	for _, p := range r.plugins {
		names = append(names, p.Metadata().Name)
	}
	return names
}

func (r *Registration) Collections() []collections.Definition {
	return slices.Clone(r.collections)
}

// CollectionNames returns binding names in registration order.
func (r *Registration) CollectionNames() []string {
	names := make([]string, 0, len(r.collections))
	for _, def := range r.collections {
		names = append(names, def.Name)
	}
	return names
}

func (r *Registration) Helpers() []helpers.Helper {
	return slices.Clone(r.helpers)
}

// FuncMap returns a new template.FuncMap of the registered helpers.
func (r *Registration) FuncMap() template.FuncMap {
	fm, _ := helpers.FuncMap(r.helpers)
	return fm
}

func (r *Registration) Passthrough() []passthrough.Rule {
	return slices.Clone(r.passthrough)
}

func (r *Registration) FastBuild() collections.FastBuild {
	return r.fastBuild
}
