// Package build runs a site build: it loads the content pool, derives every
// registered collection, writes the bindings data file, runs plugins and
// copies passthrough files.
//
// All entry points (the build and watch commands, tests) go through Run or
// Derive.
package build
