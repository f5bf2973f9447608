// Package logfields holds the canonical slog attribute keys used across sitegen.
package logfields

import (
	"log/slog"
	"time"
)

const (
	KeyBuildID     = "build_id"
	KeyStage       = "stage"
	KeyDurationMS  = "duration_ms"
	KeyCollection  = "collection"
	KeyCount       = "count"
	KeyPath        = "path"
	KeyFile        = "file"
	KeyLocale      = "locale"
	KeyPlugin      = "plugin"
	KeyPattern     = "pattern"
	KeyFingerprint = "fingerprint"
	KeyError       = "error"
)

func BuildID(id string) slog.Attr       { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr       { return slog.String(KeyStage, name) }
func Collection(name string) slog.Attr  { return slog.String(KeyCollection, name) }
func Count(n int) slog.Attr             { return slog.Int(KeyCount, n) }
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func File(f string) slog.Attr           { return slog.String(KeyFile, f) }
func Locale(l string) slog.Attr         { return slog.String(KeyLocale, l) }
func Plugin(name string) slog.Attr      { return slog.String(KeyPlugin, name) }
func Pattern(p string) slog.Attr        { return slog.String(KeyPattern, p) }
func Fingerprint(fp string) slog.Attr   { return slog.String(KeyFingerprint, fp) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}

// Error renders err as a string attribute; nil becomes an empty value.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
