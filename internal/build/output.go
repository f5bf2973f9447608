package build

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/collections"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// DataFile is the JSON document templates read derived collections from.
type DataFile struct {
	BuildID     string               `json:"build_id"`
	GeneratedAt time.Time            `json:"generated_at"`
	Collections collections.Bindings `json:"collections"`
}

// writeDataFile writes the bindings atomically: a temporary file in the
// target directory is renamed into place.
func writeDataFile(path, buildID string, now time.Time, bindings collections.Bindings) error {
	data, err := json.MarshalIndent(DataFile{BuildID: buildID, GeneratedAt: now, Collections: bindings}, "", "  ")
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "encode collections").Build()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return ferrors.FileSystemError("create data directory").WithCause(err).WithContext("path", dir).Build()
	}
	tmp, err := os.CreateTemp(dir, ".collections-*.json")
	if err != nil {
		return ferrors.FileSystemError("create data file").WithCause(err).WithContext("path", dir).Build()
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return ferrors.FileSystemError("write data file").WithCause(err).WithContext("path", tmpName).Build()
	}
	if err := tmp.Close(); err != nil {
		return ferrors.FileSystemError("write data file").WithCause(err).WithContext("path", tmpName).Build()
	}
	// #nosec G302 -- public output
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return ferrors.FileSystemError("write data file").WithCause(err).WithContext("path", tmpName).Build()
	}
	if err := os.Rename(tmpName, path); err != nil {
		return ferrors.FileSystemError("replace data file").WithCause(err).WithContext("path", path).Build()
	}
	return nil
}

// cleanOutput removes the output directory. It refuses to remove the working
// directory, a filesystem root, or a directory containing the content.
func cleanOutput(outputDir, contentDir string) error {
	out, err := filepath.Abs(outputDir)
	if err != nil {
		return ferrors.FileSystemError("resolve output directory").WithCause(err).Build()
	}
	src, err := filepath.Abs(contentDir)
	if err != nil {
		return ferrors.FileSystemError("resolve content directory").WithCause(err).Build()
	}
	cwd, _ := os.Getwd()

	if out == filepath.Dir(out) || out == cwd || src == out || strings.HasPrefix(src, out+string(filepath.Separator)) {
		return ferrors.ValidationError("refusing to clean output directory").
			WithContext("path", out).
			Build()
	}
	if err := os.RemoveAll(out); err != nil {
		return ferrors.FileSystemError("clean output directory").WithCause(err).WithContext("path", out).Build()
	}
	return nil
}
