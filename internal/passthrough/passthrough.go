// Package passthrough copies static files into the output directory
// unchanged.
package passthrough

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// Rule copies every file matching Pattern, relative to the source root.
// Without Dest files keep their relative path. With Dest the static prefix
// of Pattern is replaced by Dest.
type Rule struct {
	Pattern string
	Dest    string
}

// Target returns where match lands in the output tree. match uses forward
// slashes, as returned by doublestar.
func (r Rule) Target(match string) string {
	if r.Dest == "" {
		return match
	}
	base, _ := doublestar.SplitPattern(r.Pattern)
	rel := match
	if base != "." {
		rel = strings.TrimPrefix(match, base+"/")
	}
	return path.Join(r.Dest, rel)
}

// Copy applies rules in order and returns the number of files copied. Files
// inside outRoot are never matched, so outRoot may live below srcRoot.
func Copy(ctx context.Context, srcRoot, outRoot string, rules []Rule) (int, error) {
	fsys := os.DirFS(srcRoot)
	skip := outputPrefix(srcRoot, outRoot)

	copied := 0
	for _, rule := range rules {
		matches, err := doublestar.Glob(fsys, rule.Pattern, doublestar.WithFilesOnly())
		if err != nil {
			return copied, ferrors.FileSystemError("expand passthrough pattern").
				WithCause(err).
				WithContext("pattern", rule.Pattern).
				Build()
		}
		for _, match := range matches {
			if err := ctx.Err(); err != nil {
				return copied, err
			}
			if skip != "" && (match == skip || strings.HasPrefix(match, skip+"/")) {
				continue
			}
			dst := filepath.Join(outRoot, filepath.FromSlash(rule.Target(match)))
			if err := copyFile(filepath.Join(srcRoot, filepath.FromSlash(match)), dst); err != nil {
				return copied, ferrors.FileSystemError("copy passthrough file").
					WithCause(err).
					WithContext("path", match).
					Build()
			}
			copied++
		}
	}
	return copied, nil
}

// outputPrefix returns outRoot relative to srcRoot in slash form, or "" when
// outRoot is outside srcRoot.
func outputPrefix(srcRoot, outRoot string) string {
	srcAbs, err1 := filepath.Abs(srcRoot)
	outAbs, err2 := filepath.Abs(outRoot)
	if err1 != nil || err2 != nil {
		return ""
	}
	rel, err := filepath.Rel(srcAbs, outAbs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	return filepath.ToSlash(rel)
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		_ = dstFile.Close()
	}()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	// Preserve file permissions
	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}
	return os.Chmod(dst, srcInfo.Mode())
}
