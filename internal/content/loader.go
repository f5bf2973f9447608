package content

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// DefaultPattern selects every markdown file below the content root.
const DefaultPattern = "**/*.md"

// Loader reads the document pool from a content directory.
//
// Tags come from front matter `tags` merged with directory data files: a
// `<dir>/<dir>.yaml` (or .yml) file applies its fields to every document
// below that directory, with nearer directories and the document itself
// taking precedence. Tags are unioned rather than overridden.
type Loader struct {
	fsys    fs.FS
	pattern string
	logger  *slog.Logger

	dirData map[string]map[string]any
}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir, pattern string, logger *slog.Logger) *Loader {
	return NewLoaderFS(os.DirFS(dir), pattern, logger)
}

// NewLoaderFS creates a loader over an arbitrary filesystem.
func NewLoaderFS(fsys fs.FS, pattern string, logger *slog.Logger) *Loader {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{fsys: fsys, pattern: pattern, logger: logger}
}

// Load returns every readable document sorted ascending by publication date,
// then by path. Documents with unreadable or malformed front matter are
// logged and skipped.
func (l *Loader) Load(ctx context.Context) ([]*Document, error) {
	matches, err := doublestar.Glob(l.fsys, l.pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "glob content directory").
			WithContext("pattern", l.pattern).
			Build()
	}

	l.dirData = make(map[string]map[string]any)
	docs := make([]*Document, 0, len(matches))
	for _, p := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := l.loadDocument(p)
		if err != nil {
			l.logger.Warn("Skipping document", logfields.Path(p), logfields.Error(err))
			continue
		}
		docs = append(docs, doc)
	}

	SortByDate(docs)
	l.logger.Debug("Loaded content", logfields.Count(len(docs)), logfields.Pattern(l.pattern))
	return docs, nil
}

// SortByDate orders documents ascending by date, then path. This is the input
// order the collection rules assume when they reverse for newest-first output.
func SortByDate(docs []*Document) {
	slices.SortStableFunc(docs, func(a, b *Document) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
}

func (l *Loader) loadDocument(p string) (*Document, error) {
	raw, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return nil, err
	}
	fm, body, err := SplitFrontMatter(raw)
	if err != nil {
		return nil, err
	}
	own, err := ParseFrontMatter(fm)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryContent, "parse front matter").
			WithContext("path", p).
			Build()
	}

	data := map[string]any{}
	var tags []string
	for _, dir := range ancestors(path.Dir(p)) {
		dd := l.directoryData(dir)
		for k, v := range dd {
			data[k] = v
		}
		tags = appendTags(tags, dd[FieldTags])
	}
	for k, v := range own {
		data[k] = v
	}
	tags = appendTags(tags, own[FieldTags])
	data[FieldTags] = tags

	if data[FieldLocale] == nil {
		if seg, _, _ := strings.Cut(p, "/"); slices.Contains(Locales, seg) {
			data[FieldLocale] = seg
		}
	}

	doc := &Document{
		Path: p,
		Tags: tags,
		Data: data,
		Body: body,
	}
	if t, ok := ParseTime(data[FieldDate]); ok {
		doc.Date = t
	} else if info, err := fs.Stat(l.fsys, p); err == nil {
		doc.Date = info.ModTime()
	}
	doc.URL = permalink(p, doc.String(FieldPermalink))

	if fp, err := Fingerprint(own, body); err == nil {
		doc.Fingerprint = fp
	} else {
		l.logger.Debug("Fingerprint failed", logfields.Path(p), logfields.Error(err))
	}
	return doc, nil
}

// directoryData loads and caches `<dir>/<base>.yaml` for a directory.
func (l *Loader) directoryData(dir string) map[string]any {
	if dd, ok := l.dirData[dir]; ok {
		return dd
	}
	dd := map[string]any{}
	if dir != "." {
		base := path.Base(dir)
		for _, ext := range []string{".yaml", ".yml"} {
			raw, err := fs.ReadFile(l.fsys, path.Join(dir, base+ext))
			if err != nil {
				continue
			}
			parsed, err := ParseFrontMatter(raw)
			if err != nil {
				l.logger.Warn("Ignoring malformed directory data", logfields.Path(path.Join(dir, base+ext)), logfields.Error(err))
				break
			}
			dd = parsed
			break
		}
	}
	l.dirData[dir] = dd
	return dd
}

// ancestors lists dir and its parents, outermost first, excluding ".".
func ancestors(dir string) []string {
	var out []string
	for dir != "." && dir != "/" && dir != "" {
		out = append(out, dir)
		dir = path.Dir(dir)
	}
	slices.Reverse(out)
	return out
}

// appendTags unions a front matter tags value (string or list) into tags.
func appendTags(tags []string, v any) []string {
	switch t := v.(type) {
	case string:
		if t != "" && !slices.Contains(tags, t) {
			tags = append(tags, t)
		}
	case []string:
		for _, s := range t {
			tags = appendTags(tags, s)
		}
	case []any:
		for _, s := range t {
			tags = appendTags(tags, s)
		}
	}
	return tags
}

// permalink derives the output URL of a content file.
func permalink(p, override string) string {
	if override != "" {
		if !strings.HasPrefix(override, "/") {
			override = "/" + override
		}
		return override
	}
	trimmed := strings.TrimSuffix(p, path.Ext(p))
	if path.Base(trimmed) == "index" {
		trimmed = path.Dir(trimmed)
	}
	if trimmed == "." {
		return "/"
	}
	return "/" + trimmed + "/"
}
