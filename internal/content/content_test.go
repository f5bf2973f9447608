package content

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSplitFrontMatter(t *testing.T) {
	t.Run("no front matter", func(t *testing.T) {
		in := []byte("# Title\n")
		fm, body, err := SplitFrontMatter(in)
		require.NoError(t, err)
		assert.Nil(t, fm)
		assert.Equal(t, in, body)
	})

	t.Run("yaml block", func(t *testing.T) {
		fm, body, err := SplitFrontMatter([]byte("---\ntitle: Hi\n---\nBody\n"))
		require.NoError(t, err)
		assert.Equal(t, "title: Hi\n", string(fm))
		assert.Equal(t, "Body\n", string(body))
	})

	t.Run("crlf", func(t *testing.T) {
		fm, body, err := SplitFrontMatter([]byte("---\r\ntitle: Hi\r\n---\r\nBody\r\n"))
		require.NoError(t, err)
		assert.Equal(t, "title: Hi\r\n", string(fm))
		assert.Equal(t, "Body\r\n", string(body))
	})

	t.Run("empty block", func(t *testing.T) {
		fm, body, err := SplitFrontMatter([]byte("---\n---\nBody\n"))
		require.NoError(t, err)
		assert.Empty(t, fm)
		assert.Equal(t, "Body\n", string(body))
	})

	t.Run("closing delimiter at end of file", func(t *testing.T) {
		fm, body, err := SplitFrontMatter([]byte("---\ntitle: Hi\n---"))
		require.NoError(t, err)
		assert.Equal(t, "title: Hi\n", string(fm))
		assert.Empty(t, body)
	})

	t.Run("missing closing delimiter", func(t *testing.T) {
		_, _, err := SplitFrontMatter([]byte("---\ntitle: Hi\nBody\n"))
		assert.True(t, errors.Is(err, ErrMissingClosingDelimiter))
	})
}

func TestParseFrontMatter_JSONSafe(t *testing.T) {
	fields, err := ParseFrontMatter([]byte("sizes:\n  1: small\n  2: large\nratio: .nan\nlimits: [.inf, -.inf, 3]\nnested:\n  - {true: yes}\n"))
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"1": "small", "2": "large"}, fields["sizes"])
	assert.Equal(t, "NaN", fields["ratio"])
	assert.Equal(t, []any{"+Inf", "-Inf", 3}, fields["limits"])
	assert.Equal(t, []any{map[string]any{"true": "yes"}}, fields["nested"])

	_, err = json.Marshal(fields)
	assert.NoError(t, err)
}

func TestParseFrontMatter_Empty(t *testing.T) {
	for _, in := range []string{"", "  \n", "~\n"} {
		fields, err := ParseFrontMatter([]byte(in))
		require.NoError(t, err)
		assert.NotNil(t, fields, "input %q", in)
		assert.Empty(t, fields)
	}
}

func TestFingerprint_IgnoresVolatileFields(t *testing.T) {
	body := []byte("Hello\n")
	a, err := Fingerprint(map[string]any{"title": "A", "lastmod": "2024-01-01"}, body)
	require.NoError(t, err)
	b, err := Fingerprint(map[string]any{"title": "A", "lastmod": "2025-06-01", "uid": "x"}, body)
	require.NoError(t, err)
	c, err := Fingerprint(map[string]any{"title": "B"}, body)
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestDocumentAccessors(t *testing.T) {
	doc := &Document{
		Tags: []string{TagPosts},
		Data: map[string]any{
			"draft":     true,
			"freelancer": "true",
			"parent":    "",
			"key":       "about",
			"locale":    "nl",
			"eventdate": "2024-05-01",
			"count":     3,
		},
	}

	assert.True(t, doc.HasTag(TagPosts))
	assert.False(t, doc.HasTag(TagJobs))
	assert.True(t, doc.Bool("draft"))
	assert.False(t, doc.Bool("freelancer"), "string values are not booleans")
	assert.False(t, doc.Bool("missing"))
	assert.False(t, doc.Present("parent"))
	assert.True(t, doc.Present("count"))
	assert.Equal(t, "about", doc.String("key"))
	assert.Equal(t, "", doc.String("count"))
	assert.Equal(t, LocaleNL, doc.Locale())

	ts, ok := doc.Time("eventdate")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), ts)

	_, ok = doc.Time("count")
	assert.False(t, ok)

	var nilDoc *Document
	assert.False(t, nilDoc.HasTag(TagPosts))
	assert.Nil(t, nilDoc.Value("draft"))
}

func TestParseTime(t *testing.T) {
	want := time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)
	for _, in := range []any{want, &want, "2024-03-09T14:30:00Z", "2024-03-09 14:30", "2024-03-09T14:30"} {
		got, ok := ParseTime(in)
		require.True(t, ok, "%v", in)
		assert.True(t, want.Equal(got), "%v", in)
	}
	for _, in := range []any{nil, "", "soon", 42, time.Time{}} {
		_, ok := ParseTime(in)
		assert.False(t, ok, "%v", in)
	}
}

func TestLoader_Load(t *testing.T) {
	fsys := fstest.MapFS{
		"nl/posts/posts.yaml": {Data: []byte("tags: posts\nlayout: post\n")},
		"nl/posts/second.md": {Data: []byte("---\ntitle: Tweede\ndate: 2024-02-01\ntags: [featured]\n---\nTekst\n")},
		"nl/posts/first.md":  {Data: []byte("---\ntitle: Eerste\ndate: 2024-01-01\n---\nTekst\n")},
		"en/about.md":        {Data: []byte("---\ntitle: About\nlocale: en\ntags: pages\nkey: about\ndate: 2023-01-01\n---\n")},
		"en/index.md":        {Data: []byte("---\ntitle: Home\npermalink: home/\ndate: 2022-06-01\n---\n")},
		"broken.md":          {Data: []byte("---\ntitle: [unclosed\n---\n")},
		"notes.txt":          {Data: []byte("ignored")},
		"nodate.md":          {Data: []byte("Plain body\n"), ModTime: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	docs, err := NewLoaderFS(fsys, "", quietLogger()).Load(context.Background())
	require.NoError(t, err)

	paths := make([]string, 0, len(docs))
	for _, d := range docs {
		paths = append(paths, d.Path)
	}
	assert.Equal(t, []string{"nodate.md", "en/index.md", "en/about.md", "nl/posts/first.md", "nl/posts/second.md"}, paths)

	second := docs[4]
	assert.Equal(t, []string{"posts", "featured"}, second.Tags)
	assert.Equal(t, "post", second.String("layout"))
	assert.Equal(t, LocaleNL, second.Locale(), "locale derived from first path segment")
	assert.Equal(t, "/nl/posts/second/", second.URL)
	assert.NotEmpty(t, second.Fingerprint)
	assert.Equal(t, "Tekst\n", string(second.Body))

	assert.Equal(t, "/home/", docs[1].URL)
	assert.Equal(t, "/en/about/", docs[2].URL)
	assert.Equal(t, []string{TagPages}, docs[2].Tags)
	assert.Equal(t, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), docs[0].Date)
}

func TestLoader_CanceledContext(t *testing.T) {
	fsys := fstest.MapFS{"a.md": {Data: []byte("x")}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoaderFS(fsys, "", quietLogger()).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPermalink(t *testing.T) {
	assert.Equal(t, "/", permalink("index.md", ""))
	assert.Equal(t, "/nl/", permalink("nl/index.md", ""))
	assert.Equal(t, "/nl/jobs/dev/", permalink("nl/jobs/dev.md", ""))
	assert.Equal(t, "/custom/", permalink("x.md", "custom/"))
}
