package markdown

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
)

func TestRender_GFM(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render([]byte("# Title\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n~~gone~~\n"))
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "<h1>Title</h1>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<del>gone</del>")
}

func TestRender_RawHTMLKept(t *testing.T) {
	out, err := NewRenderer().Render([]byte("<div class=\"note\">hi</div>\n"))
	require.NoError(t, err)
	assert.Contains(t, string(out), `<div class="note">hi</div>`)
}

func TestRender_ExtraOptions(t *testing.T) {
	r := NewRenderer(goldmark.WithParserOptions(parser.WithAutoHeadingID()))

	out, err := r.Render([]byte("## Hello World\n"))
	require.NoError(t, err)
	assert.Contains(t, string(out), `<h2 id="hello-world">Hello World</h2>`)
}

func TestRender_Concurrent(t *testing.T) {
	r := NewRenderer()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := r.Render([]byte("*x*"))
			assert.NoError(t, err)
			assert.Contains(t, string(out), "<em>x</em>")
		}()
	}
	wg.Wait()
}

func TestExcerpt(t *testing.T) {
	r := NewRenderer()
	body := []byte("# Heading\n\nFirst **bold** paragraph with a [link](https://example.org) and\nover two lines.\n\nSecond paragraph.\n")

	assert.Equal(t, "First bold paragraph with a link and over two lines.", r.Excerpt(body, 0))
	assert.Equal(t, "First bold…", r.Excerpt(body, 14))
	assert.Equal(t, "", r.Excerpt([]byte("# Only a heading\n"), 10))
}
