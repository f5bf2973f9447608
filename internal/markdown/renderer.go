// Package markdown renders document bodies to HTML.
package markdown

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Renderer converts markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer builds a GFM renderer. opts are applied after the defaults so
// plugins can add extensions and parser options.
func NewRenderer(opts ...goldmark.Option) *Renderer {
	base := []goldmark.Option{
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	}
	return &Renderer{md: goldmark.New(append(base, opts...)...)}
}

// Render returns the HTML for body.
func (r *Renderer) Render(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Excerpt returns the plain text of the first paragraph of body, cut at a
// word boundary to at most maxRunes runes. Truncated excerpts end in "…".
func (r *Renderer) Excerpt(body []byte, maxRunes int) string {
	root := r.md.Parser().Parse(text.NewReader(body))

	var sb strings.Builder
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		para, ok := n.(*gmast.Paragraph)
		if !ok {
			return gmast.WalkContinue, nil
		}
		_ = gmast.Walk(para, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
			if t, ok := c.(*gmast.Text); ok && entering {
				sb.Write(t.Segment.Value(body))
				if t.SoftLineBreak() || t.HardLineBreak() {
					sb.WriteByte(' ')
				}
			}
			return gmast.WalkContinue, nil
		})
		return gmast.WalkStop, nil
	})

	return truncate(strings.TrimSpace(sb.String()), maxRunes)
}

func truncate(s string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	cut := []rune(s)[:maxRunes]
	out := string(cut)
	if i := strings.LastIndexByte(out, ' '); i > 0 {
		out = out[:i]
	}
	return strings.TrimRight(out, " ,.;:") + "…"
}
