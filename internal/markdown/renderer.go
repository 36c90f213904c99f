package markdown

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrRender indicates goldmark failed to write its output.
var ErrRender = errors.New("markdown rendering failed")

// Options selects optional renderer behavior.
type Options struct {
	// Highlight enables syntax highlighting of fenced code blocks.
	Highlight bool
	// HighlightStyle is the chroma style name used when Highlight is set.
	HighlightStyle string
	// UnsafeHTML passes raw HTML blocks through instead of omitting them.
	UnsafeHTML bool
}

// GoldmarkRenderer converts CommonMark with tables, footnotes,
// strikethrough, task lists and heading attributes.
type GoldmarkRenderer struct {
	md goldmark.Markdown
}

// NewGoldmarkRenderer builds a renderer for opts.
func NewGoldmarkRenderer(opts Options) *GoldmarkRenderer {
	exts := []goldmark.Extender{
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
		extension.Footnote,
	}
	if opts.Highlight {
		style := opts.HighlightStyle
		if style == "" {
			style = "github"
		}
		exts = append(exts, highlighting.NewHighlighting(
			highlighting.WithStyle(style),
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true),
			),
		))
	}

	var rendererOpts []goldmark.Option
	if opts.UnsafeHTML {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(html.WithUnsafe()))
	}

	md := goldmark.New(append([]goldmark.Option{
		goldmark.WithExtensions(exts...),
		// {#id .class} after a heading
		goldmark.WithParserOptions(parser.WithAttribute()),
	}, rendererOpts...)...)
	return &GoldmarkRenderer{md: md}
}

// Render converts markdown to an HTML fragment. Goldmark has no context
// support, so conversion runs in its own goroutine and Render returns as soon
// as ctx is done; the abandoned conversion finishes in the background.
func (r *GoldmarkRenderer) Render(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(markdown), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrRender, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.html, res.err
	}
}
