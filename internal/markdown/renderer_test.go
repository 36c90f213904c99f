package markdown

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, r *GoldmarkRenderer, in string) string {
	t.Helper()
	out, err := r.Render(context.Background(), in)
	require.NoError(t, err)
	return out
}

func TestRender_Heading(t *testing.T) {
	r := NewGoldmarkRenderer(Options{})
	assert.Equal(t, "<h1>Hello</h1>\n", render(t, r, "# Hello"))
}

func TestRender_Extensions(t *testing.T) {
	r := NewGoldmarkRenderer(Options{})

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "table",
			input: "| A | B |\n|---|---|\n| 1 | 2 |\n",
			want:  []string{"<table>", "<th>A</th>", "<td>2</td>"},
		},
		{
			name:  "strikethrough",
			input: "~~gone~~",
			want:  []string{"<del>gone</del>"},
		},
		{
			name:  "task list",
			input: "- [x] done\n- [ ] todo\n",
			want:  []string{`type="checkbox"`, "checked", "done", "todo"},
		},
		{
			name:  "footnote",
			input: "Text[^1]\n\n[^1]: The note.\n",
			want:  []string{"footnote-ref", "The note."},
		},
		{
			name:  "heading attributes",
			input: "## Intro {#start .lead}\n",
			want:  []string{`id="start"`, `class="lead"`, ">Intro</h2>"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := render(t, r, tc.input)
			for _, w := range tc.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestRender_RawHTMLPassthrough(t *testing.T) {
	in := "Press <kbd>Ctrl</kbd>+C\n\n<details><summary>More</summary>body</details>\n"

	out := render(t, NewGoldmarkRenderer(Options{UnsafeHTML: true}), in)
	assert.Contains(t, out, "<p>Press <kbd>Ctrl</kbd>+C</p>")
	assert.Contains(t, out, "<details><summary>More</summary>body</details>")
	assert.NotContains(t, out, "raw HTML omitted")

	omitted := render(t, NewGoldmarkRenderer(Options{}), in)
	assert.NotContains(t, omitted, "<kbd>")
	assert.Contains(t, omitted, "raw HTML omitted")
}

func TestRender_HighlightUsesChromaClasses(t *testing.T) {
	in := "```go\nfunc main() {}\n```\n"

	plain := render(t, NewGoldmarkRenderer(Options{}), in)
	assert.Contains(t, plain, `<code class="language-go">`)

	hl := render(t, NewGoldmarkRenderer(Options{Highlight: true}), in)
	assert.Contains(t, hl, `class="chroma"`)
}

func TestRender_Deterministic(t *testing.T) {
	r := NewGoldmarkRenderer(Options{})
	in := "# T\n\n| a |\n|---|\n| b |\n\n- [ ] x\n\nfoo[^n]\n\n[^n]: bar\n"
	assert.Equal(t, render(t, r, in), render(t, r, in))
}

func TestRender_MalformedInputDegradesGracefully(t *testing.T) {
	r := NewGoldmarkRenderer(Options{})
	out := render(t, r, "**unclosed *emphasis [link](\n| broken | table\n```\nunterminated fence")
	assert.NotEmpty(t, out)
}

func TestRender_CanceledContext(t *testing.T) {
	r := NewGoldmarkRenderer(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Render(ctx, strings.Repeat("# x\n", 10))
	assert.True(t, errors.Is(err, context.Canceled))
}
