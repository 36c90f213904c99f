package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		theme *string
		want  string
	}{
		{"no theme", nil, `<div class="markdown-content"><p>x</p></div>`},
		{"empty theme", strPtr(""), `<div class="markdown-content theme-"><p>x</p></div>`},
		{"dark", strPtr("dark"), `<div class="markdown-content theme-dark"><p>x</p></div>`},
		{"literal default", strPtr("default"), `<div class="markdown-content theme-default"><p>x</p></div>`},
		{"escaped", strPtr(`x" onmouseover="alert(1)`), `<div class="markdown-content theme-x&#34; onmouseover=&#34;alert(1)"><p>x</p></div>`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Wrap("<p>x</p>", tc.theme))
		})
	}
}
