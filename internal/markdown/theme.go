package markdown

import "html"

const containerClass = "markdown-content"

// Wrap places a rendered fragment inside the preview container. A present
// theme, even an empty one, adds a theme-<theme> class; the theme is
// attribute-escaped.
func Wrap(fragment string, theme *string) string {
	class := containerClass
	if theme != nil {
		class += " theme-" + html.EscapeString(*theme)
	}
	return `<div class="` + class + `">` + fragment + `</div>`
}
