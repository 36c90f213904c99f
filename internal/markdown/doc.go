// Package markdown renders Markdown to HTML fragments and wraps them in the
// themed preview container.
package markdown
