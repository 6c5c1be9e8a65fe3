// ABOUTME: Markdown rendering for message bodies
// ABOUTME: Converts stored message text to sanitized HTML via goldmark

package board

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
)

// renderMarkdown converts message text to HTML. Raw HTML in the source is
// omitted by goldmark's default renderer, so messages cannot inject markup.
func (b *Board) renderMarkdown(content string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(content), &buf); err != nil {
		b.logger.Error("failed to convert markdown", "error", err)
		// Fall back to the escaped source text
		return template.HTML(template.HTMLEscapeString(content))
	}
	return template.HTML(buf.String())
}
