// Package preview renders Markdown for the terminal.
package preview

import (
	"github.com/charmbracelet/glamour"

	"github.com/gerunddev/blockdown/internal/block"
	"github.com/gerunddev/blockdown/internal/convert"
)

// DefaultWidth is the wrap width used when none is given
const DefaultWidth = 100

// Markdown renders markdown wrapped at width columns. When the renderer
// cannot be built or fails, markdown is returned unchanged.
func Markdown(markdown string, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return markdown
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return rendered
}

// Document converts doc to Markdown and renders it
func Document(doc block.Document, width int) (string, convert.Report) {
	markdown, report := convert.ToMarkdown(doc)
	return Markdown(markdown, width), report
}
