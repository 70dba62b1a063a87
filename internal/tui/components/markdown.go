package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// renderMarkdown renders markdown for the terminal, falling back to the raw
// text when the renderer cannot be built.
func renderMarkdown(text string, width int) string {
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	rendered, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(rendered, "\n")
}

// renderCodeBlock renders content as a fenced code block with syntax
// highlighting.
func renderCodeBlock(content, lang string, width int) string {
	fenced := "```" + lang + "\n" + strings.TrimRight(content, "\n") + "\n```"
	return renderMarkdown(fenced, width)
}
