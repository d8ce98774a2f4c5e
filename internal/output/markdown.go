package output

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders markdown for the terminal, wrapping at width when it
// is positive. The style follows the terminal background.
func RenderMarkdown(markdown string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	return renderer.Render(markdown)
}

// RenderCode renders content as a fenced code block in the given language.
func RenderCode(content, language string, width int) (string, error) {
	return RenderMarkdown("```"+language+"\n"+content+"\n```\n", width)
}
