package report

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

const (
	StyleAuto  = "auto"
	StyleNoTTY = "notty"
)

// Renderer renders markdown for a terminal with glamour.
type Renderer struct {
	Style string // "auto", a standard style name such as "dark" or "notty", or a style file path
	Width int    // 0 keeps glamour's default wrapping
}

func NewRenderer(style string, width int) Renderer {
	return Renderer{Style: style, Width: width}
}

func (r Renderer) Render(markdown string) (string, error) {
	var options []glamour.TermRendererOption
	if r.Style != "" && r.Style != StyleAuto {
		options = append(options, glamour.WithStylePath(r.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return rendered, nil
}
