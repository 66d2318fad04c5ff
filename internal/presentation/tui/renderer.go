package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/woq-blended/hawtio-integration/pkg/domain"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// OutlineMarkdown renders route outlines as nested markdown lists, one
// section per route.
func OutlineMarkdown(routes []*domain.RouteStepNode) string {
	var sb strings.Builder
	for i, r := range routes {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("## %s\n\n", r.Label))
		if r.Tooltip != "" && r.Tooltip != r.Label {
			sb.WriteString(fmt.Sprintf("_%s_\n\n", r.Tooltip))
		}
		for _, child := range r.Children {
			writeOutlineItem(&sb, child, 0)
		}
	}
	return sb.String()
}

func writeOutlineItem(sb *strings.Builder, node *domain.RouteStepNode, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(fmt.Sprintf("- **%s** `%s`\n", escapeMarkdown(node.Label), node.Type))
	for _, child := range node.Children {
		writeOutlineItem(sb, child, depth+1)
	}
}

var markdownEscaper = strings.NewReplacer("*", `\*`, "_", `\_`, "`", "'")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// RenderOutline renders outlines for the terminal. When plain is true the
// markdown is returned without styling.
func RenderOutline(routes []*domain.RouteStepNode, plain bool) (string, error) {
	md := OutlineMarkdown(routes)
	if plain {
		return md, nil
	}
	return NewRenderer()(md)
}
