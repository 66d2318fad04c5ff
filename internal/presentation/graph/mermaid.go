package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/woq-blended/hawtio-integration/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	// Inflight maps node correlation ids to exchanges currently inside them.
	Inflight map[string]int
}

// GenerateMermaid produces a Mermaid flowchart syntax string from a diagram.
// It applies semantic styling:
// - from: ([Stadium])
// - to: [[Subroutine]]
// - choice: {Rhombus}
// - Default: [Rectangle]
// Selected nodes get the "selected" class; overlay counters are appended to labels.
func GenerateMermaid(d *domain.Diagram, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if d == nil {
		return sb.String()
	}

	var selected []string
	for _, node := range d.Nodes {
		safeID := mermaidID(node)

		opener, closer := "[", "]"
		switch node.Type {
		case "from":
			opener, closer = "([", "])"
		case "to", "toD":
			opener, closer = "[[", "]]"
		case "choice":
			opener, closer = "{", "}"
		}

		label := escapeLabel(node.Label)
		if overlay != nil {
			if n := overlay.Inflight[node.CID]; n > 0 {
				label = fmt.Sprintf("%s <br/> %d inflight", label, n)
			}
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))

		if node.Selected {
			selected = append(selected, safeID)
		}
	}

	for _, link := range d.Links {
		from, to := d.Node(link.Source), d.Node(link.Target)
		if from == nil || to == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", mermaidID(from), mermaidID(to)))
	}

	if len(selected) > 0 {
		sb.WriteString("\n    %% Selection\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef selected fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sort.Strings(selected)
		for _, id := range selected {
			sb.WriteString(fmt.Sprintf("    class %s selected;\n", id))
		}
	}

	return sb.String()
}

func mermaidID(node *domain.DiagramNode) string {
	return fmt.Sprintf("n%d", node.ID)
}

func escapeLabel(label string) string {
	s := strings.ReplaceAll(label, "\"", "'")
	return strings.ReplaceAll(s, "\n", "<br/>")
}
