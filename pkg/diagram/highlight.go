package diagram

import "github.com/woq-blended/hawtio-integration/pkg/domain"

// Highlight marks the nodes matching target as selected and clears the
// rest. from nodes match on their route id; other nodes match on element
// id when they have one, then on correlation id, then on route id.
// It returns the ids of the selected nodes.
func Highlight(d *domain.Diagram, target string) []int {
	if d == nil {
		return nil
	}
	var selected []int
	for _, n := range d.Nodes {
		n.Selected = target != "" && matches(n, target)
		if n.Selected {
			selected = append(selected, n.ID)
		}
	}
	return selected
}

func matches(n *domain.DiagramNode, target string) bool {
	switch {
	case n.Type == "from":
		return target == n.RID
	case n.ElementID != "":
		return target == n.ElementID
	case n.CID != "":
		return target == n.CID
	default:
		return target == n.RID
	}
}
