package graph

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/woq-blended/hawtio-integration/pkg/domain"
)

// Format is an image format supported by RenderImage.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// RenderImage renders a diagram with graphviz. Graphviz computes its own
// layout; the positions of the diagram are not used.
func RenderImage(ctx context.Context, d *domain.Diagram, format Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("graph: create graphviz: %w", err)
	}
	defer gv.Close()

	gv.SetLayout(graphviz.DOT)

	g, err := gv.Graph()
	if err != nil {
		return nil, fmt.Errorf("graph: create graph: %w", err)
	}
	defer g.Close()

	g.SetRankDir(cgraph.TBRank)

	gvNodes := make(map[int]*cgraph.Node, len(d.Nodes))
	for _, node := range d.Nodes {
		gvNode, nErr := g.CreateNodeByName("n" + strconv.Itoa(node.ID))
		if nErr != nil {
			return nil, fmt.Errorf("graph: create node %d: %w", node.ID, nErr)
		}
		gvNode.SetLabel(node.Label)
		if node.Tooltip != "" {
			gvNode.SetTooltip(node.Tooltip)
		}
		applyNodeStyle(gvNode, node)
		gvNodes[node.ID] = gvNode
	}

	for _, link := range d.Links {
		from, to := gvNodes[link.Source], gvNodes[link.Target]
		if from == nil || to == nil {
			continue
		}
		if _, eErr := g.CreateEdgeByName("", from, to); eErr != nil {
			return nil, fmt.Errorf("graph: create edge %d->%d: %w", link.Source, link.Target, eErr)
		}
	}

	gvFormat := graphviz.PNG
	if format == FormatSVG {
		gvFormat = graphviz.SVG
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("graph: render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// applyNodeStyle sets graphviz attributes based on step type and selection.
func applyNodeStyle(gvNode *cgraph.Node, node *domain.DiagramNode) {
	switch node.Type {
	case "from":
		gvNode.SetShape(cgraph.EllipseShape)
	case "choice":
		gvNode.SetShape(cgraph.DiamondShape)
	default:
		gvNode.SetShape(cgraph.BoxShape)
	}

	if node.Selected {
		gvNode.SetStyle(cgraph.FilledNodeStyle)
		gvNode.SetFillColor("#ffeb3b")
		gvNode.SetFontColor("black")
	}
}
