package graph_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woq-blended/hawtio-integration/internal/presentation/graph"
	"github.com/woq-blended/hawtio-integration/pkg/domain"
)

func sampleDiagram() *domain.Diagram {
	return &domain.Diagram{
		Nodes: []*domain.DiagramNode{
			{ID: 0, Label: "From direct:a", Type: "from"},
			{ID: 1, Label: "Choice", Type: "choice"},
			{ID: 2, Label: "To mock:a", Type: "to", Selected: true},
		},
		Links: []domain.DiagramLink{
			{Source: 0, Target: 1, Value: 1},
			{Source: 1, Target: 2, Value: 1},
		},
	}
}

func TestRenderImagePNG(t *testing.T) {
	png, err := graph.RenderImage(context.Background(), sampleDiagram(), graph.FormatPNG)
	require.NoError(t, err)
	require.True(t, len(png) > 8, "PNG should be larger than header")

	// PNG magic bytes.
	assert.Equal(t, byte(0x89), png[0])
	assert.Equal(t, byte('P'), png[1])
	assert.Equal(t, byte('N'), png[2])
	assert.Equal(t, byte('G'), png[3])
}

func TestRenderImageSVG(t *testing.T) {
	svg, err := graph.RenderImage(context.Background(), sampleDiagram(), graph.FormatSVG)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
	assert.Contains(t, string(svg), "From direct:a")
}
