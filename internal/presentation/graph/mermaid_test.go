package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/woq-blended/hawtio-integration/internal/presentation/graph"
	"github.com/woq-blended/hawtio-integration/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	d := &domain.Diagram{
		Nodes: []*domain.DiagramNode{
			{ID: 0, Label: "From direct:a", Type: "from", CID: "from1"},
			{ID: 1, Label: "Choice", Type: "choice", CID: "choice2"},
			{ID: 2, Label: `Log "quoted"`, Type: "log", CID: "log3", Selected: true},
			{ID: 3, Label: "To mock:a", Type: "to", CID: "to4"},
		},
		Links: []domain.DiagramLink{
			{Source: 0, Target: 1, Value: 1},
			{Source: 1, Target: 2, Value: 1},
			{Source: 1, Target: 3, Value: 1},
			{Source: 9, Target: 3, Value: 1},
		},
	}

	tests := []struct {
		name     string
		overlay  *graph.GraphOverlay
		contains []string
		excludes []string
	}{
		{
			name: "shapes and links",
			contains: []string{
				"graph TD\n",
				`n0(["From direct:a"])`,
				`n1{"Choice"}`,
				`n2["Log 'quoted'"]`,
				`n3[["To mock:a"]]`,
				"n0 --> n1",
				"n1 --> n3",
				"class n2 selected;",
			},
			excludes: []string{"n9"},
		},
		{
			name:     "inflight overlay",
			overlay:  &graph.GraphOverlay{Inflight: map[string]int{"to4": 3}},
			contains: []string{`n3[["To mock:a <br/> 3 inflight"]]`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := graph.GenerateMermaid(d, tt.overlay)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tt.excludes {
				assert.False(t, strings.Contains(out, unwanted), "unexpected %q", unwanted)
			}
		})
	}
}

func TestGenerateMermaid_Nil(t *testing.T) {
	assert.Equal(t, "graph TD\n", graph.GenerateMermaid(nil, nil))
}
