package ports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woq-blended/hawtio-integration/pkg/domain"
)

// RunDiagramCacheContract runs a suite of tests to verify that a DiagramCache
// implementation adheres to the defined interface contract.
func RunDiagramCacheContract(t *testing.T, cache DiagramCache) {
	ctx := context.Background()

	diagram := &domain.Diagram{
		Nodes: []*domain.DiagramNode{
			{ID: 0, Label: "timer:tick", Type: "from", X: 0, Y: 150, RID: "r1", CID: "r1-from"},
			{ID: 1, Label: "log", Type: "log", X: 0, Y: 300, CID: "log2"},
		},
		Links:      []domain.DiagramLink{{Source: 0, Target: 1}},
		RouteNodes: map[string]int{"r1": 0},
		CIDs:       map[string]int{"r1-from": 0, "log2": 1},
	}

	t.Run("Put and Get", func(t *testing.T) {
		require.NoError(t, cache.Put(ctx, "contract-key", diagram))

		loaded, err := cache.Get(ctx, "contract-key")
		require.NoError(t, err)
		require.Len(t, loaded.Nodes, 2)
		assert.Equal(t, "timer:tick", loaded.Nodes[0].Label)
		assert.Equal(t, 300.0, loaded.Nodes[1].Y)
		assert.Equal(t, diagram.Links, loaded.Links)
		assert.Equal(t, 0, loaded.RouteNodes["r1"])
		assert.Equal(t, 1, loaded.CIDs["log2"])
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, err := cache.Get(ctx, "contract-missing")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("Overwrite", func(t *testing.T) {
		replacement := &domain.Diagram{Nodes: []*domain.DiagramNode{{ID: 0, Label: "direct:a", Type: "from"}}}
		require.NoError(t, cache.Put(ctx, "contract-key", replacement))

		loaded, err := cache.Get(ctx, "contract-key")
		require.NoError(t, err)
		require.Len(t, loaded.Nodes, 1)
		assert.Equal(t, "direct:a", loaded.Nodes[0].Label)
	})
}
