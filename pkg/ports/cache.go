package ports

import (
	"context"

	"github.com/woq-blended/hawtio-integration/pkg/domain"
)

// DiagramCache stores built diagrams keyed by a digest of their inputs.
type DiagramCache interface {
	// Get returns domain.ErrCacheMiss when the key is unknown.
	Get(ctx context.Context, key string) (*domain.Diagram, error)
	Put(ctx context.Context, key string, diagram *domain.Diagram) error
}
