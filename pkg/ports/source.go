package ports

import (
	"context"

	"github.com/beevik/etree"
)

// RouteSource supplies the route XML document (e.g. a file, or a management
// operation dumping the routes of a running context).
type RouteSource interface {
	// Load returns a freshly parsed document. Callers own the result.
	Load(ctx context.Context) (*etree.Document, error)
}

// WatchableSource is a RouteSource that can notify about backend changes.
type WatchableSource interface {
	RouteSource
	// Watch returns a channel signaled whenever the routes change.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
