package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/woq-blended/hawtio-integration/pkg/domain"
)

// Cache implements ports.DiagramCache in memory.
// Safe for concurrent use.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewCache creates a new in-memory diagram cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Put stores a serialized copy so callers may keep mutating their diagram.
func (c *Cache) Put(ctx context.Context, key string, diagram *domain.Diagram) error {
	data, err := json.Marshal(diagram)
	if err != nil {
		return fmt.Errorf("failed to marshal diagram: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

// Get returns a fresh copy of the cached diagram.
func (c *Cache) Get(ctx context.Context, key string) (*domain.Diagram, error) {
	c.mu.RLock()
	data, ok := c.data[key]
	c.mu.RUnlock()
	if !ok {
		return nil, domain.ErrCacheMiss
	}

	var diagram domain.Diagram
	if err := json.Unmarshal(data, &diagram); err != nil {
		return nil, fmt.Errorf("failed to unmarshal diagram: %w", err)
	}
	return &diagram, nil
}

// Len returns the number of cached diagrams.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
