package cache

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jhoicas/Dashboard-api/internal/application/actions"
	"github.com/jhoicas/Dashboard-api/internal/application/dashboard"
)

// DefaultMemoryEntries capacidad por defecto de la caché en memoria.
const DefaultMemoryEntries = 64

var (
	_ actions.Invalidator = (*MemoryCache)(nil)
	_ dashboard.ViewCache = (*MemoryCache)(nil)
)

// MemoryCache caché de vistas de un solo proceso (LRU), usada cuando no hay Redis.
type MemoryCache struct {
	views *lru.Cache[string, []byte]

	mu   sync.Mutex
	gens map[string]int64
}

// NewMemoryCache crea la caché con capacidad size (<= 0 usa DefaultMemoryEntries).
func NewMemoryCache(size int) (*MemoryCache, error) {
	if size <= 0 {
		size = DefaultMemoryEntries
	}
	views, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &MemoryCache{views: views, gens: map[string]int64{}}, nil
}

func (c *MemoryCache) Get(_ context.Context, path string) ([]byte, bool, error) {
	data, ok := c.views.Get(path)
	return data, ok, nil
}

func (c *MemoryCache) Generation(_ context.Context, path string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[path], nil
}

func (c *MemoryCache) Set(_ context.Context, path string, gen int64, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[path] != gen {
		return nil
	}
	c.views.Add(path, data)
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[path]++
	c.views.Remove(path)
	return nil
}
