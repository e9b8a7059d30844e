package catalog

import (
	"context"
	"strings"
	"sync"
)

// Cache wraps a Store with a product list loaded once per process lifetime
// and treated as immutable thereafter. A failed load is not cached, so a
// later query retries it. Category lookups are served from the cached list;
// fact lookups pass through to the underlying store.
type Cache struct {
	store Store

	mu       sync.Mutex
	loaded   bool
	products []Product
}

// NewCache creates a lazy product cache over the given store.
func NewCache(store Store) *Cache {
	return &Cache{store: store}
}

func (c *Cache) load(ctx context.Context) ([]Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.products, nil
	}
	products, err := c.store.Products(ctx)
	if err != nil {
		return nil, err
	}
	c.products = products
	c.loaded = true
	return products, nil
}

func (c *Cache) Products(ctx context.Context) ([]Product, error) {
	return c.load(ctx)
}

func (c *Cache) ProductsByCategory(ctx context.Context, category string) ([]Product, error) {
	products, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(category)
	var matched []Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Category), needle) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func (c *Cache) ActiveFacts(ctx context.Context, productID uint) ([]Fact, error) {
	return c.store.ActiveFacts(ctx, productID)
}

func (c *Cache) ActiveFactsForProducts(ctx context.Context, productIDs []uint) ([]Fact, error) {
	return c.store.ActiveFactsForProducts(ctx, productIDs)
}

var _ Store = (*Cache)(nil)
