package service

import (
	"context"
	"sync"
	"time"

	"github.com/shophub/storefront/internal/domain"
	"golang.org/x/sync/singleflight"
)

// ProductLister fetches the catalog's product listing.
type ProductLister interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// ProductCache fronts the catalog listing with a short-lived cache and
// collapses concurrent backend fetches into a single call.
type ProductCache struct {
	backend ProductLister
	ttl     time.Duration
	sfg     singleflight.Group // Prevents fetch stampede

	mu      sync.RWMutex
	cached  []domain.Product
	expires time.Time
}

func NewProductCache(backend ProductLister, ttl time.Duration) *ProductCache {
	return &ProductCache{
		backend: backend,
		ttl:     ttl,
	}
}

func (c *ProductCache) ListProducts(ctx context.Context) ([]domain.Product, error) {
	c.mu.RLock()
	if time.Now().Before(c.expires) {
		products := c.cached
		c.mu.RUnlock()
		return products, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.sfg.Do("products", func() (interface{}, error) {
		products, err := c.backend.ListProducts(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.cached = products
		c.expires = time.Now().Add(c.ttl)
		c.mu.Unlock()
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

// Invalidate drops the cached listing, used after a product is added.
func (c *ProductCache) Invalidate() {
	c.mu.Lock()
	c.expires = time.Time{}
	c.mu.Unlock()
}
