package catalog

import (
	"context"
	"time"

	"github.com/MimiTechAi/MimiSupply-sub001/internal/domain"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

const (
	defaultCacheSize = 512
	defaultCacheTTL  = 5 * time.Minute
)

// CachedCatalog is a read-through product cache in front of another Catalog.
// Entries expire so availability and stock go stale for at most the TTL.
type CachedCatalog struct {
	inner Catalog
	cache *expirable.LRU[string, domain.Product]
	sfg   singleflight.Group // Prevents cache stampede
}

func NewCachedCatalog(inner Catalog) *CachedCatalog {
	return &CachedCatalog{
		inner: inner,
		cache: expirable.NewLRU[string, domain.Product](defaultCacheSize, nil, defaultCacheTTL),
	}
}

func (c *CachedCatalog) Product(ctx context.Context, id string) (domain.Product, error) {
	if product, ok := c.cache.Get(id); ok {
		return product, nil
	}

	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := c.sfg.Do(id, func() (interface{}, error) {
		product, err := c.inner.Product(ctx, id)
		if err != nil {
			return domain.Product{}, err
		}
		c.cache.Add(id, product)
		return product, nil
	})
	if err != nil {
		return domain.Product{}, err
	}

	return v.(domain.Product), nil
}

// ProductsByPartner is not cached; partner listings are a browse path, not
// the add-to-cart hot path.
func (c *CachedCatalog) ProductsByPartner(ctx context.Context, partnerID string) ([]domain.Product, error) {
	return c.inner.ProductsByPartner(ctx, partnerID)
}
