package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/MimiTechAi/MimiSupply-sub001/internal/domain"
)

// MemoryCatalog is an in-memory Catalog for tests and demo seeding.
type MemoryCatalog struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

func NewMemoryCatalog(products ...domain.Product) *MemoryCatalog {
	c := &MemoryCatalog{products: make(map[string]domain.Product, len(products))}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *MemoryCatalog) Product(_ context.Context, id string) (domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	product, exists := c.products[id]
	if !exists {
		return domain.Product{}, ErrProductNotFound
	}
	return product, nil
}

func (c *MemoryCatalog) ProductsByPartner(_ context.Context, partnerID string) ([]domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var products []domain.Product
	for _, p := range c.products {
		if p.PartnerID == partnerID {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

// Put inserts or replaces a product.
func (c *MemoryCatalog) Put(p domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.ID] = p
}
