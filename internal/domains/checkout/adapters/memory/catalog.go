package memory

import (
	"context"
	"sync"

	"github.com/agrikart/fulfillment/internal/domains/checkout/ports"
)

var _ ports.Catalog = (*Catalog)(nil)

// Catalog is an in-memory stand-in for the external catalog service.
type Catalog struct {
	mu       sync.RWMutex
	products map[string]ports.CatalogProduct
}

func NewCatalog() *Catalog {
	return &Catalog{products: map[string]ports.CatalogProduct{}}
}

// Seed registers or replaces a product.
func (c *Catalog) Seed(product ports.CatalogProduct) {
	c.mu.Lock()
	c.products[product.ID] = product
	c.mu.Unlock()
}

func (c *Catalog) Product(_ context.Context, productID string) (*ports.CatalogProduct, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	product, ok := c.products[productID]
	if !ok || product.Stock <= 0 {
		return nil, ports.ErrProductUnavailable
	}
	clone := product
	return &clone, nil
}
