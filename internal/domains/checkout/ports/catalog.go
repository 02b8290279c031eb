package ports

import (
	"context"
	"errors"
)

var ErrProductUnavailable = errors.New("product is unavailable or out of stock")

// CatalogProduct is the slice of catalog data checkout needs: the
// authoritative price and remaining stock.
type CatalogProduct struct {
	ID        string
	Name      string
	UnitPrice int64
	Stock     int32
}

// Catalog is the read-only collaborator owning product data. Checkout never
// trusts client-supplied prices; it reprices every line from here.
type Catalog interface {
	// Product returns catalog data for the id, ErrProductUnavailable when
	// unknown or delisted.
	Product(ctx context.Context, productID string) (*CatalogProduct, error)
}
