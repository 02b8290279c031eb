// Package catalog provides the read-only client for the marketplace catalog
// service, the price and stock authority for checkout.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/agrikart/fulfillment/internal/domains/checkout/ports"
)

var _ ports.Catalog = (*HTTPClient)(nil)

// HTTPClient fetches product snapshots over REST.
type HTTPClient struct {
	client *resty.Client
}

// NewHTTPClient builds a catalog client for the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(5 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond)
	return &HTTPClient{client: client}
}

type productResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Stock     int32  `json:"stock"`
}

// Product returns the current price and stock for one product.
func (c *HTTPClient) Product(ctx context.Context, productID string) (*ports.CatalogProduct, error) {
	var result productResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("id", productID).
		SetResult(&result).
		Get("/v1/products/{id}")
	if err != nil {
		return nil, fmt.Errorf("catalog lookup failed: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, ports.ErrProductUnavailable
	}
	if resp.IsError() {
		return nil, fmt.Errorf("catalog lookup returned %s", resp.Status())
	}
	return &ports.CatalogProduct{
		ID:        result.ID,
		Name:      result.Name,
		UnitPrice: result.UnitPrice,
		Stock:     result.Stock,
	}, nil
}
