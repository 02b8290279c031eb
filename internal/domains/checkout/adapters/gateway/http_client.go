// Package gateway provides payment-gateway adapters: an HTTP client for the
// real provider and an in-process fake for development and tests.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/agrikart/fulfillment/internal/domains/checkout/ports"
)

var _ ports.PaymentGateway = (*HTTPClient)(nil)

// HTTPClient talks to the payment provider's checkout API over REST.
type HTTPClient struct {
	client *resty.Client
}

// NewHTTPClient builds a gateway client for the given base URL and API key.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond)
	return &HTTPClient{client: client}
}

type createCheckoutRequest struct {
	ClientReference string `json:"clientReference"`
	CustomerID      string `json:"customerId"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
}

type createCheckoutResponse struct {
	CheckoutID  string `json:"checkoutId"`
	RedirectURL string `json:"redirectUrl"`
}

type checkoutStatusResponse struct {
	Status string `json:"status"`
}

// CreateCheckout registers the amount to collect and returns the gateway
// checkout reference plus the redirect target.
func (c *HTTPClient) CreateCheckout(ctx context.Context, sessionRef, buyerID string, amount int64) (*ports.GatewayCheckout, error) {
	var result createCheckoutResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(createCheckoutRequest{
			ClientReference: sessionRef,
			CustomerID:      buyerID,
			Amount:          amount,
			Currency:        "INR",
		}).
		SetResult(&result).
		Post("/v1/checkouts")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrGatewayUnavailable, err)
	}
	if resp.StatusCode() != http.StatusCreated && resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: gateway returned %d", ports.ErrGatewayUnavailable, resp.StatusCode())
	}
	return &ports.GatewayCheckout{Ref: result.CheckoutID, RedirectURL: result.RedirectURL}, nil
}

// CheckoutStatus reports the current payment state for a gateway ref.
func (c *HTTPClient) CheckoutStatus(ctx context.Context, gatewayRef string) (ports.CheckoutState, error) {
	var result checkoutStatusResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/v1/checkouts/" + gatewayRef)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ports.ErrGatewayUnavailable, err)
	}
	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound:
		return ports.CheckoutFailed, nil
	default:
		return "", fmt.Errorf("%w: gateway returned %d", ports.ErrGatewayUnavailable, resp.StatusCode())
	}
	switch result.Status {
	case "completed", "paid":
		return ports.CheckoutCompleted, nil
	case "failed", "expired":
		return ports.CheckoutFailed, nil
	default:
		return ports.CheckoutPending, nil
	}
}
