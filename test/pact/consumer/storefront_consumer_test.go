//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/agrikart/fulfillment/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type sessionPayload struct {
	Ref        string `json:"ref"`
	BuyerID    string `json:"buyerId"`
	TotalPrice int64  `json:"totalPrice"`
}

type orderPayload struct {
	ID         string `json:"id"`
	BuyerID    string `json:"buyerId"`
	TotalPrice int64  `json:"totalPrice"`
	Status     string `json:"status"`
}

func TestStorefrontContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.APIConsumerName,
		Provider: pacttest.APIProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	uuidMatcher := matchers.Regex("5aafc861-0b17-4b66-8f25-25ad921869e5", "[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}")

	pact.AddInteraction().
		Given(pacttest.StateCatalogSeeded).
		UponReceiving("a request to open a checkout session").
		WithRequest("POST", "/v1/checkout/sessions", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"buyerId": matchers.Like("buyer-1"),
				"lines": matchers.EachLike(matchers.Map{
					"productId": matchers.Like("prod-tomato"),
					"quantity":  matchers.Like(3),
				}, 1),
				"shippingAddress": matchers.Map{
					"line1":      matchers.Like("12 Mandi Road"),
					"city":       matchers.Like("Pune"),
					"postalCode": matchers.Like("411001"),
					"country":    matchers.Term("IN", "[A-Z]{2}"),
				},
			})
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"ref":        uuidMatcher,
				"buyerId":    matchers.Like("buyer-1"),
				"totalPrice": matchers.Like(45000),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateBuyerHasOrder).
		UponReceiving("a request for the buyer's orders").
		WithRequest("GET", "/v1/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Query("buyer", matchers.S("buyer-1"))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"orders": matchers.EachLike(matchers.Map{
					"id":         uuidMatcher,
					"buyerId":    matchers.Like("buyer-1"),
					"totalPrice": matchers.Like(45000),
					"status":     matchers.Term("pending", "pending|processing|shipped|out_for_delivery|delivered|cancelled"),
				}, 1),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newStorefrontClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		session, err := client.CreateSession(ctx)
		if err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		if session.Ref == "" {
			return fmt.Errorf("expected session ref to be set")
		}

		orders, err := client.ListOrders(ctx, "buyer-1")
		if err != nil {
			return fmt.Errorf("list orders: %w", err)
		}
		if len(orders) == 0 {
			return fmt.Errorf("expected at least one order")
		}

		return nil
	})
	require.NoError(t, err)
}

type storefrontClient struct {
	baseURL    string
	httpClient *http.Client
}

func newStorefrontClient(config pactconsumer.MockServerConfig) *storefrontClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &storefrontClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *storefrontClient) CreateSession(ctx context.Context) (*sessionPayload, error) {
	body, err := json.Marshal(map[string]any{
		"buyerId": "buyer-1",
		"lines": []map[string]any{
			{"productId": "prod-tomato", "quantity": 3},
		},
		"shippingAddress": map[string]any{
			"line1": "12 Mandi Road", "city": "Pune", "postalCode": "411001", "country": "IN",
		},
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	var payload sessionPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *storefrontClient) ListOrders(ctx context.Context, buyerID string) ([]orderPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/orders?buyer="+buyerID, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	var payload struct {
		Orders []orderPayload `json:"orders"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Orders, nil
}
