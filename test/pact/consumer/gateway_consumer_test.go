//go:build pact
// +build pact

package consumer_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/agrikart/fulfillment/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"

	"github.com/agrikart/fulfillment/internal/domains/checkout/adapters/gateway"
	checkoutports "github.com/agrikart/fulfillment/internal/domains/checkout/ports"
)

const testAPIKey = "pact-test-key"

func TestPaymentGatewayContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.GatewayConsumerName,
		Provider: pacttest.GatewayProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	bearerToken := matchers.Regex("Bearer "+testAPIKey, "Bearer .+")

	pact.AddInteraction().
		Given(pacttest.StateGatewayBaseline).
		UponReceiving("a request to open a checkout").
		WithRequest("POST", "/v1/checkouts", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Authorization", bearerToken)
			b.JSONBody(matchers.Map{
				"clientReference": matchers.Like("sess-abc"),
				"customerId":      matchers.Like("buyer-1"),
				"amount":          matchers.Like(55000),
				"currency":        matchers.Term("INR", "[A-Z]{3}"),
			})
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"checkoutId":  matchers.Like(pacttest.PaidCheckoutRef),
				"redirectUrl": matchers.Like("https://pay.example/checkout/chk-paid-001"),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateCheckoutPaid).
		UponReceiving("a status request for a completed checkout").
		WithRequest("GET", "/v1/checkouts/"+pacttest.PaidCheckoutRef, func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Authorization", bearerToken)
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"status": matchers.Term("completed", "pending|completed|paid|failed|expired"),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateCheckoutPending).
		UponReceiving("a status request for a pending checkout").
		WithRequest("GET", "/v1/checkouts/"+pacttest.PendingCheckoutRef, func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Authorization", bearerToken)
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"status": matchers.S("pending"),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateCheckoutUnknown).
		UponReceiving("a status request for an unknown checkout").
		WithRequest("GET", "/v1/checkouts/"+pacttest.UnknownCheckoutRef, func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Authorization", bearerToken)
		}).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		host := config.Host
		if host == "" {
			host = "localhost"
		}
		client := gateway.NewHTTPClient(fmt.Sprintf("http://%s:%d", host, config.Port), testAPIKey)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		checkout, err := client.CreateCheckout(ctx, "sess-abc", "buyer-1", 55000)
		if err != nil {
			return fmt.Errorf("create checkout: %w", err)
		}
		if checkout.Ref == "" || checkout.RedirectURL == "" {
			return fmt.Errorf("expected checkout ref and redirect url, got %+v", checkout)
		}

		state, err := client.CheckoutStatus(ctx, pacttest.PaidCheckoutRef)
		if err != nil {
			return fmt.Errorf("paid checkout status: %w", err)
		}
		if state != checkoutports.CheckoutCompleted {
			return fmt.Errorf("expected completed, got %s", state)
		}

		state, err = client.CheckoutStatus(ctx, pacttest.PendingCheckoutRef)
		if err != nil {
			return fmt.Errorf("pending checkout status: %w", err)
		}
		if state != checkoutports.CheckoutPending {
			return fmt.Errorf("expected pending, got %s", state)
		}

		// Unknown refs are reported as failed, not surfaced as an error.
		state, err = client.CheckoutStatus(ctx, pacttest.UnknownCheckoutRef)
		if err != nil {
			return fmt.Errorf("unknown checkout status: %w", err)
		}
		if state != checkoutports.CheckoutFailed {
			return fmt.Errorf("expected failed, got %s", state)
		}

		return nil
	})
	require.NoError(t, err)
}
