//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	pacttest "github.com/agrikart/fulfillment/test/pact"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"

	checkoutgateway "github.com/agrikart/fulfillment/internal/domains/checkout/adapters/gateway"
	checkoutmemory "github.com/agrikart/fulfillment/internal/domains/checkout/adapters/memory"
	checkoutapp "github.com/agrikart/fulfillment/internal/domains/checkout/application"
	checkoutports "github.com/agrikart/fulfillment/internal/domains/checkout/ports"
	deliverymemory "github.com/agrikart/fulfillment/internal/domains/delivery/adapters/memory"
	deliveryapp "github.com/agrikart/fulfillment/internal/domains/delivery/application"
	fulfillmenthttp "github.com/agrikart/fulfillment/internal/domains/fulfillment/adapters/http"
	"github.com/agrikart/fulfillment/internal/domains/fulfillment/adapters/workflows"
	fulfillmentapp "github.com/agrikart/fulfillment/internal/domains/fulfillment/application"
	ordersmemory "github.com/agrikart/fulfillment/internal/domains/orders/adapters/memory"
	ordersapp "github.com/agrikart/fulfillment/internal/domains/orders/application"
	ordersdomain "github.com/agrikart/fulfillment/internal/domains/orders/domain"
	ordersports "github.com/agrikart/fulfillment/internal/domains/orders/ports"
)

func TestFulfillmentProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.APIPactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateCatalogSeeded: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			if setup {
				app.seedCatalog()
			}
			return nil, nil
		},
		pacttest.StateBuyerHasOrder: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			if setup {
				app.seedOrder(t, "buyer-1")
			}
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.APIProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	catalog *checkoutmemory.Catalog
	ledger  ordersports.Service
	server  *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	ledger := ordersapp.NewService(ordersmemory.NewRepository())
	catalog := checkoutmemory.NewCatalog()
	checkout := checkoutapp.NewService(checkoutmemory.NewSessionStore(), checkoutgateway.NewFake(), catalog, ledger)
	delivery := deliveryapp.NewService(deliverymemory.NewStore(), dropNotifier{})

	orchestrator := fulfillmentapp.NewOrchestrator(checkout, workflows.NewInlineConfirmation(checkout), ledger, delivery)
	router := fulfillmenthttp.NewRouter(fulfillmenthttp.NewAPI(orchestrator), "fulfillment-pact")

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &contractProviderApp{
		catalog: catalog,
		ledger:  ledger,
		server:  server,
	}
}

func (a *contractProviderApp) seedCatalog() {
	a.catalog.Seed(checkoutports.CatalogProduct{ID: "prod-tomato", Name: "Tomatoes 1kg", UnitPrice: 15000, Stock: 100})
	a.catalog.Seed(checkoutports.CatalogProduct{ID: "prod-onion", Name: "Onions 1kg", UnitPrice: 10000, Stock: 100})
}

// seedOrder materializes a deterministic paid order; repeat setups converge
// on the same row.
func (a *contractProviderApp) seedOrder(t testing.TB, buyerID string) {
	t.Helper()
	_, err := a.ledger.Materialize(context.Background(), ordersports.MaterializeInput{
		OrderID: uuid.MustParse("5aafc861-0b17-4b66-8f25-25ad921869e5"),
		BuyerID: buyerID,
		Lines: []ordersdomain.OrderLine{
			{ProductID: "prod-tomato", ProductName: "Tomatoes 1kg", UnitPrice: 15000, Quantity: 3},
		},
		TotalPrice: 45000,
		ShippingAddress: ordersdomain.Address{
			Line1: "12 Mandi Road", City: "Pune", PostalCode: "411001", Country: "IN",
		},
		PaidAt: time.Now(),
	})
	require.NoError(t, err)
}

type dropNotifier struct{}

func (dropNotifier) SendDeliveryCode(context.Context, string, string) error { return nil }
