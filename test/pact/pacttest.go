//go:build pact
// +build pact

// Package pacttest holds shared names, states, and paths for the contract
// tests between the fulfillment core and its neighbours.
package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	// The fulfillment core consumes the payment provider's checkout API.
	GatewayProviderName = "payment-gateway"
	GatewayConsumerName = "fulfillment-core"

	// The storefront consumes the fulfillment API.
	APIProviderName = "fulfillment-api"
	APIConsumerName = "storefront-web"

	StateGatewayBaseline = "gateway baseline"
	StateCheckoutPaid    = "checkout chk-paid-001 is completed"
	StateCheckoutPending = "checkout chk-wait-002 is pending"
	StateCheckoutUnknown = "no checkout with ref chk-ghost-404"
	StateCatalogSeeded   = "catalog products are seeded"
	StateBuyerHasOrder   = "buyer buyer-1 has a confirmed order"
)

const (
	PaidCheckoutRef    = "chk-paid-001"
	PendingCheckoutRef = "chk-wait-002"
	UnknownCheckoutRef = "chk-ghost-404"
)

// GatewayPactFile is the canonical pact path for the gateway consumer.
func GatewayPactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), GatewayConsumerName+"-"+GatewayProviderName+".json")
}

// APIPactFile is the canonical pact path for the storefront consumer.
func APIPactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), APIConsumerName+"-"+APIProviderName+".json")
}

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
