package ports

import (
	"context"
	"errors"
)

var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// CheckoutState is the payment state reported by the gateway for a checkout.
type CheckoutState string

const (
	CheckoutPending   CheckoutState = "pending"
	CheckoutCompleted CheckoutState = "completed"
	CheckoutFailed    CheckoutState = "failed"
)

// GatewayCheckout is the gateway's view of a created checkout.
type GatewayCheckout struct {
	Ref         string
	RedirectURL string
}

// PaymentGateway is the session-confirmation contract with the external
// payment provider. No generic provider abstraction beyond what the
// reconciler needs.
type PaymentGateway interface {
	// CreateCheckout registers an amount to collect and returns the gateway
	// reference plus the redirect target for the storefront.
	CreateCheckout(ctx context.Context, sessionRef string, buyerID string, amount int64) (*GatewayCheckout, error)
	// CheckoutStatus reports the current payment state for a gateway ref.
	CheckoutStatus(ctx context.Context, gatewayRef string) (CheckoutState, error)
}
