package gateway

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/agrikart/fulfillment/internal/domains/checkout/ports"
)

var _ ports.PaymentGateway = (*Fake)(nil)

// Fake is an in-process gateway for development runs without a payment
// provider. Checkouts complete immediately unless marked otherwise.
type Fake struct {
	mu     sync.Mutex
	states map[string]ports.CheckoutState
}

func NewFake() *Fake {
	return &Fake{states: map[string]ports.CheckoutState{}}
}

func (f *Fake) CreateCheckout(_ context.Context, sessionRef, _ string, _ int64) (*ports.GatewayCheckout, error) {
	ref := "fake-" + uuid.NewString()
	f.mu.Lock()
	f.states[ref] = ports.CheckoutCompleted
	f.mu.Unlock()
	return &ports.GatewayCheckout{Ref: ref, RedirectURL: "/fake-gateway/" + sessionRef}, nil
}

func (f *Fake) CheckoutStatus(_ context.Context, gatewayRef string) (ports.CheckoutState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	state, ok := f.states[gatewayRef]
	if !ok {
		return ports.CheckoutFailed, nil
	}
	return state, nil
}

// SetState overrides a checkout's state, used by tests to model pending or
// failed payments.
func (f *Fake) SetState(gatewayRef string, state ports.CheckoutState) {
	f.mu.Lock()
	f.states[gatewayRef] = state
	f.mu.Unlock()
}
