package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"

	ordersdomain "github.com/agrikart/fulfillment/internal/domains/orders/domain"
)

var (
	ErrAlreadyConsumed = errors.New("checkout session already consumed")
	ErrNotPending      = errors.New("checkout session is not pending at the gateway")
)

// Session correlates a frozen cart snapshot with one payment-gateway
// checkout. It exists before any order does and is consumed exactly once.
type Session struct {
	Ref             uuid.UUID
	BuyerID         string
	Lines           []ordersdomain.OrderLine
	ShippingAddress ordersdomain.Address
	// TotalPrice is computed server-side when the session is created and
	// frozen; it is never recomputed from client input.
	TotalPrice int64
	// GatewayRef is the opaque checkout identifier at the payment gateway.
	GatewayRef string
	// RedirectURL is where the buyer completes payment.
	RedirectURL string
	Consumed    bool
	// OrderID is set when the session is consumed into an order.
	OrderID   *uuid.UUID
	CreatedAt time.Time
}

// NewSession freezes the cart snapshot. Lines must already be validated and
// priced by the reconciler.
func NewSession(buyerID string, lines []ordersdomain.OrderLine, address ordersdomain.Address, now time.Time) (*Session, error) {
	if err := ordersdomain.ValidateLines(lines); err != nil {
		return nil, err
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}
	frozen := make([]ordersdomain.OrderLine, len(lines))
	copy(frozen, lines)
	return &Session{
		Ref:             uuid.New(),
		BuyerID:         buyerID,
		Lines:           frozen,
		ShippingAddress: address,
		TotalPrice:      ordersdomain.ComputeTotal(frozen),
		CreatedAt:       now,
	}, nil
}

// Consume marks the session consumed and binds it to the materialized order.
func (s *Session) Consume(orderID uuid.UUID) error {
	if s.Consumed {
		return ErrAlreadyConsumed
	}
	s.Consumed = true
	id := orderID
	s.OrderID = &id
	return nil
}
