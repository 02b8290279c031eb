package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PaymentState tracks whether the gateway confirmed payment for an order.
type PaymentState string

const (
	PaymentUnpaid PaymentState = "unpaid"
	PaymentPaid   PaymentState = "paid"
)

var (
	ErrEmptyBuyer      = errors.New("buyer reference is required")
	ErrEmptyLines      = errors.New("order must contain at least one line")
	ErrInvalidQuantity = errors.New("line quantity must be at least one")
	ErrInvalidPrice    = errors.New("line unit price must not be negative")
	ErrEmptyProduct    = errors.New("line product reference is required")
	ErrInvalidAddress  = errors.New("shipping address is incomplete")
	ErrTotalMismatch   = errors.New("order total does not match its lines")
	ErrAlreadyPaid     = errors.New("order is already paid")
	ErrCourierTaken    = errors.New("order already has a courier assigned")
)

// OrderLine is a single cart line frozen at the price it carried when the
// checkout session was created.
type OrderLine struct {
	ProductID   string
	ProductName string
	UnitPrice   int64 // minor units (paise)
	Quantity    int32
}

// Subtotal returns price times quantity for the line.
func (l OrderLine) Subtotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Address is the shipping destination captured at checkout.
type Address struct {
	Line1      string
	City       string
	PostalCode string
	Country    string
}

// Validate rejects addresses with missing required fields.
func (a Address) Validate() error {
	for _, field := range []string{a.Line1, a.City, a.PostalCode, a.Country} {
		if strings.TrimSpace(field) == "" {
			return ErrInvalidAddress
		}
	}
	return nil
}

// Order is the fulfillment aggregate root. It is created exactly once by the
// checkout reconciler and mutated only through the ledger.
type Order struct {
	ID              uuid.UUID
	BuyerID         string
	Lines           []OrderLine
	TotalPrice      int64
	ShippingAddress Address
	PaymentState    PaymentState
	PaidAt          *time.Time
	Status          Status
	CourierID       string
	DeliveredAt     *time.Time
	CreatedAt       time.Time
}

// ComputeTotal sums line subtotals. The result is frozen into the aggregate
// at materialization and never recomputed from client input afterwards.
func ComputeTotal(lines []OrderLine) int64 {
	var total int64
	for _, line := range lines {
		total += line.Subtotal()
	}
	return total
}

// ValidateLines enforces cart-line invariants shared by sessions and orders.
func ValidateLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return ErrEmptyLines
	}
	for _, line := range lines {
		if strings.TrimSpace(line.ProductID) == "" {
			return ErrEmptyProduct
		}
		if line.Quantity < 1 {
			return ErrInvalidQuantity
		}
		if line.UnitPrice < 0 {
			return ErrInvalidPrice
		}
	}
	return nil
}

// NewOrder materializes a paid order from a confirmed checkout snapshot.
// The supplied total must equal the recomputed sum of the lines.
func NewOrder(id uuid.UUID, buyerID string, lines []OrderLine, total int64, address Address, paidAt time.Time) (*Order, error) {
	if strings.TrimSpace(buyerID) == "" {
		return nil, ErrEmptyBuyer
	}
	if err := ValidateLines(lines); err != nil {
		return nil, err
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}
	if ComputeTotal(lines) != total {
		return nil, ErrTotalMismatch
	}
	frozen := make([]OrderLine, len(lines))
	copy(frozen, lines)
	paid := paidAt
	return &Order{
		ID:              id,
		BuyerID:         buyerID,
		Lines:           frozen,
		TotalPrice:      total,
		ShippingAddress: address,
		PaymentState:    PaymentPaid,
		PaidAt:          &paid,
		Status:          StatusPending,
		CreatedAt:       paidAt,
	}, nil
}

// Validate re-applies aggregate invariants, used by persistence adapters.
func (o *Order) Validate() error {
	if strings.TrimSpace(o.BuyerID) == "" {
		return ErrEmptyBuyer
	}
	if err := ValidateLines(o.Lines); err != nil {
		return err
	}
	if err := o.ShippingAddress.Validate(); err != nil {
		return err
	}
	if ComputeTotal(o.Lines) != o.TotalPrice {
		return ErrTotalMismatch
	}
	if !isValidStatus(o.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// TransitionTo moves the order along the fulfillment state machine.
// Delivered transitions stamp DeliveredAt.
func (o *Order) TransitionTo(target Status, now time.Time) error {
	if err := CanTransition(o.Status, target); err != nil {
		return err
	}
	o.Status = target
	if target == StatusDelivered {
		delivered := now
		o.DeliveredAt = &delivered
	}
	return nil
}

// AssignCourier claims the order for a delivery partner. Claiming is
// first-come-first-served; a second claim is rejected.
func (o *Order) AssignCourier(courierID string) error {
	if o.CourierID != "" {
		return ErrCourierTaken
	}
	o.CourierID = strings.TrimSpace(courierID)
	return nil
}
