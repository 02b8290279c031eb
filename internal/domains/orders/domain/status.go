package domain

import "errors"

// Status enumerates order fulfillment progression.
type Status string

const (
	StatusPending        Status = "pending"
	StatusProcessing     Status = "processing"
	StatusShipped        Status = "shipped"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

var (
	ErrInvalidStatus     = errors.New("order status is invalid")
	ErrInvalidTransition = errors.New("order status transition is not allowed")
)

// transitions is the single authority for valid status edges. The happy path
// is linear; Cancelled is reachable from any non-terminal state.
var transitions = map[Status][]Status{
	StatusPending:        {StatusProcessing, StatusCancelled},
	StatusProcessing:     {StatusShipped, StatusCancelled},
	StatusShipped:        {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

// sellerAdvances are the edges a seller may drive directly. Delivered is
// excluded: it is reached through OTP verification or an audited override.
var sellerAdvances = map[Status]Status{
	StatusPending:    StatusProcessing,
	StatusProcessing: StatusShipped,
	StatusShipped:    StatusOutForDelivery,
}

// CanTransition reports whether the edge current→target exists.
func CanTransition(current, target Status) error {
	if !isValidStatus(current) || !isValidStatus(target) {
		return ErrInvalidStatus
	}
	for _, next := range transitions[current] {
		if next == target {
			return nil
		}
	}
	return ErrInvalidTransition
}

// IsTerminal reports whether no further transition is permitted.
func IsTerminal(status Status) bool {
	return len(transitions[status]) == 0
}

// IsSellerAdvance reports whether the edge current→target is one the seller
// role may drive without the delivery-confirmation path.
func IsSellerAdvance(current, target Status) bool {
	next, ok := sellerAdvances[current]
	return ok && next == target
}

func isValidStatus(status Status) bool {
	_, ok := transitions[status]
	return ok
}
