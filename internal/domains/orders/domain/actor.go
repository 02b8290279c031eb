package domain

import "errors"

// Role identifies the capability set of a caller.
type Role string

const (
	RoleBuyer   Role = "buyer"
	RoleSeller  Role = "seller"
	RoleCourier Role = "courier"
	// RoleSystem marks internal paths such as OTP-verified delivery.
	RoleSystem Role = "system"
)

var ErrForbidden = errors.New("actor is not allowed to perform this transition")

// Actor is the caller identity attached to a mutation request.
type Actor struct {
	ID   string
	Role Role
}

// AuthorizeTransition applies the capability rules from the fulfillment
// policy: sellers drive the linear advance, buyers and sellers may cancel,
// and only the system path sets Delivered.
func AuthorizeTransition(actor Actor, current, target Status) error {
	switch target {
	case StatusCancelled:
		if actor.Role == RoleBuyer || actor.Role == RoleSeller {
			return nil
		}
	case StatusDelivered:
		if actor.Role == RoleSystem {
			return nil
		}
	default:
		if actor.Role == RoleSeller && IsSellerAdvance(current, target) {
			return nil
		}
	}
	return ErrForbidden
}
