package application

import (
	"errors"
	"fmt"

	"github.com/agrikart/fulfillment/internal/domains/checkout/ports"
	ordersdomain "github.com/agrikart/fulfillment/internal/domains/orders/domain"
)

var (
	// ErrInvalidCart signals the cart failed validation or pricing.
	ErrInvalidCart = errors.New("invalid cart")
	// ErrPaymentNotCompleted means the gateway has not confirmed payment yet.
	ErrPaymentNotCompleted = errors.New("payment not completed at the gateway")
	// ErrSessionCorrupted marks a consumed session without a bound order.
	ErrSessionCorrupted = errors.New("consumed session has no bound order")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ordersdomain.ErrEmptyLines) ||
		errors.Is(err, ordersdomain.ErrEmptyProduct) ||
		errors.Is(err, ordersdomain.ErrInvalidQuantity) ||
		errors.Is(err, ordersdomain.ErrInvalidPrice) ||
		errors.Is(err, ordersdomain.ErrInvalidAddress) ||
		errors.Is(err, ports.ErrProductUnavailable) {
		return fmt.Errorf("%w: %w", ErrInvalidCart, err)
	}
	return err
}
