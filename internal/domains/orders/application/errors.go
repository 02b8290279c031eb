package application

import (
	"errors"
	"fmt"

	"github.com/agrikart/fulfillment/internal/domains/orders/domain"
)

// ErrInvalidInput signals the request violated an order invariant.
var ErrInvalidInput = errors.New("invalid order input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyBuyer) ||
		errors.Is(err, domain.ErrEmptyLines) ||
		errors.Is(err, domain.ErrEmptyProduct) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidPrice) ||
		errors.Is(err, domain.ErrInvalidAddress) ||
		errors.Is(err, domain.ErrTotalMismatch) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
