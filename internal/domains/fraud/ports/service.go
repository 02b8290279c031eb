package ports

import (
	"context"

	ordersdomain "github.com/agrikart/fulfillment/internal/domains/orders/domain"
)

// Service is the fraud sentinel contract: advisory, side-effect only.
// Evaluation never blocks or reverses a paid order.
type Service interface {
	Evaluate(ctx context.Context, order *ordersdomain.Order)
}
