package ports

import (
	"context"

	"github.com/google/uuid"

	checkoutdomain "github.com/agrikart/fulfillment/internal/domains/checkout/domain"
	checkoutports "github.com/agrikart/fulfillment/internal/domains/checkout/ports"
	deliveryports "github.com/agrikart/fulfillment/internal/domains/delivery/ports"
	ordersdomain "github.com/agrikart/fulfillment/internal/domains/orders/domain"
	ordersports "github.com/agrikart/fulfillment/internal/domains/orders/ports"
)

// Service is the public fulfillment surface consumed by the storefront,
// seller, and delivery-partner roles.
type Service interface {
	CreateCheckoutSession(ctx context.Context, buyerID string, lines []checkoutports.CartLine, address ordersdomain.Address) (*checkoutdomain.Session, error)
	// ConfirmCheckoutSession is idempotent across gateway redirect and
	// webhook callbacks.
	ConfirmCheckoutSession(ctx context.Context, ref uuid.UUID) (*ordersdomain.Order, error)
	ListBuyerOrders(ctx context.Context, buyerID string, page ordersports.Page) ([]*ordersdomain.Order, error)
	ListSellerOrders(ctx context.Context, page ordersports.Page) ([]*ordersdomain.Order, error)
	// AdvanceStatus drives the seller-facing state machine. A Delivered
	// target is treated as the audited no-OTP override.
	AdvanceStatus(ctx context.Context, orderID uuid.UUID, target ordersdomain.Status, actor ordersdomain.Actor) (*ordersdomain.Order, error)
	GenerateDeliveryOtp(ctx context.Context, orderID uuid.UUID, actor ordersdomain.Actor) (*deliveryports.DispatchReceipt, error)
	// VerifyDeliveryOtp commits Delivered on success.
	VerifyDeliveryOtp(ctx context.Context, orderID uuid.UUID, code string) (*ordersdomain.Order, error)
	ListDeliveryJobs(ctx context.Context) ([]*ordersdomain.Order, error)
	ClaimDeliveryJob(ctx context.Context, orderID uuid.UUID, courierID string) (*ordersdomain.Order, error)
}
