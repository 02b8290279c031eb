// Package mapper translates between transport payloads and domain types.
package mapper

import (
	"time"

	checkoutdomain "github.com/agrikart/fulfillment/internal/domains/checkout/domain"
	checkoutports "github.com/agrikart/fulfillment/internal/domains/checkout/ports"
	deliveryports "github.com/agrikart/fulfillment/internal/domains/delivery/ports"
	ordersdomain "github.com/agrikart/fulfillment/internal/domains/orders/domain"
)

// AddressPayload is the shipping address as sent by clients.
type AddressPayload struct {
	Line1      string `json:"line1"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// CartLinePayload is one client cart line. Prices are never accepted from
// clients; the catalog is the price authority.
type CartLinePayload struct {
	ProductID string `json:"productId"`
	Quantity  int32  `json:"quantity"`
}

// OrderLineResponse is a frozen order line with its computed subtotal.
type OrderLineResponse struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	UnitPrice   int64  `json:"unitPrice"`
	Quantity    int32  `json:"quantity"`
	Subtotal    int64  `json:"subtotal"`
}

// OrderResponse is the public order representation. Amounts are minor units.
type OrderResponse struct {
	ID              string              `json:"id"`
	BuyerID         string              `json:"buyerId"`
	Lines           []OrderLineResponse `json:"lines"`
	TotalPrice      int64               `json:"totalPrice"`
	ShippingAddress AddressPayload      `json:"shippingAddress"`
	PaymentState    string              `json:"paymentState"`
	PaidAt          *time.Time          `json:"paidAt,omitempty"`
	Status          string              `json:"status"`
	CourierID       string              `json:"courierId,omitempty"`
	DeliveredAt     *time.Time          `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
}

// SessionResponse is the created checkout session with the gateway redirect.
type SessionResponse struct {
	Ref         string              `json:"ref"`
	BuyerID     string              `json:"buyerId"`
	Lines       []OrderLineResponse `json:"lines"`
	TotalPrice  int64               `json:"totalPrice"`
	RedirectURL string              `json:"redirectUrl,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// OtpReceiptResponse acknowledges a dispatched delivery code. The code itself
// never appears in any response.
type OtpReceiptResponse struct {
	OrderID     string    `json:"orderId"`
	Destination string    `json:"destination"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// ToAddress converts the transport address into the domain value.
func ToAddress(payload AddressPayload) ordersdomain.Address {
	return ordersdomain.Address{
		Line1:      payload.Line1,
		City:       payload.City,
		PostalCode: payload.PostalCode,
		Country:    payload.Country,
	}
}

// ToCartLines converts transport cart lines into checkout inputs.
func ToCartLines(payloads []CartLinePayload) []checkoutports.CartLine {
	lines := make([]checkoutports.CartLine, 0, len(payloads))
	for _, payload := range payloads {
		lines = append(lines, checkoutports.CartLine{
			ProductID: payload.ProductID,
			Quantity:  payload.Quantity,
		})
	}
	return lines
}

// FromOrder builds the public order representation.
func FromOrder(order *ordersdomain.Order) OrderResponse {
	return OrderResponse{
		ID:         order.ID.String(),
		BuyerID:    order.BuyerID,
		Lines:      fromLines(order.Lines),
		TotalPrice: order.TotalPrice,
		ShippingAddress: AddressPayload{
			Line1:      order.ShippingAddress.Line1,
			City:       order.ShippingAddress.City,
			PostalCode: order.ShippingAddress.PostalCode,
			Country:    order.ShippingAddress.Country,
		},
		PaymentState: string(order.PaymentState),
		PaidAt:       order.PaidAt,
		Status:       string(order.Status),
		CourierID:    order.CourierID,
		DeliveredAt:  order.DeliveredAt,
		CreatedAt:    order.CreatedAt,
	}
}

// FromOrderList maps a page of orders.
func FromOrderList(orders []*ordersdomain.Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, FromOrder(order))
	}
	return responses
}

// FromSession builds the session representation returned at creation.
func FromSession(session *checkoutdomain.Session) SessionResponse {
	return SessionResponse{
		Ref:         session.Ref.String(),
		BuyerID:     session.BuyerID,
		Lines:       fromLines(session.Lines),
		TotalPrice:  session.TotalPrice,
		RedirectURL: session.RedirectURL,
		CreatedAt:   session.CreatedAt,
	}
}

// FromReceipt builds the OTP dispatch acknowledgement.
func FromReceipt(receipt *deliveryports.DispatchReceipt) OtpReceiptResponse {
	return OtpReceiptResponse{
		OrderID:     receipt.OrderID.String(),
		Destination: receipt.Destination,
		ExpiresAt:   receipt.ExpiresAt,
	}
}

func fromLines(lines []ordersdomain.OrderLine) []OrderLineResponse {
	responses := make([]OrderLineResponse, 0, len(lines))
	for _, line := range lines {
		responses = append(responses, OrderLineResponse{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			Subtotal:    line.Subtotal(),
		})
	}
	return responses
}
