// Package http is the gin transport for the fulfillment service.
package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agrikart/fulfillment/internal/domains/fulfillment/adapters/http/mapper"
	"github.com/agrikart/fulfillment/internal/domains/fulfillment/ports"
	ordersdomain "github.com/agrikart/fulfillment/internal/domains/orders/domain"
	ordersports "github.com/agrikart/fulfillment/internal/domains/orders/ports"
	apierrors "github.com/agrikart/fulfillment/internal/shared/errors"
)

const (
	headerActorID   = "X-Actor-Id"
	headerActorRole = "X-Actor-Role"

	maxPageLimit = 100
)

// API wires HTTP transport with the fulfillment orchestrator.
type API struct {
	service ports.Service
	respond *apierrors.ChainedResponder
}

// NewAPI creates the transport handlers backed by the orchestrator.
func NewAPI(service ports.Service) *API {
	return &API{service: service, respond: newResponder()}
}

type createSessionRequest struct {
	BuyerID         string                   `json:"buyerId" binding:"required"`
	Lines           []mapper.CartLinePayload `json:"lines" binding:"required"`
	ShippingAddress mapper.AddressPayload    `json:"shippingAddress"`
}

// Post /v1/checkout/sessions
// Open a checkout session with server-side pricing.
func (api *API) CreateSession(c *gin.Context) {
	var payload createSessionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.respond.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	session, err := api.service.CreateCheckoutSession(
		c.Request.Context(),
		payload.BuyerID,
		mapper.ToCartLines(payload.Lines),
		mapper.ToAddress(payload.ShippingAddress),
	)
	if err != nil {
		api.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromSession(session))
}

// Post /v1/checkout/sessions/:ref/confirm
// Confirm a paid session. Idempotent across redirect and webhook.
func (api *API) ConfirmSession(c *gin.Context) {
	ref, ok := parseUUIDParam(c, api.respond, "ref")
	if !ok {
		return
	}
	order, err := api.service.ConfirmCheckoutSession(c.Request.Context(), ref)
	if err != nil {
		api.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrder(order))
}

// Get /v1/orders
// List orders scoped by buyer or seller view.
func (api *API) ListOrders(c *gin.Context) {
	page := parsePage(c)
	buyerID := strings.TrimSpace(c.Query("buyer"))
	_, sellerView := c.GetQuery("seller")

	var (
		orders []*ordersdomain.Order
		err    error
	)
	switch {
	case buyerID != "":
		orders, err = api.service.ListBuyerOrders(c.Request.Context(), buyerID, page)
	case sellerView:
		orders, err = api.service.ListSellerOrders(c.Request.Context(), page)
	default:
		api.respond.Respond(c, apierrors.ErrBadRequest.WithDetail("either buyer or seller query parameter is required"))
		return
	}
	if err != nil {
		api.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": mapper.FromOrderList(orders)})
}

type advanceStatusRequest struct {
	Target   string `json:"target" binding:"required"`
	Override bool   `json:"override"`
}

// Post /v1/orders/:id/status
// Advance the fulfillment state machine for an order.
func (api *API) AdvanceStatus(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, api.respond, "id")
	if !ok {
		return
	}
	var payload advanceStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.respond.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	target := ordersdomain.Status(payload.Target)
	if target == ordersdomain.StatusDelivered && !payload.Override {
		api.respond.Respond(c, apierrors.ErrBadRequest.WithDetail(
			"delivered is set through OTP verification; pass override=true for a manual override"))
		return
	}

	order, err := api.service.AdvanceStatus(c.Request.Context(), orderID, target, actorFrom(c))
	if err != nil {
		api.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrder(order))
}

// Post /v1/orders/:id/otp
// Generate and dispatch a delivery code, displacing any prior one.
func (api *API) GenerateOtp(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, api.respond, "id")
	if !ok {
		return
	}
	receipt, err := api.service.GenerateDeliveryOtp(c.Request.Context(), orderID, actorFrom(c))
	if err != nil {
		api.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromReceipt(receipt))
}

type verifyOtpRequest struct {
	Code string `json:"code" binding:"required"`
}

// Post /v1/orders/:id/otp/verify
// Verify the delivery code; success commits Delivered.
func (api *API) VerifyOtp(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, api.respond, "id")
	if !ok {
		return
	}
	var payload verifyOtpRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.respond.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	order, err := api.service.VerifyDeliveryOtp(c.Request.Context(), orderID, payload.Code)
	if err != nil {
		api.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrder(order))
}

// Get /v1/delivery/jobs
// List unassigned orders that are out for delivery.
func (api *API) ListDeliveryJobs(c *gin.Context) {
	orders, err := api.service.ListDeliveryJobs(c.Request.Context())
	if err != nil {
		api.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": mapper.FromOrderList(orders)})
}

type claimJobRequest struct {
	CourierID string `json:"courierId" binding:"required"`
}

// Post /v1/delivery/jobs/:id/claim
// Claim a delivery job for a courier. First claim wins.
func (api *API) ClaimDeliveryJob(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, api.respond, "id")
	if !ok {
		return
	}
	var payload claimJobRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.respond.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	order, err := api.service.ClaimDeliveryJob(c.Request.Context(), orderID, payload.CourierID)
	if err != nil {
		api.respond.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrder(order))
}

// actorFrom reads the caller identity the edge gateway injected.
func actorFrom(c *gin.Context) ordersdomain.Actor {
	return ordersdomain.Actor{
		ID:   c.GetHeader(headerActorID),
		Role: ordersdomain.Role(strings.ToLower(c.GetHeader(headerActorRole))),
	}
}

func parseUUIDParam(c *gin.Context, respond *apierrors.ChainedResponder, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respond.Respond(c, apierrors.ErrBadRequest.WithDetail(name+" must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}

func parsePage(c *gin.Context) ordersports.Page {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 0 {
		limit = 0
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return ordersports.Page{Offset: offset, Limit: limit}
}
