package http

import (
	"errors"

	checkoutapp "github.com/agrikart/fulfillment/internal/domains/checkout/application"
	checkoutports "github.com/agrikart/fulfillment/internal/domains/checkout/ports"
	deliverydomain "github.com/agrikart/fulfillment/internal/domains/delivery/domain"
	deliveryports "github.com/agrikart/fulfillment/internal/domains/delivery/ports"
	fulfillmentapp "github.com/agrikart/fulfillment/internal/domains/fulfillment/application"
	ordersapp "github.com/agrikart/fulfillment/internal/domains/orders/application"
	ordersdomain "github.com/agrikart/fulfillment/internal/domains/orders/domain"
	ordersports "github.com/agrikart/fulfillment/internal/domains/orders/ports"
	apierrors "github.com/agrikart/fulfillment/internal/shared/errors"
)

// newResponder builds the responder with the fulfillment error mappers.
func newResponder() *apierrors.ChainedResponder {
	return apierrors.NewChainedResponder("", mapDomainError)
}

// mapDomainError translates application and domain sentinels into problem
// details. Unmapped errors fall through to the generic 500 handler.
func mapDomainError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ordersapp.ErrInvalidInput),
		errors.Is(err, checkoutapp.ErrInvalidCart):
		return apierrors.ErrValidation.WithDetail(err.Error()), true

	case errors.Is(err, checkoutapp.ErrPaymentNotCompleted):
		return apierrors.ErrPaymentRequired.WithDetail(err.Error()), true

	case errors.Is(err, ordersports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("order not found"), true
	case errors.Is(err, checkoutports.ErrSessionNotFound):
		return apierrors.ErrNotFound.WithDetail("checkout session not found"), true
	case errors.Is(err, deliveryports.ErrOtpNotFound):
		return apierrors.ErrNotFound.WithDetail("no active delivery code for this order"), true

	case errors.Is(err, ordersdomain.ErrInvalidTransition),
		errors.Is(err, ordersdomain.ErrCourierTaken),
		errors.Is(err, ordersports.ErrAlreadyExists),
		errors.Is(err, ordersports.ErrStaleStatus),
		errors.Is(err, fulfillmentapp.ErrOtpNotApplicable):
		return apierrors.ErrConflict.WithDetail(err.Error()), true

	case errors.Is(err, ordersdomain.ErrForbidden):
		return apierrors.ErrForbidden.WithDetail(err.Error()), true

	case errors.Is(err, deliverydomain.ErrExpired):
		return apierrors.ErrGone.WithDetail("delivery code expired; request a new one"), true
	case errors.Is(err, deliverydomain.ErrAttemptsExhausted),
		errors.Is(err, deliverydomain.ErrConsumed):
		return apierrors.ErrGone.WithDetail("delivery code no longer usable; request a new one"), true
	case errors.Is(err, deliverydomain.ErrMismatch):
		return apierrors.ErrValidation.WithDetail("delivery code does not match"), true

	case errors.Is(err, checkoutports.ErrGatewayUnavailable):
		return apierrors.ErrInternal.WithDetail("payment gateway unavailable"), true
	}
	return apierrors.ProblemDetail{}, false
}
