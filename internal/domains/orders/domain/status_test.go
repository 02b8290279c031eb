package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanTransition_LinearHappyPath(t *testing.T) {
	path := []Status{StatusPending, StatusProcessing, StatusShipped, StatusOutForDelivery, StatusDelivered}
	for i := 0; i < len(path)-1; i++ {
		require.NoError(t, CanTransition(path[i], path[i+1]))
	}
}

func TestCanTransition_NoSkippingStages(t *testing.T) {
	require.ErrorIs(t, CanTransition(StatusPending, StatusShipped), ErrInvalidTransition)
	require.ErrorIs(t, CanTransition(StatusPending, StatusDelivered), ErrInvalidTransition)
	require.ErrorIs(t, CanTransition(StatusProcessing, StatusOutForDelivery), ErrInvalidTransition)
}

func TestCanTransition_NoBackwardEdges(t *testing.T) {
	require.ErrorIs(t, CanTransition(StatusDelivered, StatusProcessing), ErrInvalidTransition)
	require.ErrorIs(t, CanTransition(StatusShipped, StatusProcessing), ErrInvalidTransition)
	require.ErrorIs(t, CanTransition(StatusProcessing, StatusPending), ErrInvalidTransition)
}

func TestCanTransition_CancelFromNonTerminalOnly(t *testing.T) {
	for _, current := range []Status{StatusPending, StatusProcessing, StatusShipped, StatusOutForDelivery} {
		require.NoError(t, CanTransition(current, StatusCancelled), "cancel from %s", current)
	}
	require.ErrorIs(t, CanTransition(StatusDelivered, StatusCancelled), ErrInvalidTransition)
	require.ErrorIs(t, CanTransition(StatusCancelled, StatusCancelled), ErrInvalidTransition)
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	require.ErrorIs(t, CanTransition(Status("refunded"), StatusCancelled), ErrInvalidStatus)
	require.ErrorIs(t, CanTransition(StatusPending, Status("archived")), ErrInvalidStatus)
}

func TestIsTerminal(t *testing.T) {
	require.True(t, IsTerminal(StatusDelivered))
	require.True(t, IsTerminal(StatusCancelled))
	require.False(t, IsTerminal(StatusPending))
	require.False(t, IsTerminal(StatusOutForDelivery))
}

func TestAuthorizeTransition_SellerDrivesAdvances(t *testing.T) {
	seller := Actor{ID: "farm-1", Role: RoleSeller}
	require.NoError(t, AuthorizeTransition(seller, StatusPending, StatusProcessing))
	require.NoError(t, AuthorizeTransition(seller, StatusProcessing, StatusShipped))
	require.NoError(t, AuthorizeTransition(seller, StatusShipped, StatusOutForDelivery))
}

func TestAuthorizeTransition_DeliveredIsSystemOnly(t *testing.T) {
	require.ErrorIs(t, AuthorizeTransition(Actor{Role: RoleSeller}, StatusOutForDelivery, StatusDelivered), ErrForbidden)
	require.ErrorIs(t, AuthorizeTransition(Actor{Role: RoleBuyer}, StatusOutForDelivery, StatusDelivered), ErrForbidden)
	require.ErrorIs(t, AuthorizeTransition(Actor{Role: RoleCourier}, StatusOutForDelivery, StatusDelivered), ErrForbidden)
	require.NoError(t, AuthorizeTransition(Actor{Role: RoleSystem}, StatusOutForDelivery, StatusDelivered))
}

func TestAuthorizeTransition_CancelRoles(t *testing.T) {
	require.NoError(t, AuthorizeTransition(Actor{Role: RoleBuyer}, StatusPending, StatusCancelled))
	require.NoError(t, AuthorizeTransition(Actor{Role: RoleSeller}, StatusShipped, StatusCancelled))
	require.ErrorIs(t, AuthorizeTransition(Actor{Role: RoleCourier}, StatusPending, StatusCancelled), ErrForbidden)
}

func TestAuthorizeTransition_BuyerCannotAdvance(t *testing.T) {
	require.ErrorIs(t, AuthorizeTransition(Actor{Role: RoleBuyer}, StatusPending, StatusProcessing), ErrForbidden)
}
