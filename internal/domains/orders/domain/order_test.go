package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func validAddress() Address {
	return Address{Line1: "12 Mandi Road", City: "Pune", PostalCode: "411001", Country: "IN"}
}

func validLines() []OrderLine {
	return []OrderLine{
		{ProductID: "prod-tomato", ProductName: "Tomatoes 1kg", UnitPrice: 15000, Quantity: 3},
		{ProductID: "prod-onion", ProductName: "Onions 1kg", UnitPrice: 10000, Quantity: 1},
	}
}

func TestComputeTotal(t *testing.T) {
	require.Equal(t, int64(55000), ComputeTotal(validLines()))
	require.Equal(t, int64(0), ComputeTotal(nil))
}

func TestNewOrder_Success(t *testing.T) {
	paidAt := time.Now()
	order, err := NewOrder(uuid.New(), "buyer-1", validLines(), 55000, validAddress(), paidAt)
	require.NoError(t, err)
	require.Equal(t, PaymentPaid, order.PaymentState)
	require.Equal(t, StatusPending, order.Status)
	require.NotNil(t, order.PaidAt)
	require.Equal(t, paidAt, *order.PaidAt)
	require.Equal(t, int64(55000), order.TotalPrice)
}

func TestNewOrder_FreezesLines(t *testing.T) {
	lines := validLines()
	order, err := NewOrder(uuid.New(), "buyer-1", lines, 55000, validAddress(), time.Now())
	require.NoError(t, err)

	lines[0].UnitPrice = 1
	require.Equal(t, int64(15000), order.Lines[0].UnitPrice)
}

func TestNewOrder_TotalMustMatchLines(t *testing.T) {
	_, err := NewOrder(uuid.New(), "buyer-1", validLines(), 54999, validAddress(), time.Now())
	require.ErrorIs(t, err, ErrTotalMismatch)
}

func TestNewOrder_Validation(t *testing.T) {
	_, err := NewOrder(uuid.New(), " ", validLines(), 55000, validAddress(), time.Now())
	require.ErrorIs(t, err, ErrEmptyBuyer)

	_, err = NewOrder(uuid.New(), "buyer-1", nil, 0, validAddress(), time.Now())
	require.ErrorIs(t, err, ErrEmptyLines)

	bad := validLines()
	bad[0].Quantity = 0
	_, err = NewOrder(uuid.New(), "buyer-1", bad, ComputeTotal(bad), validAddress(), time.Now())
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewOrder(uuid.New(), "buyer-1", validLines(), 55000, Address{Line1: "x"}, time.Now())
	require.ErrorIs(t, err, ErrInvalidAddress)
}

func TestValidateLines(t *testing.T) {
	require.NoError(t, ValidateLines(validLines()))

	lines := validLines()
	lines[1].ProductID = ""
	require.ErrorIs(t, ValidateLines(lines), ErrEmptyProduct)

	lines = validLines()
	lines[0].UnitPrice = -1
	require.ErrorIs(t, ValidateLines(lines), ErrInvalidPrice)
}

func TestTransitionTo_StampsDeliveredAt(t *testing.T) {
	order, err := NewOrder(uuid.New(), "buyer-1", validLines(), 55000, validAddress(), time.Now())
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, order.TransitionTo(StatusProcessing, now))
	require.Nil(t, order.DeliveredAt)
	require.NoError(t, order.TransitionTo(StatusShipped, now))
	require.NoError(t, order.TransitionTo(StatusOutForDelivery, now))
	require.NoError(t, order.TransitionTo(StatusDelivered, now))
	require.NotNil(t, order.DeliveredAt)
	require.Equal(t, now, *order.DeliveredAt)
}

func TestTransitionTo_RejectsInvalidEdge(t *testing.T) {
	order, err := NewOrder(uuid.New(), "buyer-1", validLines(), 55000, validAddress(), time.Now())
	require.NoError(t, err)

	require.ErrorIs(t, order.TransitionTo(StatusDelivered, time.Now()), ErrInvalidTransition)
	require.Equal(t, StatusPending, order.Status)
}

func TestAssignCourier_FirstClaimWins(t *testing.T) {
	order, err := NewOrder(uuid.New(), "buyer-1", validLines(), 55000, validAddress(), time.Now())
	require.NoError(t, err)

	require.NoError(t, order.AssignCourier("courier-7"))
	require.Equal(t, "courier-7", order.CourierID)
	require.ErrorIs(t, order.AssignCourier("courier-8"), ErrCourierTaken)
	require.Equal(t, "courier-7", order.CourierID)
}
