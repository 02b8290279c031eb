package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/agrikart/fulfillment/internal/domains/orders/adapters/memory"
	"github.com/agrikart/fulfillment/internal/domains/orders/domain"
	"github.com/agrikart/fulfillment/internal/domains/orders/ports"
)

func testInput(orderID uuid.UUID) ports.MaterializeInput {
	lines := []domain.OrderLine{
		{ProductID: "prod-rice", ProductName: "Basmati 5kg", UnitPrice: 45000, Quantity: 1},
		{ProductID: "prod-dal", ProductName: "Toor Dal 1kg", UnitPrice: 10000, Quantity: 1},
	}
	return ports.MaterializeInput{
		OrderID:    orderID,
		BuyerID:    "buyer-1",
		Lines:      lines,
		TotalPrice: 55000,
		ShippingAddress: domain.Address{
			Line1: "12 Mandi Road", City: "Pune", PostalCode: "411001", Country: "IN",
		},
		PaidAt: time.Now(),
	}
}

func seller() domain.Actor  { return domain.Actor{ID: "farm-1", Role: domain.RoleSeller} }
func buyer() domain.Actor   { return domain.Actor{ID: "buyer-1", Role: domain.RoleBuyer} }
func courier() domain.Actor { return domain.Actor{ID: "courier-7", Role: domain.RoleCourier} }

func TestMaterialize_CreatesPaidPendingOrder(t *testing.T) {
	svc := NewService(memory.NewRepository())

	order, err := svc.Materialize(context.Background(), testInput(uuid.New()))
	require.NoError(t, err)
	require.Equal(t, domain.PaymentPaid, order.PaymentState)
	require.Equal(t, domain.StatusPending, order.Status)
	require.Equal(t, int64(55000), order.TotalPrice)
}

func TestMaterialize_RetryConvergesOnSameOrder(t *testing.T) {
	svc := NewService(memory.NewRepository())
	orderID := uuid.New()

	first, err := svc.Materialize(context.Background(), testInput(orderID))
	require.NoError(t, err)

	second, err := svc.Materialize(context.Background(), testInput(orderID))
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	orders, err := svc.ListByBuyer(context.Background(), "buyer-1", ports.Page{})
	require.NoError(t, err)
	require.Len(t, orders, 1)
}

func TestMaterialize_RejectsTamperedTotal(t *testing.T) {
	svc := NewService(memory.NewRepository())
	input := testInput(uuid.New())
	input.TotalPrice = 100

	_, err := svc.Materialize(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrTotalMismatch)
}

func TestTransition_SellerAdvancesLinearPath(t *testing.T) {
	svc := NewService(memory.NewRepository())
	order, err := svc.Materialize(context.Background(), testInput(uuid.New()))
	require.NoError(t, err)

	for _, target := range []domain.Status{domain.StatusProcessing, domain.StatusShipped, domain.StatusOutForDelivery} {
		order, err = svc.Transition(context.Background(), order.ID, target, seller())
		require.NoError(t, err)
		require.Equal(t, target, order.Status)
	}
}

func TestTransition_BuyerCannotAdvance(t *testing.T) {
	svc := NewService(memory.NewRepository())
	order, err := svc.Materialize(context.Background(), testInput(uuid.New()))
	require.NoError(t, err)

	_, err = svc.Transition(context.Background(), order.ID, domain.StatusProcessing, buyer())
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTransition_CancelAfterDeliveredRejected(t *testing.T) {
	svc := NewService(memory.NewRepository())
	order, err := svc.Materialize(context.Background(), testInput(uuid.New()))
	require.NoError(t, err)

	for _, target := range []domain.Status{domain.StatusProcessing, domain.StatusShipped, domain.StatusOutForDelivery} {
		_, err = svc.Transition(context.Background(), order.ID, target, seller())
		require.NoError(t, err)
	}
	_, err = svc.MarkDeliveredVerified(context.Background(), order.ID)
	require.NoError(t, err)

	_, err = svc.Transition(context.Background(), order.ID, domain.StatusCancelled, buyer())
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTransition_NotFound(t *testing.T) {
	svc := NewService(memory.NewRepository())
	_, err := svc.Transition(context.Background(), uuid.New(), domain.StatusProcessing, seller())
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestMarkDeliveredVerified_StampsDeliveredAt(t *testing.T) {
	fixed := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	svc := NewService(memory.NewRepository(), WithClock(func() time.Time { return fixed }))
	order, err := svc.Materialize(context.Background(), testInput(uuid.New()))
	require.NoError(t, err)

	for _, target := range []domain.Status{domain.StatusProcessing, domain.StatusShipped, domain.StatusOutForDelivery} {
		_, err = svc.Transition(context.Background(), order.ID, target, seller())
		require.NoError(t, err)
	}

	delivered, err := svc.MarkDeliveredVerified(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusDelivered, delivered.Status)
	require.NotNil(t, delivered.DeliveredAt)
	require.Equal(t, fixed, *delivered.DeliveredAt)
}

func TestOverrideDelivered_SellerOnly(t *testing.T) {
	svc := NewService(memory.NewRepository())
	order, err := svc.Materialize(context.Background(), testInput(uuid.New()))
	require.NoError(t, err)

	for _, target := range []domain.Status{domain.StatusProcessing, domain.StatusShipped, domain.StatusOutForDelivery} {
		_, err = svc.Transition(context.Background(), order.ID, target, seller())
		require.NoError(t, err)
	}

	_, err = svc.OverrideDelivered(context.Background(), order.ID, courier())
	require.ErrorIs(t, err, domain.ErrForbidden)

	delivered, err := svc.OverrideDelivered(context.Background(), order.ID, seller())
	require.NoError(t, err)
	require.Equal(t, domain.StatusDelivered, delivered.Status)
}

func TestAssignCourier_RequiresOutForDelivery(t *testing.T) {
	svc := NewService(memory.NewRepository())
	order, err := svc.Materialize(context.Background(), testInput(uuid.New()))
	require.NoError(t, err)

	_, err = svc.AssignCourier(context.Background(), order.ID, "courier-7")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestAssignCourier_SecondClaimRejected(t *testing.T) {
	svc := NewService(memory.NewRepository())
	order, err := svc.Materialize(context.Background(), testInput(uuid.New()))
	require.NoError(t, err)

	for _, target := range []domain.Status{domain.StatusProcessing, domain.StatusShipped, domain.StatusOutForDelivery} {
		_, err = svc.Transition(context.Background(), order.ID, target, seller())
		require.NoError(t, err)
	}

	claimed, err := svc.AssignCourier(context.Background(), order.ID, "courier-7")
	require.NoError(t, err)
	require.Equal(t, "courier-7", claimed.CourierID)

	_, err = svc.AssignCourier(context.Background(), order.ID, "courier-8")
	require.ErrorIs(t, err, domain.ErrCourierTaken)

	jobs, err := svc.ListDeliveryJobs(context.Background())
	require.NoError(t, err)
	require.Empty(t, jobs)
}
