package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/agrikart/fulfillment/internal/domains/orders/domain"
	"github.com/agrikart/fulfillment/internal/domains/orders/ports"
)

func testOrder(t *testing.T, buyerID string) *domain.Order {
	t.Helper()
	lines := []domain.OrderLine{
		{ProductID: "prod-tomato", ProductName: "Tomatoes 1kg", UnitPrice: 15000, Quantity: 3},
	}
	address := domain.Address{Line1: "12 Mandi Road", City: "Pune", PostalCode: "411001", Country: "IN"}
	order, err := domain.NewOrder(uuid.New(), buyerID, lines, 45000, address, time.Now())
	require.NoError(t, err)
	return order
}

func TestUpdate_AppliesWhileStatusUnmoved(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	order := testOrder(t, "buyer-1")
	_, err := repo.Create(ctx, order)
	require.NoError(t, err)

	require.NoError(t, order.TransitionTo(domain.StatusProcessing, time.Now()))
	updated, err := repo.Update(ctx, order, domain.StatusPending)
	require.NoError(t, err)
	require.Equal(t, domain.StatusProcessing, updated.Status)

	_, err = repo.Update(ctx, testOrder(t, "buyer-2"), domain.StatusPending)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestUpdate_StaleStatusCannotResurrectTerminalOrder(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	now := time.Now()

	order := testOrder(t, "buyer-1")
	_, err := repo.Create(ctx, order)
	require.NoError(t, err)

	// Writer A walks the order all the way to delivered.
	a, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	for _, target := range []domain.Status{
		domain.StatusProcessing, domain.StatusShipped,
		domain.StatusOutForDelivery, domain.StatusDelivered,
	} {
		from := a.Status
		require.NoError(t, a.TransitionTo(target, now))
		_, err = repo.Update(ctx, a, from)
		require.NoError(t, err)
	}

	// Writer B read the order before delivery committed and now tries to
	// cancel based on that stale view.
	require.NoError(t, order.TransitionTo(domain.StatusCancelled, now))
	_, err = repo.Update(ctx, order, domain.StatusPending)
	require.ErrorIs(t, err, ports.ErrStaleStatus)

	current, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusDelivered, current.Status)
	require.NotNil(t, current.DeliveredAt)
}
