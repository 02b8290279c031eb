package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	ordersmemory "github.com/agrikart/fulfillment/internal/domains/orders/adapters/memory"
	ordersdomain "github.com/agrikart/fulfillment/internal/domains/orders/domain"
)

func seedOrder(t *testing.T, repo *ordersmemory.Repository, total int64, paidAt time.Time) *ordersdomain.Order {
	t.Helper()
	lines := []ordersdomain.OrderLine{
		{ProductID: "prod-rice", ProductName: "Basmati 5kg", UnitPrice: total, Quantity: 1},
	}
	address := ordersdomain.Address{Line1: "12 Mandi Road", City: "Pune", PostalCode: "411001", Country: "IN"}
	order, err := ordersdomain.NewOrder(uuid.New(), "buyer-1", lines, total, address, paidAt)
	require.NoError(t, err)
	created, err := repo.Create(context.Background(), order)
	require.NoError(t, err)
	return created
}

func TestRecentTotals_ExcludesEvaluatedOrderById(t *testing.T) {
	repo := ordersmemory.NewRepository()
	now := time.Now()

	seedOrder(t, repo, 40000, now.Add(-3*time.Hour))
	seedOrder(t, repo, 50000, now.Add(-2*time.Hour))
	evaluated := seedOrder(t, repo, 900000, now.Add(-time.Hour))
	// A newer order landed before the detached evaluation ran.
	newer := seedOrder(t, repo, 60000, now)

	totals, err := NewHistory(repo).RecentTotals(context.Background(), "buyer-1", evaluated.ID, 20)
	require.NoError(t, err)
	require.Equal(t, []int64{newer.TotalPrice, 50000, 40000}, totals)
	require.NotContains(t, totals, evaluated.TotalPrice)
}

func TestRecentTotals_CapsAtLimit(t *testing.T) {
	repo := ordersmemory.NewRepository()
	now := time.Now()

	for i := 0; i < 5; i++ {
		seedOrder(t, repo, int64(10000*(i+1)), now.Add(time.Duration(i)*time.Minute))
	}
	evaluated := seedOrder(t, repo, 70000, now.Add(time.Hour))

	totals, err := NewHistory(repo).RecentTotals(context.Background(), "buyer-1", evaluated.ID, 3)
	require.NoError(t, err)
	require.Len(t, totals, 3)
	// Newest first, with the evaluated order skipped.
	require.Equal(t, []int64{50000, 40000, 30000}, totals)
}

func TestRecentTotals_EmptyHistory(t *testing.T) {
	repo := ordersmemory.NewRepository()
	totals, err := NewHistory(repo).RecentTotals(context.Background(), "buyer-1", uuid.New(), 20)
	require.NoError(t, err)
	require.Empty(t, totals)
}
