package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/agrikart/fulfillment/internal/domains/orders/domain"
)

var (
	ErrNotFound      = errors.New("order not found")
	ErrAlreadyExists = errors.New("order already exists")
	// ErrStaleStatus is returned by Update when the row's status no longer
	// matches the status the caller read. Another writer got there first.
	ErrStaleStatus = errors.New("order status changed concurrently")
)

// Page bounds list queries. Zero Limit falls back to the adapter default.
type Page struct {
	Offset int
	Limit  int
}

// Repository persists order aggregates. The ledger is the sole writer.
type Repository interface {
	// Create inserts a new order; ErrAlreadyExists when the id is taken.
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	// Update persists a mutated order. The write only applies while the
	// stored status still equals from, so a transition raced by another
	// process fails with ErrStaleStatus instead of overwriting it.
	// ErrNotFound when the order is absent.
	Update(ctx context.Context, order *domain.Order, from domain.Status) (*domain.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	// ListByBuyer returns the buyer's orders, newest first.
	ListByBuyer(ctx context.Context, buyerID string, page Page) ([]*domain.Order, error)
	// List returns all orders, newest first (seller view).
	List(ctx context.Context, page Page) ([]*domain.Order, error)
	// ListDeliveryJobs returns OutForDelivery orders without an assigned courier.
	ListDeliveryJobs(ctx context.Context) ([]*domain.Order, error)
}
