package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/agrikart/fulfillment/internal/domains/orders/domain"
	"github.com/agrikart/fulfillment/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

const defaultPageLimit = 50

// Repository is an in-memory order persistence adapter for development and tests.
type Repository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*domain.Order
}

func NewRepository() *Repository {
	return &Repository{orders: map[uuid.UUID]*domain.Order{}}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; ok {
		return nil, ports.ErrAlreadyExists
	}
	clone := cloneOrder(order)
	r.orders[order.ID] = clone
	return cloneOrder(clone), nil
}

func (r *Repository) Update(_ context.Context, order *domain.Order, from domain.Status) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[order.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if stored.Status != from {
		return nil, ports.ErrStaleStatus
	}
	clone := cloneOrder(order)
	r.orders[order.ID] = clone
	return cloneOrder(clone), nil
}

func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *Repository) ListByBuyer(_ context.Context, buyerID string, page ports.Page) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return paginate(r.collect(func(o *domain.Order) bool { return o.BuyerID == buyerID }), page), nil
}

func (r *Repository) List(_ context.Context, page ports.Page) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return paginate(r.collect(func(*domain.Order) bool { return true }), page), nil
}

func (r *Repository) ListDeliveryJobs(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(o *domain.Order) bool {
		return o.Status == domain.StatusOutForDelivery && o.CourierID == ""
	}), nil
}

func (r *Repository) collect(match func(*domain.Order) bool) []*domain.Order {
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if match(order) {
			list = append(list, cloneOrder(order))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list
}

func paginate(list []*domain.Order, page ports.Page) []*domain.Order {
	limit := page.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if page.Offset >= len(list) {
		return []*domain.Order{}
	}
	end := page.Offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[page.Offset:end]
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Lines = make([]domain.OrderLine, len(order.Lines))
	copy(clone.Lines, order.Lines)
	if order.PaidAt != nil {
		paidAt := *order.PaidAt
		clone.PaidAt = &paidAt
	}
	if order.DeliveredAt != nil {
		deliveredAt := *order.DeliveredAt
		clone.DeliveredAt = &deliveredAt
	}
	return &clone
}
