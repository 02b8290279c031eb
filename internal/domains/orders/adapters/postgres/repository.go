package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/agrikart/fulfillment/internal/domains/orders/domain"
	"github.com/agrikart/fulfillment/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

const defaultPageLimit = 50

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{})
	}
	return repo
}

// orderRecord maps the order aggregate to a relational table. Lines are
// stored as a JSON document; product ids are duplicated into an array
// column for seller-side lookups.
type orderRecord struct {
	ID          string         `gorm:"primaryKey;column:id;size:36"`
	BuyerID     string         `gorm:"column:buyer_id;size:64;index"`
	Lines       []lineRecord   `gorm:"column:lines;serializer:json"`
	ProductIDs  pq.StringArray `gorm:"column:product_ids;type:text[]"`
	TotalPrice  int64          `gorm:"column:total_price"`
	AddrLine1   string         `gorm:"column:addr_line1"`
	AddrCity    string         `gorm:"column:addr_city"`
	AddrPostal  string         `gorm:"column:addr_postal;size:16"`
	AddrCountry string         `gorm:"column:addr_country;size:2"`
	Payment     string         `gorm:"column:payment_state;type:varchar(16)"`
	PaidAt      *time.Time     `gorm:"column:paid_at"`
	Status      string         `gorm:"column:status;type:varchar(32);index:idx_orders_status_courier"`
	CourierID   string         `gorm:"column:courier_id;size:64;index:idx_orders_status_courier"`
	DeliveredAt *time.Time     `gorm:"column:delivered_at"`
	CreatedAt   time.Time      `gorm:"column:created_at;index"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

type lineRecord struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	UnitPrice   int64  `json:"unitPrice"`
	Quantity    int32  `json:"quantity"`
}

func (orderRecord) TableName() string { return "orders" }

// Create inserts a new order; duplicate ids surface as ErrAlreadyExists.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(order)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrAlreadyExists
		}
		return nil, err
	}
	return r.GetByID(ctx, order.ID)
}

// Update persists a mutated order row. The status predicate makes the write
// a compare-and-set across processes: a row whose status moved since the
// caller's read is left untouched and reported as ErrStaleStatus.
func (r *Repository) Update(ctx context.Context, order *domain.Order, from domain.Status) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(order)
	result := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("id = ? AND status = ?", record.ID, string(from)).
		Updates(map[string]any{
			"status":       record.Status,
			"courier_id":   record.CourierID,
			"delivered_at": record.DeliveredAt,
			"updated_at":   gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&orderRecord{}).
			Where("id = ?", record.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ports.ErrNotFound
		}
		return nil, ports.ErrStaleStatus
	}
	return r.GetByID(ctx, order.ID)
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain()
}

// ListByBuyer returns the buyer's orders, newest first.
func (r *Repository) ListByBuyer(ctx context.Context, buyerID string, page ports.Page) ([]*domain.Order, error) {
	return r.list(ctx, page, "buyer_id = ?", buyerID)
}

// List returns all orders, newest first.
func (r *Repository) List(ctx context.Context, page ports.Page) ([]*domain.Order, error) {
	return r.list(ctx, page)
}

// ListDeliveryJobs returns OutForDelivery orders without a courier.
func (r *Repository) ListDeliveryJobs(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Where("status = ? AND courier_id = ''", string(domain.StatusOutForDelivery)).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainList(records)
}

func (r *Repository) list(ctx context.Context, page ports.Page, conds ...any) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	limit := page.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	query := r.db.WithContext(ctx).Order("created_at DESC").Offset(page.Offset).Limit(limit)
	if len(conds) > 0 {
		query = query.Where(conds[0], conds[1:]...)
	}
	var records []orderRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainList(records)
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	lines := make([]lineRecord, 0, len(order.Lines))
	productIDs := make(pq.StringArray, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, lineRecord{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
		})
		productIDs = append(productIDs, line.ProductID)
	}
	return orderRecord{
		ID:          order.ID.String(),
		BuyerID:     order.BuyerID,
		Lines:       lines,
		ProductIDs:  productIDs,
		TotalPrice:  order.TotalPrice,
		AddrLine1:   order.ShippingAddress.Line1,
		AddrCity:    order.ShippingAddress.City,
		AddrPostal:  order.ShippingAddress.PostalCode,
		AddrCountry: order.ShippingAddress.Country,
		Payment:     string(order.PaymentState),
		PaidAt:      order.PaidAt,
		Status:      string(order.Status),
		CourierID:   order.CourierID,
		DeliveredAt: order.DeliveredAt,
		CreatedAt:   order.CreatedAt,
	}
}

func (r orderRecord) toDomain() (*domain.Order, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, err
	}
	lines := make([]domain.OrderLine, 0, len(r.Lines))
	for _, line := range r.Lines {
		lines = append(lines, domain.OrderLine{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
		})
	}
	return &domain.Order{
		ID:      id,
		BuyerID: r.BuyerID,
		Lines:   lines,
		ShippingAddress: domain.Address{
			Line1:      r.AddrLine1,
			City:       r.AddrCity,
			PostalCode: r.AddrPostal,
			Country:    r.AddrCountry,
		},
		TotalPrice:   r.TotalPrice,
		PaymentState: domain.PaymentState(r.Payment),
		PaidAt:       r.PaidAt,
		Status:       domain.Status(r.Status),
		CourierID:    r.CourierID,
		DeliveredAt:  r.DeliveredAt,
		CreatedAt:    r.CreatedAt,
	}, nil
}

func toDomainList(records []orderRecord) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		order, err := records[i].toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}
