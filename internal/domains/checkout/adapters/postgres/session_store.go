package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrikart/fulfillment/internal/domains/checkout/domain"
	"github.com/agrikart/fulfillment/internal/domains/checkout/ports"
	ordersdomain "github.com/agrikart/fulfillment/internal/domains/orders/domain"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore persists checkout sessions in PostgreSQL. The consume CAS is
// a conditional UPDATE on the consumed flag, so exactly one caller wins even
// across processes.
type SessionStore struct {
	db *gorm.DB
}

// NewSessionStore wires a PostgreSQL-backed session store.
func NewSessionStore(db *gorm.DB) *SessionStore {
	store := &SessionStore{db: db}
	if db != nil {
		_ = db.AutoMigrate(&sessionRecord{})
	}
	return store
}

type sessionRecord struct {
	Ref         string       `gorm:"primaryKey;column:ref;size:36"`
	BuyerID     string       `gorm:"column:buyer_id;size:64;index"`
	Lines       []lineRecord `gorm:"column:lines;serializer:json"`
	TotalPrice  int64        `gorm:"column:total_price"`
	AddrLine1   string       `gorm:"column:addr_line1"`
	AddrCity    string       `gorm:"column:addr_city"`
	AddrPostal  string       `gorm:"column:addr_postal;size:16"`
	AddrCountry string       `gorm:"column:addr_country;size:2"`
	GatewayRef  string       `gorm:"column:gateway_ref;size:128"`
	RedirectURL string       `gorm:"column:redirect_url"`
	Consumed    bool         `gorm:"column:consumed;index"`
	OrderID     *string      `gorm:"column:order_id;size:36"`
	CreatedAt   time.Time    `gorm:"column:created_at;index"`
	UpdatedAt   time.Time    `gorm:"column:updated_at"`
}

type lineRecord struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	UnitPrice   int64  `json:"unitPrice"`
	Quantity    int32  `json:"quantity"`
}

func (sessionRecord) TableName() string { return "checkout_sessions" }

func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if session == nil {
		return errors.New("session is nil")
	}
	record := toRecord(session)
	return s.db.WithContext(ctx).Save(&record).Error
}

func (s *SessionStore) Get(ctx context.Context, ref uuid.UUID) (*domain.Session, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record sessionRecord
	if err := s.db.WithContext(ctx).First(&record, "ref = ?", ref.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrSessionNotFound
		}
		return nil, err
	}
	return record.toDomain()
}

// Consume flips consumed=false→true and binds the order id in one statement.
// A lost race reports the winner's order id read back from the row.
func (s *SessionStore) Consume(ctx context.Context, ref uuid.UUID, orderID uuid.UUID) (uuid.UUID, error) {
	if err := s.ensureDB(); err != nil {
		return uuid.Nil, err
	}
	orderIDStr := orderID.String()
	result := s.db.WithContext(ctx).Model(&sessionRecord{}).
		Where("ref = ? AND consumed = ?", ref.String(), false).
		Updates(map[string]any{
			"consumed":   true,
			"order_id":   orderIDStr,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return uuid.Nil, result.Error
	}
	if result.RowsAffected == 0 {
		var record sessionRecord
		if err := s.db.WithContext(ctx).First(&record, "ref = ?", ref.String()).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return uuid.Nil, ports.ErrSessionNotFound
			}
			return uuid.Nil, err
		}
		winner := uuid.Nil
		if record.OrderID != nil {
			if parsed, err := uuid.Parse(*record.OrderID); err == nil {
				winner = parsed
			}
		}
		return winner, ports.ErrConsumeRaceLost
	}
	return orderID, nil
}

func (s *SessionStore) PurgeStale(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	result := s.db.WithContext(ctx).
		Where("consumed = ? AND created_at < ?", false, cutoff).
		Delete(&sessionRecord{})
	return result.RowsAffected, result.Error
}

func (s *SessionStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres session store not configured")
	}
	return nil
}

func toRecord(session *domain.Session) sessionRecord {
	lines := make([]lineRecord, 0, len(session.Lines))
	for _, line := range session.Lines {
		lines = append(lines, lineRecord{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
		})
	}
	record := sessionRecord{
		Ref:         session.Ref.String(),
		BuyerID:     session.BuyerID,
		Lines:       lines,
		TotalPrice:  session.TotalPrice,
		AddrLine1:   session.ShippingAddress.Line1,
		AddrCity:    session.ShippingAddress.City,
		AddrPostal:  session.ShippingAddress.PostalCode,
		AddrCountry: session.ShippingAddress.Country,
		GatewayRef:  session.GatewayRef,
		RedirectURL: session.RedirectURL,
		Consumed:    session.Consumed,
		CreatedAt:   session.CreatedAt,
	}
	if session.OrderID != nil {
		orderID := session.OrderID.String()
		record.OrderID = &orderID
	}
	return record
}

func (r sessionRecord) toDomain() (*domain.Session, error) {
	ref, err := uuid.Parse(r.Ref)
	if err != nil {
		return nil, err
	}
	lines := make([]ordersdomain.OrderLine, 0, len(r.Lines))
	for _, line := range r.Lines {
		lines = append(lines, ordersdomain.OrderLine{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
		})
	}
	session := &domain.Session{
		Ref:        ref,
		BuyerID:    r.BuyerID,
		Lines:      lines,
		TotalPrice: r.TotalPrice,
		ShippingAddress: ordersdomain.Address{
			Line1:      r.AddrLine1,
			City:       r.AddrCity,
			PostalCode: r.AddrPostal,
			Country:    r.AddrCountry,
		},
		GatewayRef:  r.GatewayRef,
		RedirectURL: r.RedirectURL,
		Consumed:    r.Consumed,
		CreatedAt:   r.CreatedAt,
	}
	if r.OrderID != nil {
		orderID, err := uuid.Parse(*r.OrderID)
		if err != nil {
			return nil, err
		}
		session.OrderID = &orderID
	}
	return session, nil
}
