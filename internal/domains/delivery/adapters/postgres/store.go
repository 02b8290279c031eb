package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/agrikart/fulfillment/internal/domains/delivery/domain"
	"github.com/agrikart/fulfillment/internal/domains/delivery/ports"
)

var _ ports.OtpStore = (*Store)(nil)

// Store persists delivery codes in PostgreSQL. The order id is the primary
// key, which enforces one active code per order.
type Store struct {
	db *gorm.DB
}

// NewStore wires a PostgreSQL-backed OTP store.
func NewStore(db *gorm.DB) *Store {
	store := &Store{db: db}
	if db != nil {
		_ = db.AutoMigrate(&otpRecord{})
	}
	return store
}

type otpRecord struct {
	OrderID           string    `gorm:"primaryKey;column:order_id;size:36"`
	CodeHash          string    `gorm:"column:code_hash;size:64"`
	ExpiresAt         time.Time `gorm:"column:expires_at;index"`
	AttemptsRemaining int       `gorm:"column:attempts_remaining"`
	Consumed          bool      `gorm:"column:consumed"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (otpRecord) TableName() string { return "delivery_otps" }

func (s *Store) Replace(ctx context.Context, otp *domain.Otp) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if otp == nil {
		return errors.New("otp is nil")
	}
	record := toRecord(otp)
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "order_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"code_hash":          record.CodeHash,
				"expires_at":         record.ExpiresAt,
				"attempts_remaining": record.AttemptsRemaining,
				"consumed":           record.Consumed,
				"created_at":         record.CreatedAt,
				"updated_at":         gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error
}

func (s *Store) Get(ctx context.Context, orderID uuid.UUID) (*domain.Otp, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record otpRecord
	if err := s.db.WithContext(ctx).First(&record, "order_id = ?", orderID.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrOtpNotFound
		}
		return nil, err
	}
	return record.toDomain()
}

func (s *Store) Update(ctx context.Context, otp *domain.Otp) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if otp == nil {
		return errors.New("otp is nil")
	}
	record := toRecord(otp)
	result := s.db.WithContext(ctx).Model(&otpRecord{}).
		Where("order_id = ?", record.OrderID).
		Updates(map[string]any{
			"attempts_remaining": record.AttemptsRemaining,
			"consumed":           record.Consumed,
			"updated_at":         gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrOtpNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, orderID uuid.UUID) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&otpRecord{}, "order_id = ?", orderID.String()).Error
}

func (s *Store) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	result := s.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&otpRecord{})
	return result.RowsAffected, result.Error
}

func (s *Store) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres otp store not configured")
	}
	return nil
}

func toRecord(otp *domain.Otp) otpRecord {
	return otpRecord{
		OrderID:           otp.OrderID.String(),
		CodeHash:          otp.CodeHash,
		ExpiresAt:         otp.ExpiresAt,
		AttemptsRemaining: otp.AttemptsRemaining,
		Consumed:          otp.Consumed,
		CreatedAt:         otp.CreatedAt,
	}
}

func (r otpRecord) toDomain() (*domain.Otp, error) {
	orderID, err := uuid.Parse(r.OrderID)
	if err != nil {
		return nil, err
	}
	return &domain.Otp{
		OrderID:           orderID,
		CodeHash:          r.CodeHash,
		ExpiresAt:         r.ExpiresAt,
		AttemptsRemaining: r.AttemptsRemaining,
		Consumed:          r.Consumed,
		CreatedAt:         r.CreatedAt,
	}, nil
}
