package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrikart/fulfillment/internal/domains/fraud/ports"
)

var _ ports.LogRepository = (*LogRepository)(nil)

// LogRepository persists fraud audit records in PostgreSQL. Rows are only
// ever inserted; there is no update or delete path in the core.
type LogRepository struct {
	db *gorm.DB
}

// NewLogRepository wires a PostgreSQL-backed fraud log.
func NewLogRepository(db *gorm.DB) *LogRepository {
	repo := &LogRepository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&fraudLogRecord{})
	}
	return repo
}

type fraudLogRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:36"`
	BuyerID   string    `gorm:"column:buyer_id;size:64;index"`
	OrderID   string    `gorm:"column:order_id;size:36;index"`
	Amount    int64     `gorm:"column:amount"`
	Reason    string    `gorm:"column:reason"`
	Details   string    `gorm:"column:details;type:jsonb"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (fraudLogRecord) TableName() string { return "fraud_logs" }

func (r *LogRepository) Append(ctx context.Context, entry ports.LogEntry) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	record := fraudLogRecord{
		ID:        entry.ID.String(),
		BuyerID:   entry.BuyerID,
		OrderID:   entry.OrderID.String(),
		Amount:    entry.Amount,
		Reason:    entry.Reason,
		Details:   entry.Details,
		CreatedAt: entry.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *LogRepository) ListByBuyer(ctx context.Context, buyerID string) ([]ports.LogEntry, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []fraudLogRecord
	if err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	entries := make([]ports.LogEntry, 0, len(records))
	for _, record := range records {
		id, err := uuid.Parse(record.ID)
		if err != nil {
			return nil, err
		}
		orderID, err := uuid.Parse(record.OrderID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ports.LogEntry{
			ID:        id,
			BuyerID:   record.BuyerID,
			OrderID:   orderID,
			Amount:    record.Amount,
			Reason:    record.Reason,
			Details:   record.Details,
			CreatedAt: record.CreatedAt,
		})
	}
	return entries, nil
}

func (r *LogRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres fraud log not configured")
	}
	return nil
}
