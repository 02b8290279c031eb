package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&orderRecord{},
		&sessionRecord{},
		&otpRecord{},
		&fraudLogRecord{},
	)
}

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID          string         `gorm:"primaryKey;column:id;size:36"`
	BuyerID     string         `gorm:"column:buyer_id;size:64;index"`
	Lines       string         `gorm:"column:lines;type:jsonb"`
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

func (orderRecord) TableName() string { return "orders" }

// Checkout session schema mirrors the checkout Postgres adapter.
type sessionRecord struct {
	Ref         string    `gorm:"primaryKey;column:ref;size:36"`
	BuyerID     string    `gorm:"column:buyer_id;size:64;index"`
	Lines       string    `gorm:"column:lines;type:jsonb"`
	TotalPrice  int64     `gorm:"column:total_price"`
	AddrLine1   string    `gorm:"column:addr_line1"`
	AddrCity    string    `gorm:"column:addr_city"`
	AddrPostal  string    `gorm:"column:addr_postal;size:16"`
	AddrCountry string    `gorm:"column:addr_country;size:2"`
	GatewayRef  string    `gorm:"column:gateway_ref;size:128"`
	RedirectURL string    `gorm:"column:redirect_url"`
	Consumed    bool      `gorm:"column:consumed;index"`
	OrderID     *string   `gorm:"column:order_id;size:36"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (sessionRecord) TableName() string { return "checkout_sessions" }

// Delivery code schema mirrors the delivery Postgres adapter. One row per
// order, keyed on the order id.
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

// Fraud log schema mirrors the fraud Postgres adapter. Append-only.
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
