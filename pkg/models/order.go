package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderStatusInProgress = "InProgress"
	OrderStatusConfirmed  = "Confirmed"
)

// Order is created InProgress by a summarize and carries the figures computed
// at that time. Checkout moves it to Confirmed exactly once.
type Order struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID      string          `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Status      string          `gorm:"type:varchar(20);not null;index" json:"status"`
	CartValue   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"cart_value"`
	Discount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount"`
	SubTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"sub_total"`
	Lines       []OrderLine     `gorm:"foreignKey:OrderID" json:"lines"`
	CreatedAt   time.Time       `json:"created_at"`
	FinalizedAt *time.Time      `json:"finalized_at,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderLine is the snapshot of one cart entry taken at summarize time.
type OrderLine struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID   string          `gorm:"type:varchar(36);not null;index" json:"-"`
	Position  int             `gorm:"not null" json:"position"`
	ProductID string          `gorm:"type:varchar(36);not null" json:"product_id"`
	Name      string          `gorm:"type:varchar(100);not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
}

func (OrderLine) TableName() string {
	return "order_lines"
}

type Bill struct {
	ID        string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderID   string          `gorm:"type:varchar(36);not null;uniqueIndex" json:"order_id"`
	CartValue decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"cart_value"`
	Discount  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount"`
	SubTotal  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"sub_total"`
	CreatedAt time.Time       `json:"created_at"`
}

func (Bill) TableName() string {
	return "bills"
}

func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// All lists every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{}, &Category{}, &Product{}, &CartItem{}, &Order{}, &OrderLine{}, &Bill{},
	}
}
