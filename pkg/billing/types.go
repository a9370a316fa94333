package billing

import (
	"context"
	"time"

	"github.com/example/retailshop/pkg/cart"
	"github.com/example/retailshop/pkg/models"
	"github.com/example/retailshop/pkg/repository"
	"github.com/shopspring/decimal"
)

type CartView struct {
	Lines []cart.Line     `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

type OrderSummary struct {
	OrderID   string          `json:"order_id"`
	UserID    string          `json:"user_id"`
	Status    string          `json:"status"`
	Lines     []cart.Line     `json:"lines"`
	CartValue decimal.Decimal `json:"cart_value"`
	Discount  decimal.Decimal `json:"discount"`
	SubTotal  decimal.Decimal `json:"sub_total"`
	CreatedAt time.Time       `json:"created_at"`
}

type Bill struct {
	BillID    string          `json:"bill_id"`
	OrderID   string          `json:"order_id"`
	UserID    string          `json:"user_id"`
	Lines     []cart.Line     `json:"lines"`
	CartValue decimal.Decimal `json:"cart_value"`
	Discount  decimal.Decimal `json:"discount"`
	SubTotal  decimal.Decimal `json:"sub_total"`
	CreatedAt time.Time       `json:"created_at"`
}

// Cache holds order summaries for re-display before checkout.
type Cache interface {
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
	Del(ctx context.Context, keys ...string) error
}

type AuditLog interface {
	Record(ctx context.Context, entry *repository.AuditEntry) error
}

type Publisher interface {
	Publish(ctx context.Context, routingKey string, msg any) error
}

func linesOf(order *models.Order) []cart.Line {
	lines := make([]cart.Line, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, cart.Line{ProductID: l.ProductID, Name: l.Name, Price: l.Price})
	}
	return lines
}

func summaryOf(order *models.Order) *OrderSummary {
	return &OrderSummary{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Status:    order.Status,
		Lines:     linesOf(order),
		CartValue: order.CartValue,
		Discount:  order.Discount,
		SubTotal:  order.SubTotal,
		CreatedAt: order.CreatedAt,
	}
}
