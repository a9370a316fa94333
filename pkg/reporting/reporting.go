package reporting

import (
	"context"
	"time"

	"github.com/example/retailshop/pkg/repository"
	"github.com/shopspring/decimal"
)

type CartEntry struct {
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
}

// UserCart is the current cart of one user.
type UserCart struct {
	UserID   string          `json:"user_id"`
	Username string          `json:"username"`
	Items    []CartEntry     `json:"items"`
	Total    decimal.Decimal `json:"total"`
}

type BillEntry struct {
	BillID      string          `json:"bill_id"`
	OrderID     string          `json:"order_id"`
	Username    string          `json:"username"`
	Status      string          `json:"status"`
	CartValue   decimal.Decimal `json:"cart_value"`
	Discount    decimal.Decimal `json:"discount"`
	SubTotal    decimal.Decimal `json:"sub_total"`
	FinalizedAt *time.Time      `json:"finalized_at"`
}

// Service answers the admin reports. It only reads.
type Service struct {
	store *repository.Store
}

func NewService(store *repository.Store) *Service {
	return &Service{store: store}
}

// Carts groups every non-empty cart by user, ordered by username.
func (s *Service) Carts(ctx context.Context) ([]UserCart, error) {
	rows, err := s.store.CartRows(ctx)
	if err != nil {
		return nil, err
	}

	carts := make([]UserCart, 0)
	for _, row := range rows {
		if n := len(carts); n == 0 || carts[n-1].UserID != row.UserID {
			carts = append(carts, UserCart{UserID: row.UserID, Username: row.Username, Total: decimal.Zero})
		}
		c := &carts[len(carts)-1]
		c.Items = append(c.Items, CartEntry{ProductName: row.ProductName, Price: row.Price})
		c.Total = c.Total.Add(row.Price)
	}
	return carts, nil
}

func (s *Service) Bills(ctx context.Context) ([]BillEntry, error) {
	rows, err := s.store.BillRows(ctx)
	if err != nil {
		return nil, err
	}

	bills := make([]BillEntry, 0, len(rows))
	for _, row := range rows {
		bills = append(bills, BillEntry(row))
	}
	return bills, nil
}
