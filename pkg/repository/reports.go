package repository

import (
	"context"
	"time"

	"github.com/example/retailshop/pkg/apperr"
	"github.com/example/retailshop/pkg/models"
	"github.com/shopspring/decimal"
)

type CartRow struct {
	UserID      string
	Username    string
	ProductName string
	Price       decimal.Decimal
}

type BillRow struct {
	BillID      string
	OrderID     string
	Username    string
	Status      string
	CartValue   decimal.Decimal
	Discount    decimal.Decimal
	SubTotal    decimal.Decimal
	FinalizedAt *time.Time
}

// CartRows lists every cart entry with its owner, ordered by username and
// then by insertion.
func (s *Store) CartRows(ctx context.Context) ([]CartRow, error) {
	var rows []CartRow
	err := s.conn(ctx).Model(&models.CartItem{}).
		Select("users.id AS user_id, users.username AS username, products.name AS product_name, products.price AS price").
		Joins("JOIN users ON users.id = cart_items.user_id").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Order("users.username_key").
		Order("cart_items.id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Persistence(err, "failed to load cart report")
	}
	return rows, nil
}

// BillRows lists the bills of confirmed orders ordered by username and then
// by finalize time.
func (s *Store) BillRows(ctx context.Context) ([]BillRow, error) {
	var rows []BillRow
	err := s.conn(ctx).Model(&models.Bill{}).
		Select("bills.id AS bill_id, orders.id AS order_id, users.username AS username, orders.status AS status, "+
			"bills.cart_value AS cart_value, bills.discount AS discount, bills.sub_total AS sub_total, orders.finalized_at AS finalized_at").
		Joins("JOIN orders ON orders.id = bills.order_id").
		Joins("JOIN users ON users.id = orders.user_id").
		Where("orders.status = ?", models.OrderStatusConfirmed).
		Order("users.username_key").
		Order("orders.finalized_at").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Persistence(err, "failed to load bill report")
	}
	return rows, nil
}
