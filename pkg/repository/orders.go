package repository

import (
	"context"
	"time"

	"github.com/example/retailshop/pkg/apperr"
	"github.com/example/retailshop/pkg/models"
	"gorm.io/gorm"
)

// CreateOrder inserts the order together with its lines.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	err := s.conn(ctx).Create(order).Error
	return apperr.Persistence(err, "failed to create order")
}

func (s *Store) FindOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.conn(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if isNotFound(err) {
			return nil, apperr.NotFound("order %s not found", id)
		}
		return nil, apperr.Persistence(err, "failed to get order")
	}
	return &order, nil
}

// ConfirmOrder moves the user's order from InProgress to Confirmed. It returns
// the number of rows changed, which is 0 when the order was not InProgress.
func (s *Store) ConfirmOrder(ctx context.Context, orderID, userID string, at time.Time) (int64, error) {
	res := s.conn(ctx).Model(&models.Order{}).
		Where("id = ? AND user_id = ? AND status = ?", orderID, userID, models.OrderStatusInProgress).
		Updates(map[string]interface{}{
			"status":       models.OrderStatusConfirmed,
			"finalized_at": at,
		})
	if res.Error != nil {
		return 0, apperr.Persistence(res.Error, "failed to confirm order")
	}
	return res.RowsAffected, nil
}

func (s *Store) CreateBill(ctx context.Context, bill *models.Bill) error {
	if err := s.conn(ctx).Create(bill).Error; err != nil {
		if isDuplicate(err) {
			return apperr.InvalidState("order %s is already billed", bill.OrderID)
		}
		return apperr.Persistence(err, "failed to create bill")
	}
	return nil
}

func (s *Store) FindBillByOrder(ctx context.Context, orderID string) (*models.Bill, error) {
	var bill models.Bill
	if err := s.conn(ctx).Where("order_id = ?", orderID).First(&bill).Error; err != nil {
		if isNotFound(err) {
			return nil, apperr.NotFound("bill for order %s not found", orderID)
		}
		return nil, apperr.Persistence(err, "failed to get bill")
	}
	return &bill, nil
}
