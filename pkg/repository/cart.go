package repository

import (
	"context"

	"github.com/example/retailshop/pkg/apperr"
	"github.com/example/retailshop/pkg/models"
	"gorm.io/gorm/clause"
)

func (s *Store) HasCartItem(ctx context.Context, userID, productID string) (bool, error) {
	var count int64
	err := s.conn(ctx).Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, apperr.Persistence(err, "failed to check cart")
	}
	return count > 0, nil
}

// CreateCartItem inserts the item. It reports false when the same product was
// already in the user's cart.
func (s *Store) CreateCartItem(ctx context.Context, item *models.CartItem) (bool, error) {
	res := s.conn(ctx).Omit("Product").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(item)
	if res.Error != nil {
		if isDuplicate(res.Error) {
			return false, nil
		}
		return false, apperr.Persistence(res.Error, "failed to add cart item")
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) DeleteCartItem(ctx context.Context, userID, productID string) (int64, error) {
	res := s.conn(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return 0, apperr.Persistence(res.Error, "failed to remove cart item")
	}
	return res.RowsAffected, nil
}

// ListCartItems returns the user's items with their products, oldest first.
func (s *Store) ListCartItems(ctx context.Context, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := s.conn(ctx).Preload("Product").
		Where("user_id = ?", userID).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, apperr.Persistence(err, "failed to list cart")
	}
	return items, nil
}

func (s *Store) ClearCart(ctx context.Context, userID string) error {
	err := s.conn(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	return apperr.Persistence(err, "failed to clear cart")
}
