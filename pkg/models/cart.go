package models

import "time"

// CartItem marks one product as selected by one user. A product appears at
// most once per cart.
type CartItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"product"`
	CreatedAt time.Time `json:"created_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
