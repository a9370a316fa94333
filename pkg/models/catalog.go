package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Category struct {
	ID       string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name     string    `gorm:"type:varchar(100);not null" json:"name"`
	NameKey  string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"-"`
	Products []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.NameKey = NameKey(c.Name)
	return nil
}

type Product struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	NameKey     string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"-"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	CategoryID  string          `gorm:"type:varchar(36);not null;index" json:"category_id"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.NameKey = NameKey(p.Name)
	return nil
}
