package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username     string    `gorm:"type:varchar(100);not null" json:"username"`
	UsernameKey  string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"-"`
	PasswordHash string    `gorm:"type:varchar(100);not null" json:"-"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.UsernameKey = NameKey(u.Username)
	return nil
}

// NameKey is the lookup form of a user, category or product name.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
