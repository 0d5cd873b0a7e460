package models

import "time"

// User represents the user model in the database
type User struct {
	Base
	Email             string     `gorm:"uniqueIndex;not null" json:"email"`
	Password          string     `gorm:"not null" json:"-"`
	Name              string     `json:"name"`
	PreferredCurrency string     `gorm:"size:3;not null;default:'USD'" json:"preferred_currency"`
	RefreshTokenHash  string     `gorm:"size:64" json:"-"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`

	Accounts     []Account     `gorm:"foreignKey:UserID" json:"accounts,omitempty"`
	Categories   []Category    `gorm:"foreignKey:UserID" json:"categories,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
}
