package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a financial transaction in the system.
// Amount is always positive, in cents; the sign is implied by Type.
// The referenced category's type must equal Type, enforced at entry.
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	AccountID   string          `gorm:"type:uuid;not null;index" json:"account_id"`
	CategoryID  string          `gorm:"type:uuid;not null;index" json:"category_id"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Date        time.Time       `gorm:"not null" json:"date"`
	Description string          `json:"description"`

	Account  Account  `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
