package models

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCreditCard AccountType = "credit_card"
	AccountTypeCash       AccountType = "cash"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeOther      AccountType = "other"
)

// Account represents a financial account in the system.
// InitialBalance is the balance the account was opened with, in cents.
// CurrentBalance is never stored; it is derived from the initial balance
// and the account's transactions on every read.
type Account struct {
	Base
	UserID         string      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name           string      `gorm:"not null" json:"name"`
	Type           AccountType `gorm:"not null" json:"type"`
	Currency       string      `gorm:"size:3;not null;default:'USD'" json:"currency"`
	InitialBalance int64       `gorm:"not null;default:0" json:"initial_balance"`

	CurrentBalance int64 `gorm:"-" json:"current_balance"`

	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}
