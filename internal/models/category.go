package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category represents a transaction category. A category is either a
// system-wide default (UserID is nil, IsDefault true, immutable) or owned
// by exactly one user. (user, name, type) is unique.
type Category struct {
	Base
	UserID    *string      `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Name      string       `gorm:"not null" json:"name"`
	Type      CategoryType `gorm:"not null" json:"type"`
	Icon      string       `json:"icon"`
	IsDefault bool         `gorm:"not null;default:false" json:"is_default"`

	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
}
