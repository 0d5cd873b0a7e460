package services

import (
	"time"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// ProfileUpdateFields holds optional profile fields. Nil fields are left
// untouched.
type ProfileUpdateFields struct {
	Name              *string
	PreferredCurrency *string
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name, preferredCurrency string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	UpdateProfile(userID string, fields ProfileUpdateFields) (*models.User, error)
	ChangePassword(userID, currentPassword, newPassword string) error
	ResetUserData(userID string) error
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// AccountUpdateFields holds optional account fields. Nil fields are left
// untouched.
type AccountUpdateFields struct {
	Name           *string
	Type           *models.AccountType
	Currency       *string
	InitialBalance *int64
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(userID, name string, accountType models.AccountType, currency string, initialBalance int64) (*models.Account, error)
	GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAllUserAccounts(userID string) ([]models.Account, error)
	GetAccountByID(userID, accountID string) (*models.Account, error)
	UpdateAccount(userID, accountID string, fields AccountUpdateFields) (*models.Account, error)
	DeleteAccount(userID, accountID string) error
}

// CategoryUpdateFields holds optional category fields. Nil fields are left
// untouched.
type CategoryUpdateFields struct {
	Name *string
	Type *models.CategoryType
	Icon *string
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name string, categoryType models.CategoryType, icon string) (*models.Category, error)
	GetVisibleCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID string, fields CategoryUpdateFields) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	AccountID  *string
	CategoryID *string
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	Search     *string
}

// TransactionUpdateFields holds optional transaction fields. Nil fields are
// left untouched.
type TransactionUpdateFields struct {
	AccountID   *string
	CategoryID  *string
	Type        *models.TransactionType
	Amount      *int64
	Date        *time.Time
	Description *string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID, accountID, categoryID string, transactionType models.TransactionType, amount int64, date time.Time, description string) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// ImportServicer defines the contract for CSV batch imports.
type ImportServicer interface {
	ImportTransactions(userID string, data []byte) (*ImportResult, error)
	ImportAccounts(userID string, data []byte) (*ImportResult, error)
}

// ExportServicer defines the contract for CSV exports.
type ExportServicer interface {
	ExportTransactions(userID string) ([]byte, error)
	ExportAccounts(userID string) ([]byte, error)
}
