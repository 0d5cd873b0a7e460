package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db              *gorm.DB
	accountService  AccountServicer
	categoryService CategoryServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService AccountServicer, categoryService CategoryServicer) TransactionServicer {
	return &transactionService{
		db:              db,
		accountService:  accountService,
		categoryService: categoryService,
	}
}

// CreateTransaction creates a new transaction against a user's account.
// The category must be visible to the user and of the same type as the
// transaction.
func (s *transactionService) CreateTransaction(
	userID, accountID, categoryID string,
	transactionType models.TransactionType,
	amount int64,
	date time.Time,
	description string,
) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	if date.IsZero() {
		date = time.Now()
	}

	// Ownership checks: the account must belong to the user and the
	// category must be visible to them.
	account, err := s.accountService.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	category, err := s.categoryService.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}
	if category.Type != models.CategoryType(transactionType) {
		return nil, apperrors.ErrCategoryTypeMismatch
	}

	transaction := &models.Transaction{
		UserID:      userID,
		AccountID:   account.ID,
		CategoryID:  category.ID,
		Type:        transactionType,
		Amount:      amount,
		Date:        date,
		Description: description,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's
// transactions, newest first.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC, created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.AccountID != nil {
		q = q.Where("account_id = ?", *f.AccountID)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Search != nil && *f.Search != "" {
		q = q.Where("LOWER(description) LIKE ?", "%"+strings.ToLower(*f.Search)+"%")
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction applies the non-nil fields to an existing transaction.
// Moving the transaction to another account or category re-runs the
// ownership and type-match checks.
func (s *transactionService) UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if fields.Amount != nil {
		if *fields.Amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		updates["amount"] = *fields.Amount
	}
	if fields.Date != nil {
		updates["date"] = *fields.Date
	}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}

	if fields.AccountID != nil {
		account, err := s.accountService.GetAccountByID(userID, *fields.AccountID)
		if err != nil {
			return nil, err
		}
		updates["account_id"] = account.ID
	}

	// The category/type pair is checked against the final state of the row.
	transactionType := transaction.Type
	if fields.Type != nil {
		transactionType = *fields.Type
		updates["type"] = *fields.Type
	}
	categoryID := transaction.CategoryID
	if fields.CategoryID != nil {
		categoryID = *fields.CategoryID
		updates["category_id"] = *fields.CategoryID
	}
	if fields.Type != nil || fields.CategoryID != nil {
		category, err := s.categoryService.GetCategoryByID(userID, categoryID)
		if err != nil {
			return nil, err
		}
		if category.Type != models.CategoryType(transactionType) {
			return nil, apperrors.ErrCategoryTypeMismatch
		}
	}

	if len(updates) > 0 {
		if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", transaction.ID).First(transaction).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return transaction, nil
}

// DeleteTransaction deletes a transaction by ID.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
