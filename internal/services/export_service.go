package services

import (
	"bytes"
	"encoding/csv"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/money"
)

// exportService renders a user's data as CSV downloads.
type exportService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewExportService creates a new ExportServicer.
func NewExportService(db *gorm.DB, accountService AccountServicer) ExportServicer {
	return &exportService{db: db, accountService: accountService}
}

// ExportTransactions renders all of the user's transactions as CSV,
// newest first, with category and account names joined in.
func (s *exportService) ExportTransactions(userID string) ([]byte, error) {
	var transactions []models.Transaction
	if err := s.db.Preload("Account").Preload("Category").
		Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if len(transactions) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrNothingToExport, "No transactions found to export")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Transaction ID", "Date", "Type", "Amount", "Currency", "Category", "Account", "Description", "Created At", "Updated At"}
	if err := w.Write(header); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for _, tx := range transactions {
		record := []string{
			tx.ID,
			tx.Date.Format(time.DateOnly),
			string(tx.Type),
			money.Format(tx.Amount),
			tx.Account.Currency,
			tx.Category.Name,
			tx.Account.Name,
			tx.Description,
			tx.CreatedAt.Format(time.RFC3339),
			tx.UpdatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return buf.Bytes(), nil
}

// ExportAccounts renders all of the user's accounts as CSV, including the
// derived current balance.
func (s *exportService) ExportAccounts(userID string) ([]byte, error) {
	accounts, err := s.accountService.GetAllUserAccounts(userID)
	if err != nil {
		return nil, err
	}

	if len(accounts) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrNothingToExport, "No accounts found to export")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Account ID", "Name", "Type", "Currency", "Initial Balance", "Current Balance", "Created At", "Updated At"}
	if err := w.Write(header); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for _, account := range accounts {
		record := []string{
			account.ID,
			account.Name,
			string(account.Type),
			account.Currency,
			money.Format(account.InitialBalance),
			money.Format(account.CurrentBalance),
			account.CreatedAt.Format(time.RFC3339),
			account.UpdatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return buf.Bytes(), nil
}
