package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/money"
)

// Required CSV columns for each import kind. Optional columns:
// Description (transactions), InitialBalance (accounts).
var (
	requiredTransactionHeaders = []string{"Date", "Amount", "Type", "Category", "Account"}
	requiredAccountHeaders     = []string{"Name", "Type", "Currency"}
)

// importDateLayout is the only accepted date format for import files.
const importDateLayout = time.DateOnly // YYYY-MM-DD

// ImportRowError holds the failures collected for one CSV row. Row is the
// 1-based file line including the header (the first data row is 2), or the
// string "Database" when the batch insert itself failed.
type ImportRowError struct {
	Row    any      `json:"row"`
	Errors []string `json:"errors"`
}

// ImportResult summarizes one import batch.
type ImportResult struct {
	Imported int              `json:"imported"`
	Failed   int              `json:"failed"`
	Errors   []ImportRowError `json:"errors"`
}

// importService implements CSV batch imports. Validation failures are
// collected per row and never stop the batch; the persistence step is
// all-or-nothing.
type importService struct {
	db *gorm.DB
}

// NewImportService creates a new ImportServicer.
func NewImportService(db *gorm.DB) ImportServicer {
	return &importService{db: db}
}

// csvRow is one parsed data row with trimmed values keyed by trimmed header.
type csvRow map[string]string

// parseCSV decodes the file into a header list and per-row value maps.
// All header names and cell values are whitespace-trimmed. Rows shorter
// than the header are padded with empty strings.
func parseCSV(data []byte) ([]string, []csvRow, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]csvRow, 0, len(records)-1)
	for _, record := range records[1:] {
		empty := true
		row := make(csvRow, len(headers))
		for i, header := range headers {
			value := ""
			if i < len(record) {
				value = strings.TrimSpace(record[i])
			}
			if value != "" {
				empty = false
			}
			row[header] = value
		}
		if !empty {
			rows = append(rows, row)
		}
	}

	return headers, rows, nil
}

// missingHeaders returns the required headers absent from the file.
func missingHeaders(headers, required []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	var missing []string
	for _, h := range required {
		if !present[h] {
			missing = append(missing, h)
		}
	}
	return missing
}

// ImportTransactions imports a transaction CSV for the user. Headers:
// Date, Amount, Type, Category, Account, optional Description.
func (s *importService) ImportTransactions(userID string, data []byte) (*ImportResult, error) {
	headers, rows, err := parseCSV(data)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedCSV, err)
	}

	if missing := missingHeaders(headers, requiredTransactionHeaders); len(missing) > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrMissingColumns,
			fmt.Sprintf("Missing required columns in CSV: %s. Required: %s",
				strings.Join(missing, ", "), strings.Join(requiredTransactionHeaders, ", ")))
	}

	// Name resolution works off two in-memory tables loaded once per batch
	// instead of a round trip per row.
	accountsByName, err := s.loadAccountsByName(userID)
	if err != nil {
		return nil, err
	}
	categoriesByKey, err := s.loadCategoriesByKey(userID)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: []ImportRowError{}}
	var batch []models.Transaction

	for i, row := range rows {
		rowNum := i + 2 // 1-based data index plus the header row

		dateStr := row["Date"]
		amountStr := row["Amount"]
		typeStr := row["Type"]
		categoryName := row["Category"]
		accountName := row["Account"]
		description := row["Description"]

		var rowErrors []string
		if dateStr == "" {
			rowErrors = append(rowErrors, "Missing 'Date'")
		}
		if amountStr == "" {
			rowErrors = append(rowErrors, "Missing 'Amount'")
		}
		if typeStr == "" {
			rowErrors = append(rowErrors, "Missing 'Type'")
		}
		if categoryName == "" {
			rowErrors = append(rowErrors, "Missing 'Category'")
		}
		if accountName == "" {
			rowErrors = append(rowErrors, "Missing 'Account'")
		}
		if len(rowErrors) > 0 {
			result.Failed++
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Errors: rowErrors})
			continue
		}

		date, dateErr := time.Parse(importDateLayout, dateStr)
		if dateErr != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("Invalid Date: %q (must be YYYY-MM-DD)", dateStr))
		}

		amount, amountErr := money.ParsePositive(amountStr)
		if amountErr != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("Invalid Amount: %q (must be positive number)", amountStr))
		}

		transactionType := models.TransactionType(strings.ToLower(typeStr))
		if transactionType != models.TransactionTypeIncome && transactionType != models.TransactionTypeExpense {
			rowErrors = append(rowErrors, fmt.Sprintf("Invalid Type: %q (must be 'income' or 'expense')", typeStr))
		}

		if len(rowErrors) > 0 {
			result.Failed++
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Errors: rowErrors})
			continue
		}

		account, accountFound := accountsByName[strings.ToLower(accountName)]
		if !accountFound {
			rowErrors = append(rowErrors, fmt.Sprintf("Account not found or not owned: %q", accountName))
		}

		category, categoryFound := categoriesByKey[categoryKey{
			name:         strings.ToLower(categoryName),
			categoryType: models.CategoryType(transactionType),
		}]
		if !categoryFound {
			rowErrors = append(rowErrors, fmt.Sprintf("Category not found for type '%s': %q", transactionType, categoryName))
		}

		if len(rowErrors) > 0 {
			result.Failed++
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Errors: rowErrors})
			continue
		}

		batch = append(batch, models.Transaction{
			UserID:      userID,
			AccountID:   account,
			CategoryID:  category,
			Type:        transactionType,
			Amount:      amount,
			Date:        date,
			Description: description,
		})
	}

	if len(batch) > 0 {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&batch).Error
		})
		if err != nil {
			logger.Get().Errorw("transaction import batch insert failed",
				"user_id", userID, "rows", len(batch), "error", err.Error())
			// All-or-nothing: the whole file is reported failed with a
			// single database-level error replacing the per-row details.
			result.Imported = 0
			result.Failed = len(rows)
			result.Errors = []ImportRowError{{
				Row:    "Database",
				Errors: []string{"Transaction failed during database insert. No rows were imported."},
			}}
			return result, nil
		}
		result.Imported = len(batch)
	}

	return result, nil
}

// ImportAccounts imports an account CSV for the user. Headers:
// Name, Type, Currency, optional InitialBalance (blank means 0).
func (s *importService) ImportAccounts(userID string, data []byte) (*ImportResult, error) {
	headers, rows, err := parseCSV(data)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedCSV, err)
	}

	if missing := missingHeaders(headers, requiredAccountHeaders); len(missing) > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrMissingColumns,
			fmt.Sprintf("Missing required columns in CSV: %s. Required: %s",
				strings.Join(missing, ", "), strings.Join(requiredAccountHeaders, ", ")))
	}

	existingNames, err := s.loadAccountsByName(userID)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: []ImportRowError{}}
	var batch []models.Account
	namesInFile := make(map[string]bool)

	for i, row := range rows {
		rowNum := i + 2

		name := row["Name"]
		typeStr := row["Type"]
		currency := row["Currency"]
		balanceStr := row["InitialBalance"]

		var rowErrors []string
		if name == "" {
			rowErrors = append(rowErrors, "Missing 'Name'")
		}
		if typeStr == "" {
			rowErrors = append(rowErrors, "Missing 'Type'")
		}
		if currency == "" {
			rowErrors = append(rowErrors, "Missing 'Currency'")
		}
		if len(rowErrors) > 0 {
			result.Failed++
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Errors: rowErrors})
			continue
		}

		accountType := models.AccountType(strings.ToLower(typeStr))
		if !isValidAccountType(accountType) {
			rowErrors = append(rowErrors, fmt.Sprintf(
				"Invalid Type: %q (Allowed: checking, savings, credit_card, cash, investment, other)", typeStr))
		}

		// Blank balance defaults to 0; anything else must parse.
		var initialBalance int64
		if balanceStr != "" {
			var balanceErr error
			initialBalance, balanceErr = money.Parse(balanceStr)
			if balanceErr != nil {
				rowErrors = append(rowErrors, fmt.Sprintf(
					"Invalid InitialBalance: %q (must be a number or blank)", balanceStr))
			}
		}

		// A name collides with earlier rows in this file and with accounts
		// already persisted for the user; both checks run so a row can
		// report both errors.
		lowerName := strings.ToLower(name)
		if namesInFile[lowerName] {
			rowErrors = append(rowErrors, fmt.Sprintf("Duplicate Account Name in CSV: %q", name))
		} else {
			namesInFile[lowerName] = true
		}
		if _, exists := existingNames[lowerName]; exists {
			rowErrors = append(rowErrors, fmt.Sprintf("Account Name already exists in database: %q", name))
		}

		if len(rowErrors) > 0 {
			result.Failed++
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Errors: rowErrors})
			continue
		}

		batch = append(batch, models.Account{
			UserID:         userID,
			Name:           name,
			Type:           accountType,
			Currency:       strings.ToUpper(currency),
			InitialBalance: initialBalance,
		})
	}

	if len(batch) > 0 {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&batch).Error
		})
		if err != nil {
			logger.Get().Errorw("account import batch insert failed",
				"user_id", userID, "rows", len(batch), "error", err.Error())
			result.Imported = 0
			result.Failed += len(batch)
			result.Errors = append(result.Errors, ImportRowError{
				Row:    "Database",
				Errors: []string{"Transaction failed during database insert. No accounts were imported."},
			})
			return result, nil
		}
		result.Imported = len(batch)
	}

	return result, nil
}

// loadAccountsByName maps the user's lowercased account names to IDs.
func (s *importService) loadAccountsByName(userID string) (map[string]string, error) {
	var accounts []models.Account
	if err := s.db.Select("id, name").Where("user_id = ?", userID).Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	byName := make(map[string]string, len(accounts))
	for _, a := range accounts {
		byName[strings.ToLower(a.Name)] = a.ID
	}
	return byName, nil
}

type categoryKey struct {
	name         string
	categoryType models.CategoryType
}

// loadCategoriesByKey maps (lowercased name, type) to category IDs visible
// to the user. Defaults are inserted first so that a user-owned category
// with the same name and type wins the entry.
func (s *importService) loadCategoriesByKey(userID string) (map[categoryKey]string, error) {
	var categories []models.Category
	if err := s.db.Select("id, user_id, name, type, is_default").
		Where("is_default = ? OR user_id = ?", true, userID).
		Order("is_default DESC").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byKey := make(map[categoryKey]string, len(categories))
	for _, c := range categories {
		key := categoryKey{name: strings.ToLower(c.Name), categoryType: c.Type}
		if _, seen := byKey[key]; seen && c.IsDefault {
			continue
		}
		byKey[key] = c.ID
	}
	return byKey, nil
}

func isValidAccountType(t models.AccountType) bool {
	switch t {
	case models.AccountTypeChecking, models.AccountTypeSavings, models.AccountTypeCreditCard,
		models.AccountTypeCash, models.AccountTypeInvestment, models.AccountTypeOther:
		return true
	}
	return false
}
