package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// accountService handles account-related business logic.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateAccount creates a new account for a user. The initial balance is in
// cents and may be negative.
func (s *accountService) CreateAccount(userID, name string, accountType models.AccountType, currency string, initialBalance int64) (*models.Account, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}

	if currency == "" {
		currency = "USD" // Default currency
	}

	// Account names are unique per user, case-insensitively, so that CSV
	// import name matching is unambiguous.
	var count int64
	if err := s.db.Model(&models.Account{}).
		Where("user_id = ? AND LOWER(name) = ?", userID, strings.ToLower(name)).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateAccountName
	}

	account := &models.Account{
		UserID:         userID,
		Name:           name,
		Type:           accountType,
		Currency:       strings.ToUpper(currency),
		InitialBalance: initialBalance,
	}

	if err := s.db.Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	account.CurrentBalance = account.InitialBalance
	return account, nil
}

// GetUserAccounts retrieves a paginated list of accounts for a user, each
// with its derived current balance.
func (s *accountService) GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Account{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.Account
	if err := base.Scopes(pagination.Paginate(page)).Order("name ASC").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.enrichBalances(accounts); err != nil {
		return nil, err
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAllUserAccounts retrieves every account for a user with derived
// balances, without pagination. Used by the CSV exporter.
func (s *accountService) GetAllUserAccounts(userID string) ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.Where("user_id = ?", userID).Order("name ASC").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.enrichBalances(accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// GetAccountByID retrieves an account by ID for a specific user
func (s *accountService) GetAccountByID(userID, accountID string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	accounts := []models.Account{account}
	if err := s.enrichBalances(accounts); err != nil {
		return nil, err
	}
	account = accounts[0]

	return &account, nil
}

// UpdateAccount updates an existing account. Only non-nil fields are applied.
func (s *accountService) UpdateAccount(userID, accountID string, fields AccountUpdateFields) (*models.Account, error) {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if fields.Name != nil && *fields.Name != "" {
		if !strings.EqualFold(*fields.Name, account.Name) {
			var count int64
			if err := s.db.Model(&models.Account{}).
				Where("user_id = ? AND LOWER(name) = ? AND id <> ?", userID, strings.ToLower(*fields.Name), accountID).
				Count(&count).Error; err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if count > 0 {
				return nil, apperrors.ErrDuplicateAccountName
			}
		}
		updates["name"] = *fields.Name
	}
	if fields.Type != nil {
		updates["type"] = *fields.Type
	}
	if fields.Currency != nil && *fields.Currency != "" {
		updates["currency"] = strings.ToUpper(*fields.Currency)
	}
	if fields.InitialBalance != nil {
		updates["initial_balance"] = *fields.InitialBalance
	}

	if len(updates) > 0 {
		if err := s.db.Model(account).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		// Reload to get fresh data and a recomputed balance
		return s.GetAccountByID(userID, accountID)
	}

	return account, nil
}

// DeleteAccount deletes an account. Deletion is refused while the account
// owns any transaction.
func (s *accountService) DeleteAccount(userID, accountID string) error {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return err
	}

	var txCount int64
	if err := s.db.Model(&models.Transaction{}).Where("account_id = ?", accountID).Count(&txCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if txCount > 0 {
		return apperrors.ErrAccountHasTransactions
	}

	if err := s.db.Delete(account).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// enrichBalances computes current balances for the given accounts in one
// grouped query: initial_balance + income sum - expense sum per account.
// Accounts with no transactions keep their initial balance.
func (s *accountService) enrichBalances(accounts []models.Account) error {
	if len(accounts) == 0 {
		return nil
	}

	accountIDs := make([]string, 0, len(accounts))
	for i := range accounts {
		accountIDs = append(accountIDs, accounts[i].ID)
		accounts[i].CurrentBalance = accounts[i].InitialBalance
	}

	type sumRow struct {
		AccountID string
		Type      models.TransactionType
		Total     int64
	}
	var sums []sumRow
	if err := s.db.Model(&models.Transaction{}).
		Select("account_id, type, COALESCE(SUM(amount), 0) AS total").
		Where("account_id IN ?", accountIDs).
		Group("account_id, type").
		Scan(&sums).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	deltas := make(map[string]int64, len(accountIDs))
	for _, row := range sums {
		if row.Type == models.TransactionTypeIncome {
			deltas[row.AccountID] += row.Total
		} else {
			deltas[row.AccountID] -= row.Total
		}
	}

	for i := range accounts {
		accounts[i].CurrentBalance += deltas[accounts[i].ID]
	}

	return nil
}
