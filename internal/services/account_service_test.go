package services

import (
	"testing"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"
)

func TestCreateAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewAccountService(db)
	user := testutil.CreateTestUser(t, db)

	account, err := service.CreateAccount(user.ID, "Main Checking", models.AccountTypeChecking, "eur", 150000)
	testutil.AssertNoError(t, err)

	if account.ID == "" {
		t.Error("expected account ID to be generated")
	}
	if account.Currency != "EUR" {
		t.Errorf("expected currency to be uppercased to EUR, got %q", account.Currency)
	}
	if account.InitialBalance != 150000 {
		t.Errorf("expected initial balance 150000, got %d", account.InitialBalance)
	}
	if account.CurrentBalance != 150000 {
		t.Errorf("expected current balance to equal initial balance, got %d", account.CurrentBalance)
	}
}

func TestCreateAccountDefaultCurrency(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewAccountService(db)
	user := testutil.CreateTestUser(t, db)

	account, err := service.CreateAccount(user.ID, "Wallet", models.AccountTypeCash, "", 0)
	testutil.AssertNoError(t, err)

	if account.Currency != "USD" {
		t.Errorf("expected default currency USD, got %q", account.Currency)
	}
}

func TestCreateAccountDuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewAccountService(db)
	user := testutil.CreateTestUser(t, db)

	_, err := service.CreateAccount(user.ID, "Savings", models.AccountTypeSavings, "USD", 0)
	testutil.AssertNoError(t, err)

	// Name uniqueness ignores case.
	_, err = service.CreateAccount(user.ID, "savings", models.AccountTypeSavings, "USD", 0)
	testutil.AssertAppError(t, err, "DUPLICATE_ACCOUNT_NAME")

	// A different user can reuse the name.
	other := testutil.CreateTestUser(t, db)
	_, err = service.CreateAccount(other.ID, "Savings", models.AccountTypeSavings, "USD", 0)
	testutil.AssertNoError(t, err)
}

func TestGetAccountByIDDerivesBalance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewAccountService(db)
	user := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestAccountWithBalance(t, db, user.ID, 10000) // $100.00
	income := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeIncome)
	expense := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

	testutil.CreateTestTransaction(t, db, user.ID, account.ID, income.ID, models.TransactionTypeIncome, 5000)
	testutil.CreateTestTransaction(t, db, user.ID, account.ID, expense.ID, models.TransactionTypeExpense, 2500)
	testutil.CreateTestTransaction(t, db, user.ID, account.ID, expense.ID, models.TransactionTypeExpense, 1000)

	got, err := service.GetAccountByID(user.ID, account.ID)
	testutil.AssertNoError(t, err)

	// 100.00 + 50.00 - 25.00 - 10.00 = 115.00
	if got.CurrentBalance != 11500 {
		t.Errorf("expected current balance 11500, got %d", got.CurrentBalance)
	}
	if got.InitialBalance != 10000 {
		t.Errorf("initial balance must not change, got %d", got.InitialBalance)
	}
}

func TestGetAccountByIDNoTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewAccountService(db)
	user := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestAccountWithBalance(t, db, user.ID, -5000)

	got, err := service.GetAccountByID(user.ID, account.ID)
	testutil.AssertNoError(t, err)

	if got.CurrentBalance != -5000 {
		t.Errorf("expected current balance to equal initial balance -5000, got %d", got.CurrentBalance)
	}
}

func TestGetAccountByIDNotOwned(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewAccountService(db)
	owner := testutil.CreateTestUser(t, db)
	intruder := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestAccount(t, db, owner.ID)

	_, err := service.GetAccountByID(intruder.ID, account.ID)
	testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
}

func TestGetUserAccountsBalances(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewAccountService(db)
	user := testutil.CreateTestUser(t, db)
	a := testutil.CreateTestNamedAccount(t, db, user.ID, "Alpha")
	b := testutil.CreateTestNamedAccount(t, db, user.ID, "Beta")
	income := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeIncome)

	testutil.CreateTestTransaction(t, db, user.ID, a.ID, income.ID, models.TransactionTypeIncome, 3000)

	resp, err := service.GetUserAccounts(user.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)

	if resp.TotalItems != 2 {
		t.Fatalf("expected 2 accounts, got %d", resp.TotalItems)
	}
	if resp.Data[0].Name != "Alpha" || resp.Data[1].Name != "Beta" {
		t.Errorf("expected accounts ordered by name, got %q, %q", resp.Data[0].Name, resp.Data[1].Name)
	}
	if resp.Data[0].CurrentBalance != 3000 {
		t.Errorf("expected Alpha balance 3000, got %d", resp.Data[0].CurrentBalance)
	}
	if resp.Data[1].CurrentBalance != 0 {
		t.Errorf("expected Beta balance 0, got %d", resp.Data[1].CurrentBalance)
	}

	if _, err := service.GetAccountByID(user.ID, b.ID); err != nil {
		t.Errorf("unexpected error fetching Beta: %v", err)
	}
}

func TestUpdateAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewAccountService(db)
	user := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestNamedAccount(t, db, user.ID, "Old Name")

	newName := "New Name"
	newBalance := int64(7500)
	newType := models.AccountTypeSavings
	updated, err := service.UpdateAccount(user.ID, account.ID, AccountUpdateFields{
		Name:           &newName,
		Type:           &newType,
		InitialBalance: &newBalance,
	})
	testutil.AssertNoError(t, err)

	if updated.Name != "New Name" {
		t.Errorf("expected name %q, got %q", "New Name", updated.Name)
	}
	if updated.Type != models.AccountTypeSavings {
		t.Errorf("expected type savings, got %q", updated.Type)
	}
	if updated.InitialBalance != 7500 {
		t.Errorf("expected initial balance 7500, got %d", updated.InitialBalance)
	}
	if updated.CurrentBalance != 7500 {
		t.Errorf("expected derived balance to follow new initial balance, got %d", updated.CurrentBalance)
	}
}

func TestUpdateAccountDuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewAccountService(db)
	user := testutil.CreateTestUser(t, db)
	testutil.CreateTestNamedAccount(t, db, user.ID, "Taken")
	account := testutil.CreateTestNamedAccount(t, db, user.ID, "Mine")

	name := "taken"
	_, err := service.UpdateAccount(user.ID, account.ID, AccountUpdateFields{Name: &name})
	testutil.AssertAppError(t, err, "DUPLICATE_ACCOUNT_NAME")

	// Renaming to a different casing of its own name is allowed.
	ownName := "MINE"
	updated, err := service.UpdateAccount(user.ID, account.ID, AccountUpdateFields{Name: &ownName})
	testutil.AssertNoError(t, err)
	if updated.Name != "MINE" {
		t.Errorf("expected name %q, got %q", "MINE", updated.Name)
	}
}

func TestDeleteAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewAccountService(db)
	user := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestAccount(t, db, user.ID)

	testutil.AssertNoError(t, service.DeleteAccount(user.ID, account.ID))

	_, err := service.GetAccountByID(user.ID, account.ID)
	testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
}

func TestDeleteAccountWithTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewAccountService(db)
	user := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestAccount(t, db, user.ID)
	income := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeIncome)
	testutil.CreateTestTransaction(t, db, user.ID, account.ID, income.ID, models.TransactionTypeIncome, 100)

	err := service.DeleteAccount(user.ID, account.ID)
	testutil.AssertAppError(t, err, "ACCOUNT_HAS_TRANSACTIONS")

	// The account must survive the refused delete.
	if _, err := service.GetAccountByID(user.ID, account.ID); err != nil {
		t.Errorf("account should still exist: %v", err)
	}
}

func TestCreateAccountEmptyName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewAccountService(db)
	user := testutil.CreateTestUser(t, db)

	_, err := service.CreateAccount(user.ID, "", models.AccountTypeChecking, "USD", 0)
	testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)
}
