package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:             email,
		Password:          string(hash),
		Name:              "Test User",
		PreferredCurrency: "USD",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAccount creates a checking account with zero initial balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID string) *models.Account {
	t.Helper()
	return CreateTestAccountWithBalance(t, db, userID, 0)
}

// CreateTestAccountWithBalance creates a checking account with the given
// initial balance (in cents).
func CreateTestAccountWithBalance(t *testing.T, db *gorm.DB, userID string, initialBalance int64) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:         userID,
		Name:           fmt.Sprintf("Test Account %d", nextID()),
		Type:           models.AccountTypeChecking,
		Currency:       "USD",
		InitialBalance: initialBalance,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestNamedAccount creates a checking account with the given name.
func CreateTestNamedAccount(t *testing.T, db *gorm.DB, userID, name string) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:   userID,
		Name:     name,
		Type:     models.AccountTypeChecking,
		Currency: "USD",
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account %q: %v", name, err)
	}
	return account
}

// CreateTestCategory creates a user-owned category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, categoryType models.CategoryType) *models.Category {
	t.Helper()
	return CreateTestNamedCategory(t, db, userID, fmt.Sprintf("Test Category %d", nextID()), categoryType)
}

// CreateTestNamedCategory creates a user-owned category with the given name
// and type.
func CreateTestNamedCategory(t *testing.T, db *gorm.DB, userID, name string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: &userID,
		Name:   name,
		Type:   categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category %q: %v", name, err)
	}
	return category
}

// CreateDefaultCategory creates a system-wide default category with no owner.
func CreateDefaultCategory(t *testing.T, db *gorm.DB, name string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:      name,
		Type:      categoryType,
		IsDefault: true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create default category %q: %v", name, err)
	}
	return category
}

// CreateTestTransaction creates a transaction of the given type and amount
// (in cents).
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, accountID, categoryID string, txType models.TransactionType, amount int64) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     userID,
		AccountID:  accountID,
		CategoryID: categoryID,
		Type:       txType,
		Amount:     amount,
		Date:       time.Now(),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}
