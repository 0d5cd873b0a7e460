package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestBudgetFlow_AccountsCategoriesTransactions(t *testing.T) {
	app := setupApp(t)
	access, _, _ := app.registerUser(t, "budget@test.com", "password123")

	// Create an account with an opening balance.
	accountID := app.createAccount(t, access, "Everyday", "checking", "500.00")

	// A duplicate name (any casing) is refused.
	rec := app.request("POST", "/api/v1/accounts", `{"name":"everyday","type":"savings"}`, access)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate account name, got %d", rec.Code)
	}

	// Create categories.
	salaryID := app.createCategory(t, access, "Salary", "income")
	groceriesID := app.createCategory(t, access, "Groceries", "expense")

	// Record income and spending.
	body := fmt.Sprintf(`{"account_id":%q,"category_id":%q,"type":"income","amount":"2500.00","date":"2026-08-01","description":"August pay"}`, accountID, salaryID)
	rec = app.request("POST", "/api/v1/transactions", body, access)
	if rec.Code != http.StatusCreated {
		t.Fatalf("income transaction failed: %d %s", rec.Code, rec.Body.String())
	}

	body = fmt.Sprintf(`{"account_id":%q,"category_id":%q,"type":"expense","amount":"75.50","date":"2026-08-03","description":"Weekly shop"}`, accountID, groceriesID)
	rec = app.request("POST", "/api/v1/transactions", body, access)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expense transaction failed: %d %s", rec.Code, rec.Body.String())
	}

	// A type/category mismatch is refused.
	body = fmt.Sprintf(`{"account_id":%q,"category_id":%q,"type":"income","amount":"10.00"}`, accountID, groceriesID)
	rec = app.request("POST", "/api/v1/transactions", body, access)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for category type mismatch, got %d", rec.Code)
	}

	// The account balance is derived: 500.00 + 2500.00 - 75.50 in cents.
	rec = app.request("GET", "/api/v1/accounts/"+accountID, "", access)
	if rec.Code != http.StatusOK {
		t.Fatalf("get account failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	account := result["account"].(map[string]interface{})
	if got := int64(account["current_balance"].(float64)); got != 292450 {
		t.Errorf("expected current balance 292450 cents, got %d", got)
	}
	if got := int64(account["initial_balance"].(float64)); got != 50000 {
		t.Errorf("initial balance must stay 50000 cents, got %d", got)
	}

	// Transactions list is filterable.
	rec = app.request("GET", "/api/v1/transactions?type=expense", "", access)
	if rec.Code != http.StatusOK {
		t.Fatalf("list transactions failed: %d %s", rec.Code, rec.Body.String())
	}
	listing := parseJSON(t, rec)
	if int(listing["total_items"].(float64)) != 1 {
		t.Errorf("expected 1 expense, got %v", listing["total_items"])
	}

	// Deleting the account is refused while transactions reference it.
	rec = app.request("DELETE", "/api/v1/accounts/"+accountID, "", access)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 deleting account with transactions, got %d", rec.Code)
	}

	// Deleting the category is refused while in use.
	rec = app.request("DELETE", "/api/v1/categories/"+groceriesID, "", access)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 deleting category in use, got %d", rec.Code)
	}
}

func TestBudgetFlow_UserIsolation(t *testing.T) {
	app := setupApp(t)
	aliceToken, _, _ := app.registerUser(t, "alice@test.com", "password123")
	bobToken, _, _ := app.registerUser(t, "bob@test.com", "password123")

	accountID := app.createAccount(t, aliceToken, "Alice Account", "checking", "0")

	// Bob cannot see or modify Alice's account.
	rec := app.request("GET", "/api/v1/accounts/"+accountID, "", bobToken)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for foreign account, got %d", rec.Code)
	}
	rec = app.request("PUT", "/api/v1/accounts/"+accountID, `{"name":"Hijacked"}`, bobToken)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 updating foreign account, got %d", rec.Code)
	}
	rec = app.request("DELETE", "/api/v1/accounts/"+accountID, "", bobToken)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 deleting foreign account, got %d", rec.Code)
	}
}
