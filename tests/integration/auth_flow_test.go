package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestAuthFlow_RegisterLoginProfileRefresh(t *testing.T) {
	app := setupApp(t)

	// Step 1: Register
	accessToken, refreshToken, userID := app.registerUser(t, "auth@test.com", "password123")
	if accessToken == "" || refreshToken == "" {
		t.Fatal("expected non-empty tokens from registration")
	}
	if userID == "" {
		t.Fatal("expected non-empty user ID")
	}

	// Step 2: Login with same credentials
	loginAccess, loginRefresh := app.loginUser(t, "auth@test.com", "password123")
	if loginAccess == "" || loginRefresh == "" {
		t.Fatal("expected non-empty tokens from login")
	}

	// Step 3: Access profile with login access token
	rec := app.request("GET", "/api/v1/profile", "", loginAccess)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	if user["email"] != "auth@test.com" {
		t.Errorf("expected email auth@test.com, got %v", user["email"])
	}
	if user["preferred_currency"] != "USD" {
		t.Errorf("expected default currency USD, got %v", user["preferred_currency"])
	}

	// Step 4: Refresh token
	body := fmt.Sprintf(`{"refresh_token":%q}`, loginRefresh)
	rec = app.request("POST", "/api/v1/auth/refresh", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh failed: %d %s", rec.Code, rec.Body.String())
	}
	refreshResult := parseJSON(t, rec)
	newAccess := refreshResult["access_token"].(string)
	if newAccess == "" {
		t.Fatal("expected non-empty new access token after refresh")
	}

	// Step 5: Access profile with new access token
	rec = app.request("GET", "/api/v1/profile", "", newAccess)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with new token, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthFlow_Failures(t *testing.T) {
	app := setupApp(t)
	app.registerUser(t, "victim@test.com", "password123")

	// Duplicate registration
	body := `{"email":"victim@test.com","password":"password123","name":"Clone"}`
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate email, got %d", rec.Code)
	}

	// Wrong password
	body = `{"email":"victim@test.com","password":"wrongpassword"}`
	rec = app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong password, got %d", rec.Code)
	}

	// No token on a protected route
	rec = app.request("GET", "/api/v1/profile", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}

	// Garbage token
	rec = app.request("GET", "/api/v1/profile", "", "not-a-jwt")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with garbage token, got %d", rec.Code)
	}

	// Refresh token must not work as an access token
	_, refresh := app.loginUser(t, "victim@test.com", "password123")
	rec = app.request("GET", "/api/v1/profile", "", refresh)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 using refresh token as access token, got %d", rec.Code)
	}
}

func TestProfileFlow_UpdateChangePasswordReset(t *testing.T) {
	app := setupApp(t)
	access, _, _ := app.registerUser(t, "profile@test.com", "password123")

	// Update name and currency
	rec := app.request("PUT", "/api/v1/profile", `{"name":"Renamed","preferred_currency":"EUR"}`, access)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile update failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	if user["preferred_currency"] != "EUR" {
		t.Errorf("expected currency EUR, got %v", user["preferred_currency"])
	}

	// Invalid currency is rejected by binding
	rec = app.request("PUT", "/api/v1/profile", `{"preferred_currency":"NOPE"}`, access)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad currency, got %d", rec.Code)
	}

	// Change password, then log in with the new one
	rec = app.request("PUT", "/api/v1/profile/password", `{"current_password":"password123","new_password":"betterpass456"}`, access)
	if rec.Code != http.StatusOK {
		t.Fatalf("password change failed: %d %s", rec.Code, rec.Body.String())
	}
	app.loginUser(t, "profile@test.com", "betterpass456")

	// Seed some data, then reset
	accountID := app.createAccount(t, access, "Doomed", "checking", "10.00")
	categoryID := app.createCategory(t, access, "Doomed Category", "expense")
	body := fmt.Sprintf(`{"account_id":%q,"category_id":%q,"type":"expense","amount":"5.00"}`, accountID, categoryID)
	rec = app.request("POST", "/api/v1/transactions", body, access)
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed transaction failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("DELETE", "/api/v1/profile/reset-data", "", access)
	if rec.Code != http.StatusOK {
		t.Fatalf("reset failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/accounts", "", access)
	if rec.Code != http.StatusOK {
		t.Fatalf("list accounts failed: %d", rec.Code)
	}
	listing := parseJSON(t, rec)
	if int(listing["total_items"].(float64)) != 0 {
		t.Errorf("expected no accounts after reset, got %v", listing["total_items"])
	}

	// The user can still log in after the reset.
	app.loginUser(t, "profile@test.com", "betterpass456")
}
