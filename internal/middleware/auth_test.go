package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"fintrack/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testUser() *models.User {
	user := &models.User{Email: "jwt@test.com"}
	user.ID = "0192aaaa-bbbb-7ccc-8ddd-eeeeffff0001"
	return user
}

func protectedRouter() *gin.Engine {
	router := gin.New()
	router.GET("/secure", AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("userID")})
	})
	return router
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/secure", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAccessTokenRoundTrip(t *testing.T) {
	user := testUser()
	token, err := GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("failed to generate access token: %v", err)
	}

	rec := doRequest(protectedRouter(), "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid access token, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthMiddlewareRejections(t *testing.T) {
	user := testUser()
	refresh, err := GenerateRefreshToken(user)
	if err != nil {
		t.Fatalf("failed to generate refresh token: %v", err)
	}

	router := protectedRouter()
	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "malformed header", header: "Bearer"},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "garbage token", header: "Bearer not.a.jwt"},
		{name: "refresh token as access token", header: "Bearer " + refresh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(router, tt.header)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestValidateRefreshToken(t *testing.T) {
	user := testUser()

	refresh, err := GenerateRefreshToken(user)
	if err != nil {
		t.Fatalf("failed to generate refresh token: %v", err)
	}

	claims, err := ValidateRefreshToken(refresh)
	if err != nil {
		t.Fatalf("expected valid refresh token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("expected user ID %q, got %q", user.ID, claims.UserID)
	}

	// An access token is not accepted where a refresh token is required.
	access, err := GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("failed to generate access token: %v", err)
	}
	if _, err := ValidateRefreshToken(access); err == nil {
		t.Error("expected access token to be rejected as refresh token")
	}

	if _, err := ValidateRefreshToken("garbage"); err == nil {
		t.Error("expected garbage to be rejected")
	}
}

func TestHashToken(t *testing.T) {
	a := HashToken("token-one")
	b := HashToken("token-two")

	if a == b {
		t.Error("different tokens must hash differently")
	}
	if a != HashToken("token-one") {
		t.Error("hashing must be deterministic")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(a))
	}
}
