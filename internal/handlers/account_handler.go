package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

// AccountHandler handles account CRUD requests
type AccountHandler struct {
	accountService services.AccountServicer
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService services.AccountServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// CreateAccountRequest represents the account creation payload
type CreateAccountRequest struct {
	Name           string `json:"name" binding:"required,max=100"`
	Type           string `json:"type" binding:"required,account_type"`
	Currency       string `json:"currency" binding:"omitempty,iso4217"`
	InitialBalance string `json:"initial_balance" binding:"omitempty"`
}

// UpdateAccountRequest represents the account update payload. Omitted
// fields are left untouched.
type UpdateAccountRequest struct {
	Name           *string `json:"name" binding:"omitempty,max=100"`
	Type           *string `json:"type" binding:"omitempty,account_type"`
	Currency       *string `json:"currency" binding:"omitempty,iso4217"`
	InitialBalance *string `json:"initial_balance" binding:"omitempty"`
}

// CreateAccount creates a new account for the authenticated user
// @Summary     Create account
// @Description Create a new financial account for the authenticated user
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAccountRequest true "Account details"
// @Success     201 {object} models.Account "Created account"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Duplicate account name"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	initialBalance, err := parseBalance(req.InitialBalance)
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.CreateAccount(userID, req.Name, models.AccountType(req.Type), req.Currency, initialBalance)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// ListAccounts returns the user's accounts with derived balances
// @Summary     List accounts
// @Description List the authenticated user's accounts with current balances
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number (default 1)"
// @Param       page_size query int false "Page size (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Account] "Accounts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	page, err := parsePageRequest(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp, err := h.accountService.GetUserAccounts(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetAccount returns a single account with its derived balance
// @Summary     Get account
// @Description Get one of the authenticated user's accounts by ID
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} models.Account "Account"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.GetAccountByID(userID, accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// UpdateAccount updates an account
// @Summary     Update account
// @Description Update one of the authenticated user's accounts
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Param       request body UpdateAccountRequest true "Fields to update"
// @Success     200 {object} models.Account "Updated account"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     409 {object} ErrorResponse "Duplicate account name"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id} [put]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields := services.AccountUpdateFields{
		Name:     req.Name,
		Currency: req.Currency,
	}
	if req.Type != nil {
		accountType := models.AccountType(*req.Type)
		fields.Type = &accountType
	}
	if req.InitialBalance != nil {
		balance, err := parseBalance(*req.InitialBalance)
		if err != nil {
			respondWithError(c, err)
			return
		}
		fields.InitialBalance = &balance
	}

	account, err := h.accountService.UpdateAccount(userID, accountID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// DeleteAccount deletes an account without transactions
// @Summary     Delete account
// @Description Delete one of the authenticated user's accounts. Fails if the account has transactions.
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} MessageResponse "Account deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     409 {object} ErrorResponse "Account has transactions"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.accountService.DeleteAccount(userID, accountID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
