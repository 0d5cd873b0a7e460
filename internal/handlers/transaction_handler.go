package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/services"
	"fintrack/internal/uuid"
)

// TransactionHandler handles transaction CRUD requests
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the transaction creation payload.
// Amount is a decimal string to keep money out of floats.
type CreateTransactionRequest struct {
	AccountID   string `json:"account_id" binding:"required,uuid"`
	CategoryID  string `json:"category_id" binding:"required,uuid"`
	Type        string `json:"type" binding:"required,transaction_type"`
	Amount      string `json:"amount" binding:"required"`
	Date        string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// UpdateTransactionRequest represents the transaction update payload.
// Omitted fields are left untouched.
type UpdateTransactionRequest struct {
	AccountID   *string `json:"account_id" binding:"omitempty,uuid"`
	CategoryID  *string `json:"category_id" binding:"omitempty,uuid"`
	Type        *string `json:"type" binding:"omitempty,transaction_type"`
	Amount      *string `json:"amount" binding:"omitempty"`
	Date        *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// ListTransactionsQuery represents the filter query parameters for listing
// transactions.
type ListTransactionsQuery struct {
	AccountID  string `form:"account_id" binding:"omitempty,uuid"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	Type       string `form:"type" binding:"omitempty,transaction_type"`
	FromDate   string `form:"from_date" binding:"omitempty,datetime=2006-01-02"`
	ToDate     string `form:"to_date" binding:"omitempty,datetime=2006-01-02"`
	Search     string `form:"search" binding:"omitempty,max=200"`
}

// CreateTransaction records a new transaction
// @Summary     Create transaction
// @Description Record a new income or expense transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Created transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := money.ParsePositive(req.Amount)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid amount: must be a positive decimal number"))
		return
	}

	var date time.Time
	if req.Date != "" {
		date, _ = time.Parse(time.DateOnly, req.Date)
	}

	transaction, err := h.transactionService.CreateTransaction(
		userID, req.AccountID, req.CategoryID,
		models.TransactionType(req.Type), amount, date, req.Description,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// ListTransactions returns the user's transactions with optional filters
// @Summary     List transactions
// @Description List the authenticated user's transactions, newest first, with optional filters
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       account_id query string false "Filter by account ID"
// @Param       category_id query string false "Filter by category ID"
// @Param       type query string false "Filter by type (income or expense)"
// @Param       from_date query string false "Earliest date (YYYY-MM-DD)"
// @Param       to_date query string false "Latest date (YYYY-MM-DD)"
// @Param       search query string false "Substring match on description"
// @Param       page query int false "Page number (default 1)"
// @Param       page_size query int false "Page size (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
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

	var query ListTransactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := buildTransactionFilter(query)
	resp, err := h.transactionService.GetUserTransactions(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetTransaction returns a single transaction
// @Summary     Get transaction
// @Description Get one of the authenticated user's transactions by ID
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction updates a transaction
// @Summary     Update transaction
// @Description Update one of the authenticated user's transactions
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to update"
// @Success     200 {object} models.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields := services.TransactionUpdateFields{
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Description: req.Description,
	}
	if req.Type != nil {
		transactionType := models.TransactionType(*req.Type)
		fields.Type = &transactionType
	}
	if req.Amount != nil {
		amount, err := money.ParsePositive(*req.Amount)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid amount: must be a positive decimal number"))
			return
		}
		fields.Amount = &amount
	}
	if req.Date != nil {
		date, _ := time.Parse(time.DateOnly, *req.Date)
		fields.Date = &date
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, transactionID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction deletes a transaction
// @Summary     Delete transaction
// @Description Delete one of the authenticated user's transactions
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

// buildTransactionFilter converts validated query parameters into a service
// filter. Dates already passed the datetime binding, so parse errors cannot
// occur here.
func buildTransactionFilter(query ListTransactionsQuery) services.TransactionFilter {
	var filter services.TransactionFilter
	if query.AccountID != "" && uuid.IsValid(query.AccountID) {
		filter.AccountID = &query.AccountID
	}
	if query.CategoryID != "" && uuid.IsValid(query.CategoryID) {
		filter.CategoryID = &query.CategoryID
	}
	if query.Type != "" {
		transactionType := models.TransactionType(query.Type)
		filter.Type = &transactionType
	}
	if query.FromDate != "" {
		from, _ := time.Parse(time.DateOnly, query.FromDate)
		filter.FromDate = &from
	}
	if query.ToDate != "" {
		to, _ := time.Parse(time.DateOnly, query.ToDate)
		filter.ToDate = &to
	}
	if query.Search != "" {
		filter.Search = &query.Search
	}
	return filter
}
