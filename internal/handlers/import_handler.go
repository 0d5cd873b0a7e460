package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/services"
)

// maxImportSize caps uploaded CSV files at 5 MB.
const maxImportSize = 5 << 20

// ImportHandler handles CSV batch import requests
type ImportHandler struct {
	importService services.ImportServicer
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(importService services.ImportServicer) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// ImportTransactions imports transactions from an uploaded CSV file
// @Summary     Import transactions from CSV
// @Description Bulk-import transactions from a CSV file. All rows are inserted in a single database transaction; a row-level validation failure excludes only that row, while an insert failure imports nothing.
// @Tags        import
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       file formData file true "CSV file with Date, Amount, Type, Category, Account columns"
// @Success     200 {object} services.ImportResult "Import summary"
// @Failure     400 {object} ErrorResponse "Missing file, empty file, or malformed CSV"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /import/transactions [post]
func (h *ImportHandler) ImportTransactions(c *gin.Context) {
	h.handleImport(c, h.importService.ImportTransactions)
}

// ImportAccounts imports accounts from an uploaded CSV file
// @Summary     Import accounts from CSV
// @Description Bulk-import accounts from a CSV file with Name, Type, Currency, InitialBalance columns
// @Tags        import
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       file formData file true "CSV file with Name, Type, Currency, InitialBalance columns"
// @Success     200 {object} services.ImportResult "Import summary"
// @Failure     400 {object} ErrorResponse "Missing file, empty file, or malformed CSV"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /import/accounts [post]
func (h *ImportHandler) ImportAccounts(c *gin.Context) {
	h.handleImport(c, h.importService.ImportAccounts)
}

func (h *ImportHandler) handleImport(c *gin.Context, importFn func(userID string, data []byte) (*services.ImportResult, error)) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "No file uploaded. Use the 'file' form field."))
		return
	}
	if fileHeader.Size > maxImportSize {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "File too large (max 5 MB)"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImportSize))
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	result, err := importFn(userID, data)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
