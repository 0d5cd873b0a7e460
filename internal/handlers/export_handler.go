package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/services"
)

// ExportHandler handles CSV export requests
type ExportHandler struct {
	exportService services.ExportServicer
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService services.ExportServicer) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// ExportTransactions streams the user's transactions as a CSV download
// @Summary     Export transactions to CSV
// @Description Download all of the authenticated user's transactions as a CSV file, newest first
// @Tags        export
// @Produce     text/csv
// @Security    BearerAuth
// @Success     200 {string} string "CSV file"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No transactions to export"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /export/transactions [get]
func (h *ExportHandler) ExportTransactions(c *gin.Context) {
	h.handleExport(c, h.exportService.ExportTransactions, "transactions-export.csv")
}

// ExportAccounts streams the user's accounts as a CSV download
// @Summary     Export accounts to CSV
// @Description Download all of the authenticated user's accounts, including derived balances, as a CSV file
// @Tags        export
// @Produce     text/csv
// @Security    BearerAuth
// @Success     200 {string} string "CSV file"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No accounts to export"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /export/accounts [get]
func (h *ExportHandler) ExportAccounts(c *gin.Context) {
	h.handleExport(c, h.exportService.ExportAccounts, "accounts-export.csv")
}

func (h *ExportHandler) handleExport(c *gin.Context, exportFn func(userID string) ([]byte, error), filename string) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	data, err := exportFn(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}
