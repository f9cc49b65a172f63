package handlers

import (
	"errors"
	"net/http"

	"hospoda_backend/internal/services"
	"hospoda_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AccountingHandler holds the accounting service.
type AccountingHandler struct {
	accountingService services.AccountingService
}

// NewAccountingHandler creates a new AccountingHandler.
func NewAccountingHandler(as services.AccountingService) *AccountingHandler {
	return &AccountingHandler{accountingService: as}
}

// GetDailyReport handles fetching the daily report for a date.
func (h *AccountingHandler) GetDailyReport(c *gin.Context) {
	report, err := h.accountingService.GetReport(c.Param("date"))
	if err != nil {
		respondAccountingError(c, err, "GetDailyReport")
		return
	}
	c.JSON(http.StatusOK, report)
}

// OpenDailyReport handles creating (or idempotently fetching) the daily
// report for a date with the given opening balance.
func (h *AccountingHandler) OpenDailyReport(c *gin.Context) {
	var req services.OpenReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload.", err.Error()))
		return
	}

	report, err := h.accountingService.CreateOrGetReport(c.Param("date"), *req.OpeningBalance)
	if err != nil {
		respondAccountingError(c, err, "OpenDailyReport")
		return
	}
	c.JSON(http.StatusOK, report)
}

// RefreshDailyReport recomputes the sales and expense aggregates of an open
// report from the current order and expense data.
func (h *AccountingHandler) RefreshDailyReport(c *gin.Context) {
	report, err := h.accountingService.RefreshAggregates(c.Param("date"))
	if err != nil {
		respondAccountingError(c, err, "RefreshDailyReport")
		return
	}
	c.JSON(http.StatusOK, report)
}

// RecordCashCount stores the operator-counted drawer balance on an open
// report and derives the variance against the expected balance.
func (h *AccountingHandler) RecordCashCount(c *gin.Context) {
	var req services.CashCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload.", err.Error()))
		return
	}

	report, err := h.accountingService.RecordCashCount(c.Param("date"), *req.CountedBalance)
	if err != nil {
		respondAccountingError(c, err, "RecordCashCount")
		return
	}
	c.JSON(http.StatusOK, report)
}

// CloseDailyReport seals the report for the date. The operator identity from
// the token is stored for audit.
func (h *AccountingHandler) CloseDailyReport(c *gin.Context) {
	var closedBy *string
	if username := c.GetString("username"); username != "" {
		closedBy = &username
	}

	report, err := h.accountingService.CloseReport(c.Param("date"), closedBy)
	if err != nil {
		respondAccountingError(c, err, "CloseDailyReport")
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetMonthlyReport assembles the month close-out view from stored daily
// reports.
func (h *AccountingHandler) GetMonthlyReport(c *gin.Context) {
	month := c.Query("month")
	if month == "" {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Query parameter 'month' is required.", "expected month=YYYY-MM"))
		return
	}

	report, err := h.accountingService.GetMonthlyReport(month)
	if err != nil {
		respondAccountingError(c, err, "GetMonthlyReport")
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetDashboardSummary provides the key metrics for the dashboard.
func (h *AccountingHandler) GetDashboardSummary(c *gin.Context) {
	summary, err := h.accountingService.GetDashboardSummary()
	if err != nil {
		respondAccountingError(c, err, "GetDashboardSummary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// respondAccountingError maps accounting service errors onto the API error
// taxonomy.
func respondAccountingError(c *gin.Context, err error, operation string) {
	utils.LogError(err, operation+": accounting service error")
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Input validation failed.", err.Error()))
	case errors.Is(err, services.ErrReportNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Daily report not found.", err.Error()))
	case errors.Is(err, services.ErrReportClosed):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Daily report is closed and can no longer change.", err.Error()))
	case errors.Is(err, services.ErrMissingCashCount):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnprocessableEntity, utils.ErrCodeUnprocessable, "Record a cash count before closing the day.", err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Accounting operation failed.", "Internal error"))
	}
}
