package handlers

import (
	"errors"
	"net/http"

	"hospoda_backend/internal/services"
	"hospoda_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ExpenseHandler holds the expense service.
type ExpenseHandler struct {
	expenseService services.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(es services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: es}
}

// CreateExpense handles logging a new expense entry.
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var req services.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload.", err.Error()))
		return
	}

	entry, err := h.expenseService.CreateExpense(req)
	if err != nil {
		utils.LogError(err, "CreateExpense: expense service error")
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Input validation failed.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create expense entry.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// GetExpenses handles fetching the expense entries for a date.
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Query parameter 'date' is required.", "expected date=YYYY-MM-DD"))
		return
	}

	entries, err := h.expenseService.GetExpensesByDate(date)
	if err != nil {
		utils.LogError(err, "GetExpenses: expense service error")
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Input validation failed.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch expense entries.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, entries)
}
