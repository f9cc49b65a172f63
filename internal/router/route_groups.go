package router

import (
	"hospoda_backend/internal/handlers"
	"hospoda_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAccountingRoutes sets up the daily and monthly close-out routes.
func SetupAccountingRoutes(authenticatedGroup *gin.RouterGroup, accountingHandler *handlers.AccountingHandler) {
	accountingRoutes := authenticatedGroup.Group("/accounting")
	accountingRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		accountingRoutes.GET("/daily/:date", accountingHandler.GetDailyReport)
		accountingRoutes.POST("/daily/:date/open", accountingHandler.OpenDailyReport)
		accountingRoutes.POST("/daily/:date/refresh", accountingHandler.RefreshDailyReport)
		accountingRoutes.POST("/daily/:date/cash-count", accountingHandler.RecordCashCount)
		accountingRoutes.GET("/monthly", accountingHandler.GetMonthlyReport)
	}

	// Closing the day is terminal, so it stays admin-only.
	authenticatedGroup.POST("/accounting/daily/:date/close",
		middleware.RoleAuthMiddleware("Admin"), accountingHandler.CloseDailyReport)
}

// SetupExpenseRoutes sets up the expense log routes.
func SetupExpenseRoutes(authenticatedGroup *gin.RouterGroup, expenseHandler *handlers.ExpenseHandler) {
	expenseRoutes := authenticatedGroup.Group("/accounting/expenses")
	expenseRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		expenseRoutes.POST("", expenseHandler.CreateExpense)
		expenseRoutes.GET("", expenseHandler.GetExpenses)
	}
}

// SetupDashboardRoutes sets up the dashboard routes.
func SetupDashboardRoutes(authenticatedGroup *gin.RouterGroup, accountingHandler *handlers.AccountingHandler) {
	dashboardRoutes := authenticatedGroup.Group("/dashboard")
	dashboardRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		dashboardRoutes.GET("/summary", accountingHandler.GetDashboardSummary)
	}
}
