package router

import (
	"database/sql"

	"hospoda_backend/internal/handlers"
	"hospoda_backend/internal/middleware"
	"hospoda_backend/internal/repositories"
	"hospoda_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Initialize Repositories
	reportRepo := repositories.NewDailyReportRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	expenseRepo := repositories.NewExpenseRepository(db)

	// Initialize Services
	accountingService := services.NewAccountingService(reportRepo, orderRepo, expenseRepo)
	expenseService := services.NewExpenseService(expenseRepo)

	// Initialize Handlers
	accountingHandler := handlers.NewAccountingHandler(accountingService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)

	apiV1 := engine.Group("/api/v1")

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupAccountingRoutes(authenticated, accountingHandler)
		SetupExpenseRoutes(authenticated, expenseHandler)
		SetupDashboardRoutes(authenticated, accountingHandler)
	}
}
