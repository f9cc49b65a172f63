package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"hospoda_backend/internal/models"
	"hospoda_backend/internal/repositories"
	"hospoda_backend/pkg/utils"
)

// Custom errors surfaced by the accounting core.
var (
	ErrValidation       = errors.New("validation failed")
	ErrReportNotFound   = errors.New("daily report not found")
	ErrReportClosed     = errors.New("daily report is closed and immutable")
	ErrMissingCashCount = errors.New("closing balance has not been recorded")
)

// --- Data Transfer Objects (DTOs) ---

// OpenReportRequest opens (or fetches) the daily report for a date.
// OpeningBalance is a pointer so that an explicit zero float can be told
// apart from a missing field.
type OpenReportRequest struct {
	OpeningBalance *float64 `json:"openingBalance" binding:"required"`
}

// CashCountRequest records the operator-counted drawer balance.
type CashCountRequest struct {
	CountedBalance *float64 `json:"countedBalance" binding:"required"`
}

// --- AccountingService Interface ---

// AccountingService implements the daily closing core: aggregation of the
// day's sales and expenses, cash reconciliation and the OPEN -> CLOSED report
// lifecycle, plus the monthly close-out and dashboard views built on top.
type AccountingService interface {
	CreateOrGetReport(date string, openingBalance float64) (*models.DailyReport, error)
	GetReport(date string) (*models.DailyReport, error)
	RefreshAggregates(date string) (*models.DailyReport, error)
	RecordCashCount(date string, countedBalance float64) (*models.DailyReport, error)
	CloseReport(date string, closedBy *string) (*models.DailyReport, error)
	GetMonthlyReport(month string) (*models.MonthlyReport, error)
	GetDashboardSummary() (*models.DashboardSummary, error)
}

type accountingService struct {
	reportRepo  repositories.DailyReportRepository
	orderRepo   repositories.OrderRepository
	expenseRepo repositories.ExpenseRepository
}

// NewAccountingService creates a new instance of AccountingService.
func NewAccountingService(
	rr repositories.DailyReportRepository,
	or repositories.OrderRepository,
	er repositories.ExpenseRepository,
) AccountingService {
	return &accountingService{
		reportRepo:  rr,
		orderRepo:   or,
		expenseRepo: er,
	}
}

// --- Method Implementations ---

func (s *accountingService) CreateOrGetReport(date string, openingBalance float64) (*models.DailyReport, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	if err := validateAmount("openingBalance", openingBalance); err != nil {
		return nil, err
	}

	report := &models.DailyReport{
		Date: day,
		Sales: models.SalesData{
			Categories:     []models.CategorySales{},
			PaymentMethods: []models.PaymentMethodSales{},
		},
		Expenses: models.ExpensesData{Items: []models.ExpenseItem{}},
		Cash:     models.CashBalance{OpeningBalance: openingBalance},
	}

	created, err := s.reportRepo.CreateIfAbsent(report)
	if err != nil {
		return nil, fmt.Errorf("failed to create daily report: %w", err)
	}
	if created {
		utils.LogInfo("Daily report opened", map[string]interface{}{
			"date":            date,
			"opening_balance": openingBalance,
		})
	}

	// An existing report is returned as stored; the openingBalance argument
	// never overwrites a previously recorded one.
	return s.getByDate(day)
}

func (s *accountingService) GetReport(date string) (*models.DailyReport, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	return s.getByDate(day)
}

func (s *accountingService) RefreshAggregates(date string) (*models.DailyReport, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.GetCompletedOrdersByDate(day)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed orders: %w", err)
	}
	entries, err := s.expenseRepo.GetByDate(day)
	if err != nil {
		return nil, fmt.Errorf("failed to load expense entries: %w", err)
	}

	sales, err := AggregateSales(orders)
	if err != nil {
		return nil, err
	}
	expenses := AggregateExpenses(entries)

	rows, err := s.reportRepo.UpdateAggregates(day, sales, expenses)
	if err != nil {
		return nil, fmt.Errorf("failed to store aggregates: %w", err)
	}
	if rows == 0 {
		return nil, s.explainConditionalMiss(day)
	}
	return s.getByDate(day)
}

func (s *accountingService) RecordCashCount(date string, countedBalance float64) (*models.DailyReport, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	if err := validateAmount("countedBalance", countedBalance); err != nil {
		return nil, err
	}

	rows, err := s.reportRepo.RecordCashCount(day, countedBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to record cash count: %w", err)
	}
	if rows == 0 {
		return nil, s.explainConditionalMiss(day)
	}
	return s.getByDate(day)
}

func (s *accountingService) CloseReport(date string, closedBy *string) (*models.DailyReport, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	rows, err := s.reportRepo.Close(day, closedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to close daily report: %w", err)
	}
	if rows == 0 {
		// The close statement also requires a recorded closing balance, so a
		// miss can additionally mean the count is missing.
		report, repErr := s.reportRepo.GetByDate(day)
		if repErr != nil {
			if errors.Is(repErr, repositories.ErrNotFound) {
				return nil, ErrReportNotFound
			}
			return nil, fmt.Errorf("failed to inspect daily report after close attempt: %w", repErr)
		}
		if report.Closed {
			return nil, ErrReportClosed
		}
		if report.Cash.ClosingBalance == nil {
			return nil, ErrMissingCashCount
		}
		return nil, fmt.Errorf("close of daily report %s did not apply", date)
	}

	operator := ""
	if closedBy != nil {
		operator = *closedBy
	}
	utils.LogInfo("Daily report closed", map[string]interface{}{
		"date":      date,
		"closed_by": operator,
	})
	return s.getByDate(day)
}

func (s *accountingService) GetMonthlyReport(month string) (*models.MonthlyReport, error) {
	first, err := utils.ParseReportMonth(month)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	reports, err := s.reportRepo.GetByMonth(first.Year(), first.Month())
	if err != nil {
		return nil, fmt.Errorf("failed to load daily reports for month: %w", err)
	}

	byDay := map[int]models.DailyReport{}
	for _, report := range reports {
		byDay[report.Date.Day()] = report
	}

	daysInMonth := first.AddDate(0, 1, -1).Day()
	monthly := &models.MonthlyReport{
		Month:     month,
		DailyData: make([]models.MonthlyDaySummary, 0, daysInMonth),
	}

	categoryIdx := map[string]int{}
	expenseIdx := map[string]int{}
	categories := []models.CategorySales{}
	expenseCategories := []models.CategorySales{}

	for day := 1; day <= daysInMonth; day++ {
		row := models.MonthlyDaySummary{
			Day:  day,
			Date: utils.FormatReportDate(first.AddDate(0, 0, day-1)),
		}
		if report, ok := byDay[day]; ok {
			row.Sales = report.Sales.TotalSales
			row.Expenses = report.Expenses.Total
			row.Profit = report.Sales.TotalSales - report.Expenses.Total
			row.Closed = report.Closed

			monthly.Summary.TotalSales += report.Sales.TotalSales
			monthly.Summary.TotalExpenses += report.Expenses.Total

			for _, cat := range report.Sales.Categories {
				if i, ok := categoryIdx[cat.Name]; ok {
					categories[i].Amount += cat.Amount
				} else {
					categoryIdx[cat.Name] = len(categories)
					categories = append(categories, models.CategorySales{Name: cat.Name, Amount: cat.Amount})
				}
			}
			for _, item := range report.Expenses.Items {
				if i, ok := expenseIdx[item.Name]; ok {
					expenseCategories[i].Amount += item.Amount
				} else {
					expenseIdx[item.Name] = len(expenseCategories)
					expenseCategories = append(expenseCategories, models.CategorySales{Name: item.Name, Amount: item.Amount})
				}
			}
		}
		monthly.DailyData = append(monthly.DailyData, row)
	}

	monthly.Summary.Profit = monthly.Summary.TotalSales - monthly.Summary.TotalExpenses
	if monthly.Summary.TotalSales > 0 {
		monthly.Summary.ProfitMargin = monthly.Summary.Profit / monthly.Summary.TotalSales * 100
	}
	monthly.Summary.AverageDailySales = monthly.Summary.TotalSales / float64(daysInMonth)
	monthly.Summary.Categories = categories
	monthly.Summary.ExpenseCategories = expenseCategories
	monthly.Summary.VAT = utils.CalculateVAT(monthly.Summary.TotalSales, utils.DefaultVATRate)
	return monthly, nil
}

func (s *accountingService) GetDashboardSummary() (*models.DashboardSummary, error) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	summary := &models.DashboardSummary{ReportStatus: "none"}

	report, err := s.reportRepo.GetByDate(today)
	switch {
	case err == nil:
		summary.TodaySales = report.Sales.TotalSales
		if report.Closed {
			summary.ReportStatus = "closed"
		} else {
			summary.ReportStatus = "open"
		}
	case errors.Is(err, repositories.ErrNotFound):
		// No report opened yet; fall back to a live aggregation of today's
		// completed orders.
		orders, ordErr := s.orderRepo.GetCompletedOrdersByDate(today)
		if ordErr != nil {
			return nil, fmt.Errorf("failed to load today's orders: %w", ordErr)
		}
		sales, aggErr := AggregateSales(orders)
		if aggErr != nil {
			return nil, aggErr
		}
		summary.TodaySales = sales.TotalSales
	default:
		return nil, fmt.Errorf("failed to load today's report: %w", err)
	}

	expenses, err := s.expenseRepo.TotalByDate(today)
	if err != nil {
		return nil, fmt.Errorf("failed to total today's expenses: %w", err)
	}
	summary.TodayExpenses = expenses

	active, err := s.orderRepo.CountActiveOrders()
	if err != nil {
		return nil, fmt.Errorf("failed to count active orders: %w", err)
	}
	summary.ActiveOrdersCount = active
	return summary, nil
}

// --- Helpers ---

func (s *accountingService) getByDate(day time.Time) (*models.DailyReport, error) {
	report, err := s.reportRepo.GetByDate(day)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get daily report: %w", err)
	}
	return report, nil
}

// explainConditionalMiss turns a zero-row conditional update into the
// specific lifecycle error the caller should see.
func (s *accountingService) explainConditionalMiss(day time.Time) error {
	report, err := s.reportRepo.GetByDate(day)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrReportNotFound
		}
		return fmt.Errorf("failed to inspect daily report after update attempt: %w", err)
	}
	if report.Closed {
		return ErrReportClosed
	}
	return fmt.Errorf("update of daily report %s did not apply", utils.FormatReportDate(day))
}

func parseDate(date string) (time.Time, error) {
	day, err := utils.ParseReportDate(date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return day, nil
}

func validateAmount(field string, amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: %s must be a finite number", ErrValidation, field)
	}
	if amount < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrValidation, field)
	}
	return nil
}
