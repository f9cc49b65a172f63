package models

import (
	"time"

	"hospoda_backend/pkg/utils"
)

// CategorySales is one bucket of the per-category sales partition.
type CategorySales struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// PaymentMethodSales is one bucket of the per-payment-method sales partition.
type PaymentMethodSales struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
}

// ExpenseItem is a single named expense line inside a daily report.
type ExpenseItem struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// SalesData aggregates the completed orders of one day. Categories and
// PaymentMethods are two independent partitions of TotalSales: each must sum
// to it exactly.
type SalesData struct {
	TotalSales        float64              `json:"totalSales"`
	ItemsSold         int                  `json:"itemsSold"`
	OrderCount        int                  `json:"orderCount"`
	AverageOrderValue float64              `json:"averageOrderValue"`
	Categories        []CategorySales      `json:"categories"`
	PaymentMethods    []PaymentMethodSales `json:"paymentMethods"`
}

// ExpensesData aggregates the expense entries of one day.
type ExpensesData struct {
	Total float64       `json:"total"`
	Items []ExpenseItem `json:"items"`
}

// CashBalance is the cash drawer reconciliation state of a daily report.
// ClosingBalance and Difference stay nil until an operator records a count;
// a recorded count of zero is a legitimate value, distinct from "not entered".
type CashBalance struct {
	OpeningBalance float64  `json:"openingBalance"`
	ClosingBalance *float64 `json:"closingBalance"`
	Difference     *float64 `json:"difference"`
}

// DailyReport is the per-date accounting record. There is exactly one report
// per calendar date; once Closed flips to true the whole record is frozen.
type DailyReport struct {
	Date      time.Time    `json:"date"`
	Closed    bool         `json:"closed"`
	Sales     SalesData    `json:"sales"`
	Expenses  ExpensesData `json:"expenses"`
	Cash      CashBalance  `json:"cash"`
	ClosedBy  *string      `json:"closedBy,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// MonthlyDaySummary is one row of the monthly close-out table.
type MonthlyDaySummary struct {
	Day      int     `json:"day"`
	Date     string  `json:"date"` // YYYY-MM-DD
	Sales    float64 `json:"sales"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
	Closed   bool    `json:"closed"`
}

// MonthlySummaryTotals summarizes a whole month of daily reports.
type MonthlySummaryTotals struct {
	TotalSales        float64            `json:"totalSales"`
	TotalExpenses     float64            `json:"totalExpenses"`
	Profit            float64            `json:"profit"`
	ProfitMargin      float64            `json:"profitMargin"` // percent, 0 when no sales
	AverageDailySales float64            `json:"averageDailySales"`
	Categories        []CategorySales    `json:"categories"`
	ExpenseCategories []CategorySales    `json:"expenseCategories"`
	VAT               utils.VATBreakdown `json:"vat"`
}

// MonthlyReport is the month close-out view assembled from daily reports.
type MonthlyReport struct {
	Month     string              `json:"month"` // YYYY-MM
	DailyData []MonthlyDaySummary `json:"dailyData"`
	Summary   MonthlySummaryTotals `json:"summary"`
}

// DashboardSummary holds the key metrics shown on the back-office dashboard.
type DashboardSummary struct {
	TodaySales        float64 `json:"todaySales"`
	TodayExpenses     float64 `json:"todayExpenses"`
	ActiveOrdersCount int     `json:"activeOrdersCount"`
	ReportStatus      string  `json:"reportStatus"` // "none", "open" or "closed"
}
