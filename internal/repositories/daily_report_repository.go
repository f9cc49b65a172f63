package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hospoda_backend/internal/models"
)

// DailyReportRepository defines the persistence operations for daily reports.
// All mutating methods are single conditional UPDATEs keyed on
// (report_date, closed = FALSE), so a report can never change after it has
// been closed and racing writers serialize on the row itself.
type DailyReportRepository interface {
	GetByDate(date time.Time) (*models.DailyReport, error)
	// CreateIfAbsent inserts a fresh OPEN report for the date unless one
	// already exists. It reports whether a row was actually inserted.
	CreateIfAbsent(report *models.DailyReport) (bool, error)
	// UpdateAggregates stores recomputed sales and expense aggregates.
	// Returns the number of rows updated (0 when the report is closed or missing).
	UpdateAggregates(date time.Time, sales models.SalesData, expenses models.ExpensesData) (int64, error)
	// RecordCashCount stores the counted closing balance and derives the
	// difference against the expected balance in the same statement.
	RecordCashCount(date time.Time, counted float64) (int64, error)
	// Close marks the report closed. The statement only matches an open
	// report that has a recorded closing balance.
	Close(date time.Time, closedBy *string) (int64, error)
	GetByMonth(year int, month time.Month) ([]models.DailyReport, error)
}

type dailyReportRepository struct {
	db *sql.DB
}

// NewDailyReportRepository creates a new instance of DailyReportRepository.
func NewDailyReportRepository(db *sql.DB) DailyReportRepository {
	return &dailyReportRepository{db: db}
}

const dailyReportColumns = `report_date, closed, total_sales, items_sold, order_count,
	average_order_value, categories, payment_methods, expenses_total, expense_items,
	opening_balance, closing_balance, difference, closed_by, created_at, updated_at`

func (r *dailyReportRepository) GetByDate(date time.Time) (*models.DailyReport, error) {
	query := `SELECT ` + dailyReportColumns + ` FROM daily_reports WHERE report_date = $1`
	report, err := scanDailyReport(r.db.QueryRow(query, date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting daily report for %s: %v", ErrDatabaseError, date.Format("2006-01-02"), err)
	}
	return report, nil
}

func (r *dailyReportRepository) CreateIfAbsent(report *models.DailyReport) (bool, error) {
	categories, paymentMethods, expenseItems, err := marshalAggregates(report.Sales, report.Expenses)
	if err != nil {
		return false, err
	}

	query := `INSERT INTO daily_reports
	            (report_date, closed, total_sales, items_sold, order_count, average_order_value,
	             categories, payment_methods, expenses_total, expense_items, opening_balance,
	             created_at, updated_at)
	          VALUES ($1, FALSE, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	          ON CONFLICT (report_date) DO NOTHING`

	res, err := r.db.Exec(query,
		report.Date, report.Sales.TotalSales, report.Sales.ItemsSold, report.Sales.OrderCount,
		report.Sales.AverageOrderValue, categories, paymentMethods,
		report.Expenses.Total, expenseItems, report.Cash.OpeningBalance,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Lost a race with a concurrent create for the same date; the
			// existing report wins either way.
			return false, nil
		}
		return false, fmt.Errorf("%w: creating daily report: %v", ErrDatabaseError, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: creating daily report: %v", ErrDatabaseError, err)
	}
	return rows > 0, nil
}

func (r *dailyReportRepository) UpdateAggregates(date time.Time, sales models.SalesData, expenses models.ExpensesData) (int64, error) {
	categories, paymentMethods, expenseItems, err := marshalAggregates(sales, expenses)
	if err != nil {
		return 0, err
	}

	query := `UPDATE daily_reports
	             SET total_sales = $2, items_sold = $3, order_count = $4, average_order_value = $5,
	                 categories = $6, payment_methods = $7, expenses_total = $8, expense_items = $9,
	                 updated_at = NOW()
	           WHERE report_date = $1 AND closed = FALSE`

	res, err := r.db.Exec(query, date,
		sales.TotalSales, sales.ItemsSold, sales.OrderCount, sales.AverageOrderValue,
		categories, paymentMethods, expenses.Total, expenseItems,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: updating daily report aggregates: %v", ErrDatabaseError, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: updating daily report aggregates: %v", ErrDatabaseError, err)
	}
	return rows, nil
}

func (r *dailyReportRepository) RecordCashCount(date time.Time, counted float64) (int64, error) {
	// The difference is derived inside the statement from the stored opening
	// balance and the cash-tagged payment total, so count and difference can
	// never drift apart.
	query := `UPDATE daily_reports
	             SET closing_balance = $2,
	                 difference = $2 - (opening_balance + COALESCE((
	                     SELECT SUM((pm->>'amount')::double precision)
	                       FROM jsonb_array_elements(payment_methods) AS pm
	                      WHERE pm->>'method' = 'cash'), 0)),
	                 updated_at = NOW()
	           WHERE report_date = $1 AND closed = FALSE`

	res, err := r.db.Exec(query, date, counted)
	if err != nil {
		return 0, fmt.Errorf("%w: recording cash count: %v", ErrDatabaseError, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: recording cash count: %v", ErrDatabaseError, err)
	}
	return rows, nil
}

func (r *dailyReportRepository) Close(date time.Time, closedBy *string) (int64, error) {
	query := `UPDATE daily_reports
	             SET closed = TRUE, closed_by = $2, updated_at = NOW()
	           WHERE report_date = $1 AND closed = FALSE AND closing_balance IS NOT NULL`

	res, err := r.db.Exec(query, date, closedBy)
	if err != nil {
		return 0, fmt.Errorf("%w: closing daily report: %v", ErrDatabaseError, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: closing daily report: %v", ErrDatabaseError, err)
	}
	return rows, nil
}

func (r *dailyReportRepository) GetByMonth(year int, month time.Month) ([]models.DailyReport, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	query := `SELECT ` + dailyReportColumns + `
	            FROM daily_reports
	           WHERE report_date >= $1 AND report_date < $2
	           ORDER BY report_date ASC`

	rows, err := r.db.Query(query, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: getting daily reports for %04d-%02d: %v", ErrDatabaseError, year, int(month), err)
	}
	defer rows.Close()

	reports := []models.DailyReport{}
	for rows.Next() {
		report, err := scanDailyReport(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning daily report row: %v", ErrDatabaseError, err)
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating daily report rows: %v", ErrDatabaseError, err)
	}
	return reports, nil
}

// scanner is an interface satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDailyReport(row scanner) (*models.DailyReport, error) {
	report := &models.DailyReport{}
	var (
		categories     []byte
		paymentMethods []byte
		expenseItems   []byte
		closingBalance sql.NullFloat64
		difference     sql.NullFloat64
		closedBy       sql.NullString
	)

	err := row.Scan(
		&report.Date, &report.Closed,
		&report.Sales.TotalSales, &report.Sales.ItemsSold, &report.Sales.OrderCount,
		&report.Sales.AverageOrderValue, &categories, &paymentMethods,
		&report.Expenses.Total, &expenseItems,
		&report.Cash.OpeningBalance, &closingBalance, &difference, &closedBy,
		&report.CreatedAt, &report.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(categories, &report.Sales.Categories); err != nil {
		return nil, fmt.Errorf("decoding categories: %w", err)
	}
	if err := json.Unmarshal(paymentMethods, &report.Sales.PaymentMethods); err != nil {
		return nil, fmt.Errorf("decoding payment methods: %w", err)
	}
	if err := json.Unmarshal(expenseItems, &report.Expenses.Items); err != nil {
		return nil, fmt.Errorf("decoding expense items: %w", err)
	}

	if closingBalance.Valid {
		report.Cash.ClosingBalance = &closingBalance.Float64
	}
	if difference.Valid {
		report.Cash.Difference = &difference.Float64
	}
	if closedBy.Valid {
		report.ClosedBy = &closedBy.String
	}
	return report, nil
}

func marshalAggregates(sales models.SalesData, expenses models.ExpensesData) ([]byte, []byte, []byte, error) {
	if sales.Categories == nil {
		sales.Categories = []models.CategorySales{}
	}
	if sales.PaymentMethods == nil {
		sales.PaymentMethods = []models.PaymentMethodSales{}
	}
	if expenses.Items == nil {
		expenses.Items = []models.ExpenseItem{}
	}

	categories, err := json.Marshal(sales.Categories)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("encoding categories: %w", err)
	}
	paymentMethods, err := json.Marshal(sales.PaymentMethods)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("encoding payment methods: %w", err)
	}
	expenseItems, err := json.Marshal(expenses.Items)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("encoding expense items: %w", err)
	}
	return categories, paymentMethods, expenseItems, nil
}
