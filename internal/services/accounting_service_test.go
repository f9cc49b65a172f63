package services

import (
	"math"
	"sync"
	"testing"
	"time"

	"hospoda_backend/internal/models"
	"hospoda_backend/internal/repositories"
	"hospoda_backend/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- In-memory fakes -------------------------------------------------------
//
// The fakes mirror the conditional-update semantics of the Postgres
// repository: every mutation is guarded by (date exists, closed = FALSE)
// under a single lock, so racing writers serialize exactly like they do on
// the database row.

type fakeReportRepo struct {
	mu      sync.Mutex
	reports map[string]*models.DailyReport
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: map[string]*models.DailyReport{}}
}

func dateKey(t time.Time) string { return utils.FormatReportDate(t) }

func cloneReport(r *models.DailyReport) *models.DailyReport {
	clone := *r
	clone.Sales.Categories = append([]models.CategorySales{}, r.Sales.Categories...)
	clone.Sales.PaymentMethods = append([]models.PaymentMethodSales{}, r.Sales.PaymentMethods...)
	clone.Expenses.Items = append([]models.ExpenseItem{}, r.Expenses.Items...)
	if r.Cash.ClosingBalance != nil {
		v := *r.Cash.ClosingBalance
		clone.Cash.ClosingBalance = &v
	}
	if r.Cash.Difference != nil {
		v := *r.Cash.Difference
		clone.Cash.Difference = &v
	}
	if r.ClosedBy != nil {
		v := *r.ClosedBy
		clone.ClosedBy = &v
	}
	return &clone
}

func (f *fakeReportRepo) GetByDate(date time.Time) (*models.DailyReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	report, ok := f.reports[dateKey(date)]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneReport(report), nil
}

func (f *fakeReportRepo) CreateIfAbsent(report *models.DailyReport) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := dateKey(report.Date)
	if _, ok := f.reports[key]; ok {
		return false, nil
	}
	stored := cloneReport(report)
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	f.reports[key] = stored
	return true, nil
}

func (f *fakeReportRepo) UpdateAggregates(date time.Time, sales models.SalesData, expenses models.ExpensesData) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	report, ok := f.reports[dateKey(date)]
	if !ok || report.Closed {
		return 0, nil
	}
	report.Sales = sales
	report.Expenses = expenses
	report.UpdatedAt = time.Now().UTC()
	return 1, nil
}

func (f *fakeReportRepo) RecordCashCount(date time.Time, counted float64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	report, ok := f.reports[dateKey(date)]
	if !ok || report.Closed {
		return 0, nil
	}
	difference := counted - ExpectedBalance(report.Cash.OpeningBalance, report.Sales.PaymentMethods)
	report.Cash.ClosingBalance = &counted
	report.Cash.Difference = &difference
	report.UpdatedAt = time.Now().UTC()
	return 1, nil
}

func (f *fakeReportRepo) Close(date time.Time, closedBy *string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	report, ok := f.reports[dateKey(date)]
	if !ok || report.Closed || report.Cash.ClosingBalance == nil {
		return 0, nil
	}
	report.Closed = true
	report.ClosedBy = closedBy
	report.UpdatedAt = time.Now().UTC()
	return 1, nil
}

func (f *fakeReportRepo) GetByMonth(year int, month time.Month) ([]models.DailyReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reports := []models.DailyReport{}
	for day := 1; day <= 31; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		if date.Month() != month {
			break
		}
		if report, ok := f.reports[dateKey(date)]; ok {
			reports = append(reports, *cloneReport(report))
		}
	}
	return reports, nil
}

type fakeOrderRepo struct {
	orders      []models.Order
	activeCount int
}

func (f *fakeOrderRepo) GetCompletedOrdersByDate(time.Time) ([]models.Order, error) {
	return f.orders, nil
}

func (f *fakeOrderRepo) CountActiveOrders() (int, error) {
	return f.activeCount, nil
}

type fakeExpenseRepo struct {
	entries []models.ExpenseEntry
}

func (f *fakeExpenseRepo) Create(entry *models.ExpenseEntry) (int64, error) {
	entry.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, *entry)
	return entry.ID, nil
}

func (f *fakeExpenseRepo) GetByDate(time.Time) ([]models.ExpenseEntry, error) {
	return f.entries, nil
}

func (f *fakeExpenseRepo) TotalByDate(time.Time) (float64, error) {
	var total float64
	for _, e := range f.entries {
		total += e.Amount
	}
	return total, nil
}

func newTestService() (AccountingService, *fakeReportRepo) {
	reportRepo := newFakeReportRepo()
	orderRepo := &fakeOrderRepo{orders: sampleOrders()}
	expenseRepo := &fakeExpenseRepo{entries: []models.ExpenseEntry{
		{ID: 1, Name: "Ingredients", Amount: 2500},
		{ID: 2, Name: "Overhead", Amount: 700},
	}}
	return NewAccountingService(reportRepo, orderRepo, expenseRepo), reportRepo
}

// --- Tests -----------------------------------------------------------------

const testDate = "2025-03-14"

func TestCreateOrGetReportIsIdempotent(t *testing.T) {
	service, _ := newTestService()

	report, err := service.CreateOrGetReport(testDate, 5000)
	require.NoError(t, err)
	assert.False(t, report.Closed)
	assert.Equal(t, 5000.0, report.Cash.OpeningBalance)
	assert.Nil(t, report.Cash.ClosingBalance)
	assert.Nil(t, report.Cash.Difference)

	// A second open for the same date returns the stored report and never
	// overwrites its opening balance.
	again, err := service.CreateOrGetReport(testDate, 9999)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, again.Cash.OpeningBalance)
}

func TestCreateOrGetReportValidation(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateOrGetReport("14.03.2025", 5000)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.CreateOrGetReport(testDate, -1)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.CreateOrGetReport(testDate, math.NaN())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetReportNotFound(t *testing.T) {
	service, _ := newTestService()
	_, err := service.GetReport(testDate)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestDailyCloseFlow(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateOrGetReport(testDate, 5000)
	require.NoError(t, err)

	report, err := service.RefreshAggregates(testDate)
	require.NoError(t, err)
	assert.InDelta(t, 15670, report.Sales.TotalSales, 1e-9)
	assert.InDelta(t, 3200, report.Expenses.Total, 1e-9)

	// Opening 5000 + cash sales 9402 = expected 14402; the operator counts
	// 14300, leaving the drawer 102 short.
	report, err = service.RecordCashCount(testDate, 14300)
	require.NoError(t, err)
	require.NotNil(t, report.Cash.ClosingBalance)
	require.NotNil(t, report.Cash.Difference)
	assert.InDelta(t, 14300, *report.Cash.ClosingBalance, 1e-9)
	assert.InDelta(t, -102, *report.Cash.Difference, 1e-9)

	operator := "jnovak"
	report, err = service.CloseReport(testDate, &operator)
	require.NoError(t, err)
	assert.True(t, report.Closed)
	require.NotNil(t, report.ClosedBy)
	assert.Equal(t, "jnovak", *report.ClosedBy)
}

func TestRecordCashCountIsRepeatableWhileOpen(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateOrGetReport(testDate, 5000)
	require.NoError(t, err)
	_, err = service.RefreshAggregates(testDate)
	require.NoError(t, err)

	report, err := service.RecordCashCount(testDate, 14000)
	require.NoError(t, err)
	assert.InDelta(t, -402, *report.Cash.Difference, 1e-9)

	// A later recount overwrites the draft value.
	report, err = service.RecordCashCount(testDate, 14402)
	require.NoError(t, err)
	assert.InDelta(t, 14402, *report.Cash.ClosingBalance, 1e-9)
	assert.InDelta(t, 0, *report.Cash.Difference, 1e-9)
}

func TestRecordCashCountAllowsZero(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateOrGetReport(testDate, 0)
	require.NoError(t, err)

	// A counted zero is a legitimate entry, distinct from "not entered".
	report, err := service.RecordCashCount(testDate, 0)
	require.NoError(t, err)
	require.NotNil(t, report.Cash.ClosingBalance)
	assert.Zero(t, *report.Cash.ClosingBalance)

	_, err = service.CloseReport(testDate, nil)
	require.NoError(t, err)
}

func TestRecordCashCountValidation(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateOrGetReport(testDate, 5000)
	require.NoError(t, err)

	for _, counted := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err = service.RecordCashCount(testDate, counted)
		assert.ErrorIs(t, err, ErrValidation)
	}

	_, err = service.RecordCashCount("2025-99-99", 100)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCloseReportRequiresCashCount(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateOrGetReport(testDate, 5000)
	require.NoError(t, err)

	_, err = service.CloseReport(testDate, nil)
	assert.ErrorIs(t, err, ErrMissingCashCount)

	report, err := service.GetReport(testDate)
	require.NoError(t, err)
	assert.False(t, report.Closed, "failed close must leave the report open")
}

func TestCloseReportNotFound(t *testing.T) {
	service, _ := newTestService()
	_, err := service.CloseReport(testDate, nil)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestClosedReportIsImmutable(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateOrGetReport(testDate, 5000)
	require.NoError(t, err)
	_, err = service.RefreshAggregates(testDate)
	require.NoError(t, err)
	_, err = service.RecordCashCount(testDate, 14300)
	require.NoError(t, err)
	_, err = service.CloseReport(testDate, nil)
	require.NoError(t, err)

	snapshot, err := service.GetReport(testDate)
	require.NoError(t, err)

	_, err = service.RecordCashCount(testDate, 99999)
	assert.ErrorIs(t, err, ErrReportClosed)

	_, err = service.RefreshAggregates(testDate)
	assert.ErrorIs(t, err, ErrReportClosed)

	_, err = service.CloseReport(testDate, nil)
	assert.ErrorIs(t, err, ErrReportClosed)

	after, err := service.GetReport(testDate)
	require.NoError(t, err)
	assert.Equal(t, snapshot, after, "rejected mutations must not change the report")
}

func TestConcurrentCloseExactlyOneSucceeds(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateOrGetReport(testDate, 5000)
	require.NoError(t, err)
	_, err = service.RefreshAggregates(testDate)
	require.NoError(t, err)
	_, err = service.RecordCashCount(testDate, 14300)
	require.NoError(t, err)

	const attempts = 8
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.CloseReport(testDate, nil)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, conflicted int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, ErrReportClosed):
			conflicted++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent close may succeed")
	assert.Equal(t, attempts-1, conflicted)
}

func TestGetMonthlyReport(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateOrGetReport("2025-03-14", 5000)
	require.NoError(t, err)
	_, err = service.RefreshAggregates("2025-03-14")
	require.NoError(t, err)

	monthly, err := service.GetMonthlyReport("2025-03")
	require.NoError(t, err)

	assert.Equal(t, "2025-03", monthly.Month)
	require.Len(t, monthly.DailyData, 31)

	day14 := monthly.DailyData[13]
	assert.Equal(t, 14, day14.Day)
	assert.Equal(t, "2025-03-14", day14.Date)
	assert.InDelta(t, 15670, day14.Sales, 1e-9)
	assert.InDelta(t, 3200, day14.Expenses, 1e-9)
	assert.InDelta(t, 12470, day14.Profit, 1e-9)

	// Days without a report stay zeroed.
	assert.Zero(t, monthly.DailyData[0].Sales)

	summary := monthly.Summary
	assert.InDelta(t, 15670, summary.TotalSales, 1e-9)
	assert.InDelta(t, 3200, summary.TotalExpenses, 1e-9)
	assert.InDelta(t, 12470, summary.Profit, 1e-9)
	assert.InDelta(t, 12470.0/15670.0*100, summary.ProfitMargin, 1e-9)
	assert.InDelta(t, 15670.0/31.0, summary.AverageDailySales, 1e-9)
	assert.InDelta(t, 15670*utils.DefaultVATRate, summary.VAT.VATAmount, 1e-9)

	_, err = service.GetMonthlyReport("March 2025")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetMonthlyReportEmptyMonth(t *testing.T) {
	service, _ := newTestService()

	monthly, err := service.GetMonthlyReport("2025-02")
	require.NoError(t, err)
	require.Len(t, monthly.DailyData, 28)
	assert.Zero(t, monthly.Summary.TotalSales)
	assert.Zero(t, monthly.Summary.ProfitMargin, "no sales must not divide by zero")
}

func TestGetDashboardSummary(t *testing.T) {
	reportRepo := newFakeReportRepo()
	orderRepo := &fakeOrderRepo{orders: sampleOrders(), activeCount: 3}
	expenseRepo := &fakeExpenseRepo{entries: []models.ExpenseEntry{{Name: "Ingredients", Amount: 2500}}}
	service := NewAccountingService(reportRepo, orderRepo, expenseRepo)

	// No report opened yet: sales fall back to a live aggregation.
	summary, err := service.GetDashboardSummary()
	require.NoError(t, err)
	assert.Equal(t, "none", summary.ReportStatus)
	assert.InDelta(t, 15670, summary.TodaySales, 1e-9)
	assert.InDelta(t, 2500, summary.TodayExpenses, 1e-9)
	assert.Equal(t, 3, summary.ActiveOrdersCount)

	today := utils.FormatReportDate(time.Now().UTC())
	_, err = service.CreateOrGetReport(today, 5000)
	require.NoError(t, err)

	summary, err = service.GetDashboardSummary()
	require.NoError(t, err)
	assert.Equal(t, "open", summary.ReportStatus)
}
