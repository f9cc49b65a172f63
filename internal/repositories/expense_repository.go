package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"hospoda_backend/internal/models"
)

// ExpenseRepository persists the daily expense log feeding the expense
// aggregate of the daily report.
type ExpenseRepository interface {
	Create(entry *models.ExpenseEntry) (int64, error)
	GetByDate(date time.Time) ([]models.ExpenseEntry, error)
	TotalByDate(date time.Time) (float64, error)
}

type expenseRepository struct {
	db *sql.DB
}

// NewExpenseRepository creates a new instance of ExpenseRepository.
func NewExpenseRepository(db *sql.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(entry *models.ExpenseEntry) (int64, error) {
	query := `INSERT INTO expenses (expense_date, name, amount, created_at)
	          VALUES ($1, $2, $3, NOW())
	          RETURNING id, created_at`

	err := r.db.QueryRow(query, entry.Date, entry.Name, entry.Amount).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("%w: creating expense entry: %v", ErrDatabaseError, err)
	}
	return entry.ID, nil
}

func (r *expenseRepository) GetByDate(date time.Time) ([]models.ExpenseEntry, error) {
	query := `SELECT id, expense_date, name, amount, created_at
	            FROM expenses
	           WHERE expense_date = $1
	           ORDER BY id ASC`

	rows, err := r.db.Query(query, date)
	if err != nil {
		return nil, fmt.Errorf("%w: getting expenses: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	entries := []models.ExpenseEntry{}
	for rows.Next() {
		var entry models.ExpenseEntry
		if err := rows.Scan(&entry.ID, &entry.Date, &entry.Name, &entry.Amount, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning expense row: %v", ErrDatabaseError, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating expense rows: %v", ErrDatabaseError, err)
	}
	return entries, nil
}

func (r *expenseRepository) TotalByDate(date time.Time) (float64, error) {
	var total float64
	err := r.db.QueryRow(
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE expense_date = $1`, date,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("%w: totaling expenses: %v", ErrDatabaseError, err)
	}
	return total, nil
}
