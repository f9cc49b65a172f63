package services

import (
	"fmt"
	"math"
	"strings"

	"hospoda_backend/internal/models"
	"hospoda_backend/internal/repositories"
	"hospoda_backend/pkg/utils"
)

// CreateExpenseRequest is used for logging a new expense entry.
type CreateExpenseRequest struct {
	Date   string   `json:"date" binding:"required"`
	Name   string   `json:"name" binding:"required"`
	Amount *float64 `json:"amount" binding:"required"`
}

// ExpenseService manages the daily expense log.
type ExpenseService interface {
	CreateExpense(req CreateExpenseRequest) (*models.ExpenseEntry, error)
	GetExpensesByDate(date string) ([]models.ExpenseEntry, error)
}

type expenseService struct {
	expenseRepo repositories.ExpenseRepository
}

// NewExpenseService creates a new instance of ExpenseService.
func NewExpenseService(er repositories.ExpenseRepository) ExpenseService {
	return &expenseService{expenseRepo: er}
}

func (s *expenseService) CreateExpense(req CreateExpenseRequest) (*models.ExpenseEntry, error) {
	day, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
	}
	if req.Amount == nil {
		return nil, fmt.Errorf("%w: amount is required", ErrValidation)
	}
	amount := *req.Amount
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be a positive finite number", ErrValidation)
	}

	entry := &models.ExpenseEntry{
		Date:   day,
		Name:   name,
		Amount: amount,
	}
	if _, err := s.expenseRepo.Create(entry); err != nil {
		return nil, fmt.Errorf("failed to create expense entry: %w", err)
	}

	utils.LogInfo("Expense entry logged", map[string]interface{}{
		"date":   req.Date,
		"name":   name,
		"amount": amount,
	})
	return entry, nil
}

func (s *expenseService) GetExpensesByDate(date string) ([]models.ExpenseEntry, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	entries, err := s.expenseRepo.GetByDate(day)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense entries: %w", err)
	}
	return entries, nil
}
