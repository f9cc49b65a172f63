package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func TestCreateExpense(t *testing.T) {
	repo := &fakeExpenseRepo{}
	service := NewExpenseService(repo)

	entry, err := service.CreateExpense(CreateExpenseRequest{
		Date:   testDate,
		Name:   "  Ingredients  ",
		Amount: floatPtr(2500),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.ID)
	assert.Equal(t, "Ingredients", entry.Name, "name is stored trimmed")
	assert.InDelta(t, 2500, entry.Amount, 1e-9)
}

func TestCreateExpenseValidation(t *testing.T) {
	service := NewExpenseService(&fakeExpenseRepo{})

	tests := []struct {
		name string
		req  CreateExpenseRequest
	}{
		{"bad date", CreateExpenseRequest{Date: "14.03.2025", Name: "Ingredients", Amount: floatPtr(100)}},
		{"blank name", CreateExpenseRequest{Date: testDate, Name: "   ", Amount: floatPtr(100)}},
		{"missing amount", CreateExpenseRequest{Date: testDate, Name: "Ingredients"}},
		{"zero amount", CreateExpenseRequest{Date: testDate, Name: "Ingredients", Amount: floatPtr(0)}},
		{"negative amount", CreateExpenseRequest{Date: testDate, Name: "Ingredients", Amount: floatPtr(-5)}},
		{"nan amount", CreateExpenseRequest{Date: testDate, Name: "Ingredients", Amount: floatPtr(math.NaN())}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateExpense(tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestGetExpensesByDate(t *testing.T) {
	repo := &fakeExpenseRepo{}
	service := NewExpenseService(repo)

	_, err := service.CreateExpense(CreateExpenseRequest{Date: testDate, Name: "Ingredients", Amount: floatPtr(2500)})
	require.NoError(t, err)
	_, err = service.CreateExpense(CreateExpenseRequest{Date: testDate, Name: "Overhead", Amount: floatPtr(700)})
	require.NoError(t, err)

	entries, err := service.GetExpensesByDate(testDate)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Ingredients", entries[0].Name)
	assert.Equal(t, "Overhead", entries[1].Name)

	_, err = service.GetExpensesByDate("not-a-date")
	assert.ErrorIs(t, err, ErrValidation)
}
