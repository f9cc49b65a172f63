package services

import (
	"fmt"
	"strings"

	"hospoda_backend/internal/models"
)

// Order status constants shared with the order-taking surface.
const (
	OrderStatusActive    = "active"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Payment method constants. These are the only values the order model allows.
const (
	PaymentMethodCash = "cash"
	PaymentMethodCard = "card"
)

// Menu categories form a closed set; anything outside it lands in the
// designated fallback bucket instead of being silently dropped.
const (
	CategoryMainDishes      = "Main Dishes"
	CategoryStarters        = "Starters"
	CategorySoups           = "Soups"
	CategoryDesserts        = "Desserts"
	CategoryDrinks          = "Drinks"
	CategoryAlcoholicDrinks = "Alcoholic Drinks"
	CategoryUncategorized   = "Uncategorized"
)

var menuCategories = map[string]struct{}{
	CategoryMainDishes:      {},
	CategoryStarters:        {},
	CategorySoups:           {},
	CategoryDesserts:        {},
	CategoryDrinks:          {},
	CategoryAlcoholicDrinks: {},
}

// normalizeCategory validates a line-item category against the closed menu
// category set and maps everything else to the fallback bucket.
func normalizeCategory(name string) string {
	name = strings.TrimSpace(name)
	if _, ok := menuCategories[name]; ok {
		return name
	}
	return CategoryUncategorized
}

// AggregateSales reduces a day's completed orders into the sales aggregate of
// the daily report. It is a pure function of its input.
//
// Each order's total is computed as the sum of its line totals and that same
// value feeds both the category and the payment-method partition, so
// TotalSales always equals the sum of either partition. Orders without line
// items contribute nothing and are not counted.
func AggregateSales(orders []models.Order) (models.SalesData, error) {
	sales := models.SalesData{
		Categories:     []models.CategorySales{},
		PaymentMethods: []models.PaymentMethodSales{},
	}

	categoryIdx := map[string]int{}
	methodIdx := map[string]int{}

	for _, order := range orders {
		if len(order.Items) == 0 {
			continue
		}

		method := ""
		if order.PaymentMethod != nil {
			method = strings.TrimSpace(*order.PaymentMethod)
		}
		if method != PaymentMethodCash && method != PaymentMethodCard {
			return models.SalesData{}, fmt.Errorf(
				"%w: order %d has missing or unknown payment method %q", ErrValidation, order.ID, method)
		}

		var orderTotal float64
		for _, item := range order.Items {
			if item.Quantity <= 0 {
				return models.SalesData{}, fmt.Errorf(
					"%w: order %d item %q has non-positive quantity %d", ErrValidation, order.ID, item.Name, item.Quantity)
			}
			if item.UnitPrice < 0 {
				return models.SalesData{}, fmt.Errorf(
					"%w: order %d item %q has negative price", ErrValidation, order.ID, item.Name)
			}

			lineTotal := item.UnitPrice * float64(item.Quantity)
			orderTotal += lineTotal
			sales.ItemsSold += item.Quantity

			category := normalizeCategory(item.Category)
			if i, ok := categoryIdx[category]; ok {
				sales.Categories[i].Amount += lineTotal
			} else {
				categoryIdx[category] = len(sales.Categories)
				sales.Categories = append(sales.Categories, models.CategorySales{Name: category, Amount: lineTotal})
			}
		}

		sales.TotalSales += orderTotal
		sales.OrderCount++

		if i, ok := methodIdx[method]; ok {
			sales.PaymentMethods[i].Amount += orderTotal
		} else {
			methodIdx[method] = len(sales.PaymentMethods)
			sales.PaymentMethods = append(sales.PaymentMethods, models.PaymentMethodSales{Method: method, Amount: orderTotal})
		}
	}

	if sales.OrderCount > 0 {
		sales.AverageOrderValue = sales.TotalSales / float64(sales.OrderCount)
	}
	return sales, nil
}

// AggregateExpenses reduces a day's expense entries into the expense
// aggregate of the daily report, preserving entry order.
func AggregateExpenses(entries []models.ExpenseEntry) models.ExpensesData {
	expenses := models.ExpensesData{Items: []models.ExpenseItem{}}
	for _, entry := range entries {
		expenses.Items = append(expenses.Items, models.ExpenseItem{Name: entry.Name, Amount: entry.Amount})
		expenses.Total += entry.Amount
	}
	return expenses
}

// ExpectedBalance computes the cash drawer balance the operator should find
// at close: the opening balance plus the cash-tagged sales of the day.
func ExpectedBalance(openingBalance float64, paymentMethods []models.PaymentMethodSales) float64 {
	expected := openingBalance
	for _, pm := range paymentMethods {
		if pm.Method == PaymentMethodCash {
			expected += pm.Amount
		}
	}
	return expected
}
