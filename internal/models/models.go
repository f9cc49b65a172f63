package models

import "time"

// MenuItem is a sellable item on the menu. Menu management itself lives in a
// separate surface; the accounting core only reads the category assignment.
type MenuItem struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OrderItem is a single line of an order. Name, category and unit price are
// denormalized from the menu item at query time so that aggregation sees the
// values that were actually sold.
type OrderItem struct {
	ID         int64   `json:"id"`
	OrderID    int64   `json:"orderId"`
	MenuItemID int64   `json:"menuItemId"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	UnitPrice  float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

// Order is a table order. Orders are written by the order-taking surface;
// the accounting core consumes completed orders only.
type Order struct {
	ID            int64       `json:"id"`
	TableName     string      `json:"table"`
	Status        string      `json:"status"`
	TotalPrice    float64     `json:"totalPrice"`
	PaymentMethod *string     `json:"paymentMethod,omitempty"`
	Notes         *string     `json:"notes,omitempty"`
	PaidAt        *time.Time  `json:"paidAt,omitempty"`
	Items         []OrderItem `json:"items"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// ExpenseEntry is a logged cash expense for a given day (ingredients,
// overhead, ...). Entries feed the expense aggregate of the daily report.
type ExpenseEntry struct {
	ID        int64     `json:"id"`
	Date      time.Time `json:"date"`
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}
