package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"hospoda_backend/internal/models"
)

// OrderRepository exposes the read side of the order data that accounting
// consumes. Order taking itself is handled by a separate surface.
type OrderRepository interface {
	// GetCompletedOrdersByDate returns the orders paid on the given calendar
	// date, with line items carrying the category joined from the menu.
	GetCompletedOrdersByDate(date time.Time) ([]models.Order, error)
	CountActiveOrders() (int, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) GetCompletedOrdersByDate(date time.Time) ([]models.Order, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := `SELECT id, table_name, status, total_price, payment_method, notes, paid_at,
	                 created_at, updated_at
	            FROM orders
	           WHERE status = 'completed' AND paid_at >= $1 AND paid_at < $2
	           ORDER BY paid_at ASC, id ASC`

	rows, err := r.db.Query(query, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: getting completed orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	orders := []models.Order{}
	index := map[int64]int{}
	for rows.Next() {
		var order models.Order
		var paymentMethod, notes sql.NullString
		var paidAt sql.NullTime
		if err := rows.Scan(
			&order.ID, &order.TableName, &order.Status, &order.TotalPrice,
			&paymentMethod, &notes, &paidAt, &order.CreatedAt, &order.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning order row: %v", ErrDatabaseError, err)
		}
		if paymentMethod.Valid {
			order.PaymentMethod = &paymentMethod.String
		}
		if notes.Valid {
			order.Notes = &notes.String
		}
		if paidAt.Valid {
			order.PaidAt = &paidAt.Time
		}
		order.Items = []models.OrderItem{}
		index[order.ID] = len(orders)
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order rows: %v", ErrDatabaseError, err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	// Second pass picks up the line items for the same window, with the
	// category denormalized from the menu. Items whose menu item has been
	// deleted keep an empty category; aggregation buckets those explicitly.
	itemsQuery := `SELECT oi.id, oi.order_id, oi.menu_item_id, oi.name, COALESCE(mi.category, ''),
	                      oi.unit_price, oi.quantity
	                 FROM order_items oi
	                 JOIN orders o ON oi.order_id = o.id
	                 LEFT JOIN menu_items mi ON oi.menu_item_id = mi.id
	                WHERE o.status = 'completed' AND o.paid_at >= $1 AND o.paid_at < $2
	                ORDER BY oi.order_id ASC, oi.id ASC`

	itemRows, err := r.db.Query(itemsQuery, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: getting order items: %v", ErrDatabaseError, err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item models.OrderItem
		if err := itemRows.Scan(
			&item.ID, &item.OrderID, &item.MenuItemID, &item.Name,
			&item.Category, &item.UnitPrice, &item.Quantity,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning order item row: %v", ErrDatabaseError, err)
		}
		if i, ok := index[item.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order item rows: %v", ErrDatabaseError, err)
	}
	return orders, nil
}

func (r *orderRepository) CountActiveOrders() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM orders WHERE status = 'active'`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting active orders: %v", ErrDatabaseError, err)
	}
	return count, nil
}
