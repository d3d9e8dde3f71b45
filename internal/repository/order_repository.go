package repository

import (
	"context"
	"database/sql"
	"errors"

	"bakery-backoffice/internal/entity"
)

// ErrNotFound is returned when a single-row lookup matches nothing.
var ErrNotFound = errors.New("record not found")

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, order_id, customer_first_name, customer_last_name, email, phone_number,
	order_date, due_pickup_date, due_pickup_time, special, status, total, order_type, order_taker,
	web_order_id, fulfillment_status, created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }, order *entity.Order) error {
	return row.Scan(&order.ID, &order.OrderID, &order.CustomerFirstName, &order.CustomerLastName,
		&order.Email, &order.PhoneNumber, &order.OrderDate, &order.DuePickupDate, &order.DuePickupTime,
		&order.Special, &order.Status, &order.Total, &order.OrderType, &order.OrderTaker,
		&order.WebOrderID, &order.FulfillmentStatus, &order.CreatedAt, &order.UpdatedAt)
}

// GetOrders returns the newest orders with their line items attached.
func (r *OrderRepository) GetOrders(ctx context.Context, limit int) ([]entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM customer_orders ORDER BY created_at DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]entity.Order, 0)
	for rows.Next() {
		order := entity.Order{}
		if err := scanOrder(rows, &order); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := r.allLineItems(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].LineItems = items[orders[i].OrderID]
	}
	return orders, nil
}

func (r *OrderRepository) allLineItems(ctx context.Context) (map[string][]entity.LineItem, error) {
	query := `SELECT id, order_id, line_item, type, size, color, writing_notes, cake_qty, unit_price, category, product_description
		FROM order_line_items ORDER BY order_id, line_item`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[string][]entity.LineItem)
	for rows.Next() {
		item := entity.LineItem{}
		err := rows.Scan(&item.ID, &item.OrderID, &item.LineItem, &item.Type, &item.Size, &item.Color,
			&item.WritingNotes, &item.CakeQty, &item.UnitPrice, &item.Category, &item.ProductDescription)
		if err != nil {
			return nil, err
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}
	return items, rows.Err()
}

// GetOrderByCode loads one order by its short code, with line items.
func (r *OrderRepository) GetOrderByCode(ctx context.Context, code string) (*entity.Order, error) {
	orderQuery := `SELECT ` + orderColumns + ` FROM customer_orders WHERE order_id = ?`
	itemQuery := `SELECT id, order_id, line_item, type, size, color, writing_notes, cake_qty, unit_price, category, product_description
		FROM order_line_items WHERE order_id = ? ORDER BY line_item`

	order := &entity.Order{}
	err := scanOrder(r.db.QueryRowContext(ctx, orderQuery, code), order)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, itemQuery, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item := entity.LineItem{}
		err := rows.Scan(&item.ID, &item.OrderID, &item.LineItem, &item.Type, &item.Size, &item.Color,
			&item.WritingNotes, &item.CakeQty, &item.UnitPrice, &item.Category, &item.ProductDescription)
		if err != nil {
			return nil, err
		}
		order.LineItems = append(order.LineItems, item)
	}
	return order, rows.Err()
}

// CreateOrder inserts the order and its line items in one transaction.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	orderQuery := `INSERT INTO customer_orders (order_id, customer_first_name, customer_last_name, email, phone_number,
		order_date, due_pickup_date, due_pickup_time, special, status, total, order_type, order_taker,
		web_order_id, fulfillment_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, orderQuery, order.OrderID, order.CustomerFirstName, order.CustomerLastName,
		order.Email, order.PhoneNumber, order.OrderDate, order.DuePickupDate, order.DuePickupTime,
		order.Special, order.Status, order.Total, order.OrderType, order.OrderTaker,
		order.WebOrderID, order.FulfillmentStatus)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if len(order.LineItems) > 0 {
		if err := insertLineItems(ctx, tx, order.OrderID, order.LineItems); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	order.ID = int(id)
	return order, nil
}

// batch insert, one statement for all items
func insertLineItems(ctx context.Context, tx *sql.Tx, orderCode string, items []entity.LineItem) error {
	itemQuery := `INSERT INTO order_line_items (order_id, line_item, type, size, color, writing_notes, cake_qty, unit_price, category, product_description)
		VALUES `

	var values []interface{}
	for _, item := range items {
		itemQuery += "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?),"
		values = append(values, orderCode, item.LineItem, item.Type, item.Size, item.Color,
			item.WritingNotes, item.CakeQty, item.UnitPrice, item.Category, item.ProductDescription)
	}
	itemQuery = itemQuery[:len(itemQuery)-1]

	_, err := tx.ExecContext(ctx, itemQuery, values...)
	return err
}

// UpdateOrder rewrites the editable order fields.
func (r *OrderRepository) UpdateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	query := `UPDATE customer_orders SET customer_first_name = ?, customer_last_name = ?, email = ?, phone_number = ?,
		due_pickup_date = ?, due_pickup_time = ?, special = ? WHERE order_id = ?`
	_, err := r.db.ExecContext(ctx, query, order.CustomerFirstName, order.CustomerLastName, order.Email,
		order.PhoneNumber, order.DuePickupDate, order.DuePickupTime, order.Special, order.OrderID)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateWebOrder rewrites the sync-owned columns of a web-ingested
// order; the back-office edit path never touches these.
func (r *OrderRepository) UpdateWebOrder(ctx context.Context, order *entity.Order) error {
	query := `UPDATE customer_orders SET customer_first_name = ?, customer_last_name = ?, email = ?, phone_number = ?,
		order_date = ?, due_pickup_date = ?, due_pickup_time = ?, special = ?, total = ?, fulfillment_status = ?, updated_at = ?
		WHERE order_id = ?`
	_, err := r.db.ExecContext(ctx, query, order.CustomerFirstName, order.CustomerLastName, order.Email,
		order.PhoneNumber, order.OrderDate, order.DuePickupDate, order.DuePickupTime, order.Special,
		order.Total, order.FulfillmentStatus, order.UpdatedAt, order.OrderID)
	return err
}

func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, code, status string) error {
	query := `UPDATE customer_orders SET status = ? WHERE order_id = ?`
	_, err := r.db.ExecContext(ctx, query, status, code)
	return err
}

func (r *OrderRepository) UpdateOrderTotal(ctx context.Context, code string, total float64) error {
	query := `UPDATE customer_orders SET total = ? WHERE order_id = ?`
	_, err := r.db.ExecContext(ctx, query, total, code)
	return err
}

// ReplaceLineItems swaps the order's line items for the given set in one
// transaction. Row ids are reissued; labels come from the caller.
func (r *OrderRepository) ReplaceLineItems(ctx context.Context, code string, items []entity.LineItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	deleteQuery := `DELETE FROM order_line_items WHERE order_id = ?`
	if _, err := tx.ExecContext(ctx, deleteQuery, code); err != nil {
		tx.Rollback()
		return err
	}

	if len(items) > 0 {
		if err := insertLineItems(ctx, tx, code, items); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// Dashboard counters.

func (r *OrderRepository) CountOrders(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customer_orders`).Scan(&count)
	return count, err
}

func (r *OrderRepository) CountOrdersByDate(ctx context.Context, date string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customer_orders WHERE order_date = ?`, date).Scan(&count)
	return count, err
}

func (r *OrderRepository) CountOrdersSince(ctx context.Context, date string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customer_orders WHERE order_date >= ?`, date).Scan(&count)
	return count, err
}

// RecentOrders returns the n newest orders without line items.
func (r *OrderRepository) RecentOrders(ctx context.Context, n int) ([]entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM customer_orders ORDER BY created_at DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]entity.Order, 0, n)
	for rows.Next() {
		order := entity.Order{}
		if err := scanOrder(rows, &order); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
