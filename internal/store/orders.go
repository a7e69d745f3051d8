package store

import (
	"context"
	"database/sql"
	"fmt"

	"sales-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// CreateOrder persists an order atomically: header, line items, per-product
// stock decrements, and the final totals all commit or roll back together.
// A failure mid-way never leaves a header without its totals.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order, lines []*models.OrderLine) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertOrder(ctx, tx, order); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for _, line := range lines {
		line.OrderID = order.ID
		if err := insertOrderLine(ctx, tx, line); err != nil {
			return fmt.Errorf("failed to insert order line: %w", err)
		}
		if err := decrementStock(ctx, tx, line.ProductID, line.Quantity); err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}
	}

	if err := updateOrderTotals(ctx, tx, order); err != nil {
		return fmt.Errorf("failed to update order totals: %w", err)
	}

	return tx.Commit()
}

func insertOrder(ctx context.Context, tx *sqlx.Tx, order *models.Order) error {
	query := `
		INSERT INTO orders (customer_id, status, shipping_address, notes, discount_pct, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, order_date`

	return tx.GetContext(ctx, order, query,
		order.CustomerID, order.Status, order.ShippingAddress,
		order.Notes, order.DiscountPct, order.CreatedBy)
}

func insertOrderLine(ctx context.Context, tx *sqlx.Tx, line *models.OrderLine) error {
	query := `
		INSERT INTO order_lines (order_id, product_id, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	return tx.GetContext(ctx, &line.ID, query,
		line.OrderID, line.ProductID, line.Quantity, line.UnitPrice, line.LineTotal)
}

// decrementStock is an unconditional single-statement decrement. There is no
// availability check and no floor: stock can and does go negative.
func decrementStock(ctx context.Context, tx *sqlx.Tx, productID int64, quantity int) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE products SET stock_qty = stock_qty - $1 WHERE id = $2",
		quantity, productID)
	return err
}

func updateOrderTotals(ctx context.Context, tx *sqlx.Tx, order *models.Order) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE orders SET subtotal = $1, tax_amount = $2, total_amount = $3 WHERE id = $4",
		order.Subtotal, order.TaxAmount, order.TotalAmount, order.ID)
	return err
}

// GetOrderByID retrieves an order header with its customer resolved
// best-effort (NULL name fields when the customer was deleted)
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.ReportOrder, error) {
	var order models.ReportOrder
	query := `
		SELECT o.*, c.first_name || ' ' || c.last_name AS customer_name, c.company_name
		FROM orders o
		LEFT JOIN customers c ON o.customer_id = c.id
		WHERE o.id = $1`

	err := s.db.GetContext(ctx, &order, query, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderLines retrieves all line items for an order with product names
// resolved best-effort
func (s *Store) GetOrderLines(ctx context.Context, orderID int64) ([]models.OrderLineDetail, error) {
	var lines []models.OrderLineDetail
	query := `
		SELECT l.*, p.name AS product_name, p.code AS product_code
		FROM order_lines l
		LEFT JOIN products p ON l.product_id = p.id
		WHERE l.order_id = $1
		ORDER BY l.id`

	err := s.db.SelectContext(ctx, &lines, query, orderID)
	return lines, err
}
