package store

import (
	"context"
	"time"

	"sales-service/internal/models"
)

// QueryOrders retrieves orders with order_date in [start, end), customer
// resolved via LEFT JOIN so orders whose customer was deleted still appear.
func (s *Store) QueryOrders(ctx context.Context, start, end time.Time) ([]models.ReportOrder, error) {
	var orders []models.ReportOrder
	query := `
		SELECT o.*, c.first_name || ' ' || c.last_name AS customer_name, c.company_name
		FROM orders o
		LEFT JOIN customers c ON o.customer_id = c.id
		WHERE o.order_date >= $1 AND o.order_date < $2
		ORDER BY o.order_date DESC`

	err := s.db.SelectContext(ctx, &orders, query, start, end)
	return orders, err
}

// QueryOrderLines retrieves order lines for orders in [start, end). Products
// are joined LEFT so the aggregator decides how to treat deleted ones.
func (s *Store) QueryOrderLines(ctx context.Context, start, end time.Time) ([]models.ReportLine, error) {
	var lines []models.ReportLine
	query := `
		SELECT l.order_id, l.product_id, l.quantity, l.line_total,
			p.name AS product_name, p.code AS product_code
		FROM order_lines l
		INNER JOIN orders o ON l.order_id = o.id
		LEFT JOIN products p ON l.product_id = p.id
		WHERE o.order_date >= $1 AND o.order_date < $2`

	err := s.db.SelectContext(ctx, &lines, query, start, end)
	return lines, err
}
