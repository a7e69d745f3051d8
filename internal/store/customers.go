package store

import (
	"context"
	"database/sql"
	"fmt"

	"sales-service/internal/models"

	"github.com/shopspring/decimal"
)

// CustomerFilter narrows and orders the customer list.
type CustomerFilter struct {
	Search string
	Status *int
	SortBy string
}

// ListCustomers retrieves customers with per-customer order statistics.
// Orders referencing deleted customers are invisible here; only the report
// path surfaces them.
func (s *Store) ListCustomers(ctx context.Context, filter CustomerFilter) ([]models.Customer, error) {
	query := `
		SELECT c.*,
			(SELECT COUNT(*) FROM orders WHERE customer_id = c.id) AS order_count,
			(SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE customer_id = c.id) AS total_spent
		FROM customers c
		WHERE 1=1`
	args := []interface{}{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		p := fmt.Sprintf("$%d", len(args))
		query += fmt.Sprintf(
			" AND (c.first_name ILIKE %s OR c.last_name ILIKE %s OR c.company_name ILIKE %s OR c.email ILIKE %s OR c.phone ILIKE %s)",
			p, p, p, p, p)
	}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND c.status = $%d", len(args))
	}

	switch filter.SortBy {
	case "name":
		query += " ORDER BY c.last_name, c.first_name"
	case "company":
		query += " ORDER BY c.company_name"
	case "spent":
		query += " ORDER BY total_spent DESC"
	case "orders":
		query += " ORDER BY order_count DESC"
	default:
		// newest first
		query += " ORDER BY c.id DESC"
	}

	var customers []models.Customer
	err := s.db.SelectContext(ctx, &customers, query, args...)
	return customers, err
}

// GetCustomerByID retrieves a customer by ID
func (s *Store) GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.GetContext(ctx, &customer, "SELECT * FROM customers WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetCustomerCredit retrieves only the credit limit for a customer
func (s *Store) GetCustomerCredit(ctx context.Context, id int64) (decimal.Decimal, error) {
	var credit decimal.Decimal
	err := s.db.GetContext(ctx, &credit, "SELECT credit_limit FROM customers WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return decimal.Zero, fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return decimal.Zero, err
	}
	return credit, nil
}

// InsertCustomer creates a new customer and fills in its ID and timestamp
func (s *Store) InsertCustomer(ctx context.Context, c *models.Customer) error {
	query := `
		INSERT INTO customers
			(first_name, last_name, email, phone, company_name, city, state, zip_code, credit_limit, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, c, query,
		c.FirstName, c.LastName, c.Email, c.Phone, c.CompanyName,
		c.City, c.State, c.ZipCode, c.CreditLimit, c.Status, c.Notes)
}

// UpdateCustomer updates an existing customer
func (s *Store) UpdateCustomer(ctx context.Context, c *models.Customer) error {
	query := `
		UPDATE customers SET
			first_name = $1, last_name = $2, email = $3, phone = $4,
			company_name = $5, city = $6, state = $7, zip_code = $8,
			credit_limit = $9, status = $10, notes = $11
		WHERE id = $12`

	res, err := s.db.ExecContext(ctx, query,
		c.FirstName, c.LastName, c.Email, c.Phone, c.CompanyName,
		c.City, c.State, c.ZipCode, c.CreditLimit, c.Status, c.Notes, c.ID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("customer %d: %w", c.ID, ErrNotFound)
	}
	return nil
}

// DeleteCustomer removes a customer. Orders referencing the customer are left
// in place; the report path resolves them with a placeholder name.
func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	return nil
}
