package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Customer statuses. The legacy schema stores these as integers.
const (
	CustomerStatusInactive  = 0
	CustomerStatusActive    = 1
	CustomerStatusSuspended = 2
)

// Customer represents a customer record
type Customer struct {
	ID          int64           `db:"id" json:"id"`
	FirstName   string          `db:"first_name" json:"first_name"`
	LastName    string          `db:"last_name" json:"last_name"`
	Email       string          `db:"email" json:"email"`
	Phone       string          `db:"phone" json:"phone"`
	CompanyName string          `db:"company_name" json:"company_name"`
	City        string          `db:"city" json:"city"`
	State       string          `db:"state" json:"state"`
	ZipCode     string          `db:"zip_code" json:"zip_code"`
	CreditLimit decimal.Decimal `db:"credit_limit" json:"credit_limit"`
	Status      int             `db:"status" json:"status"`
	Notes       string          `db:"notes" json:"notes"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`

	// Computed by the list query, not stored.
	OrderCount int             `db:"order_count" json:"order_count"`
	TotalSpent decimal.Decimal `db:"total_spent" json:"total_spent"`
}

// FullName returns the customer's display name
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// StatusText returns a human-readable customer status
func (c *Customer) StatusText() string {
	switch c.Status {
	case CustomerStatusActive:
		return "Active"
	case CustomerStatusInactive:
		return "Inactive"
	default:
		return "Suspended"
	}
}

// Product statuses
const (
	ProductStatusInactive = 0
	ProductStatusActive   = 1
)

// Product represents a product in the catalog
type Product struct {
	ID        int64           `db:"id" json:"id"`
	Code      string          `db:"code" json:"code"`
	Name      string          `db:"name" json:"name"`
	Category  string          `db:"category" json:"category"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
	StockQty  int             `db:"stock_qty" json:"stock_qty"`
	Status    int             `db:"status" json:"status"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// Order statuses. The column is free text, not an enum: historical rows carry
// values outside this list, including the misspelled "Procesing" that has been
// in the data since the Oracle days. Reports must group whatever is stored.
const (
	OrderStatusPending   = "Pending"
	OrderStatusApproved  = "Approved"
	OrderStatusShipped   = "Shipped"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"

	// OrderStatusLegacyProcessing is the historical typo. Do not fix the data.
	OrderStatusLegacyProcessing = "Procesing"
)

// Order represents an order header. CustomerID is a weak reference: the
// customer may have been deleted and the row still stands.
type Order struct {
	ID              int64           `db:"id" json:"id"`
	CustomerID      int64           `db:"customer_id" json:"customer_id"`
	OrderDate       time.Time       `db:"order_date" json:"order_date"`
	Status          string          `db:"status" json:"status"`
	Subtotal        decimal.Decimal `db:"subtotal" json:"subtotal"`
	TaxAmount       decimal.Decimal `db:"tax_amount" json:"tax_amount"`
	TotalAmount     decimal.Decimal `db:"total_amount" json:"total_amount"`
	DiscountPct     decimal.Decimal `db:"discount_pct" json:"discount_pct"`
	ShippingAddress string          `db:"shipping_address" json:"shipping_address"`
	Notes           string          `db:"notes" json:"notes"`
	CreatedBy       string          `db:"created_by" json:"created_by"`
}

// OrderLine represents one line item. UnitPrice is snapshotted at creation
// time and does not track later catalog price changes.
type OrderLine struct {
	ID        int64           `db:"id" json:"id"`
	OrderID   int64           `db:"order_id" json:"order_id"`
	ProductID int64           `db:"product_id" json:"product_id"`
	Quantity  int             `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
	LineTotal decimal.Decimal `db:"line_total" json:"line_total"`
}

// ReportOrder is an order row with its customer resolved best-effort
// (LEFT JOIN: both name fields are NULL when the customer was deleted).
type ReportOrder struct {
	Order
	CustomerName sql.NullString `db:"customer_name" json:"-"`
	CompanyName  sql.NullString `db:"company_name" json:"-"`
}

// ReportLine is an order line with its product resolved best-effort.
type ReportLine struct {
	OrderID     int64           `db:"order_id"`
	ProductID   int64           `db:"product_id"`
	Quantity    int             `db:"quantity"`
	LineTotal   decimal.Decimal `db:"line_total"`
	ProductName sql.NullString  `db:"product_name"`
	ProductCode sql.NullString  `db:"product_code"`
}

// OrderLineDetail is a line item annotated for the order detail view.
type OrderLineDetail struct {
	OrderLine
	ProductName sql.NullString `db:"product_name" json:"-"`
	ProductCode sql.NullString `db:"product_code" json:"-"`
}
