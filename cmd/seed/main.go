package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"sales-service/config"
	"sales-service/internal/models"
	"sales-service/internal/service"
	"sales-service/internal/store"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// Seeds the database with demo customers, products, and two months of order
// history. Statuses rotate through the legacy set, including the historical
// "Procesing" misspelling that the reports must keep grouping as-is.

var orderStatuses = []string{
	models.OrderStatusPending,
	models.OrderStatusApproved,
	models.OrderStatusShipped,
	models.OrderStatusDelivered,
	models.OrderStatusDelivered,
	models.OrderStatusDelivered,
	models.OrderStatusCancelled,
	models.OrderStatusLegacyProcessing,
}

type seedCustomer struct {
	first, last, company string
	credit               int64
}

type seedProduct struct {
	code, name, category string
	price                string
	stock                int
}

var customers = []seedCustomer{
	{"John", "Smith", "Acme Industrial", 75000},
	{"Mary", "Johnson", "Johnson Supply Co", 50000},
	{"Robert", "Williams", "Williams & Sons", 45000},
	{"Patricia", "Brown", "Brown Logistics", 25000},
	{"Michael", "Davis", "Davis Freight", 12000},
	{"Linda", "Miller", "Miller Retail Group", 90000},
	{"James", "Wilson", "", 5000},
	{"Barbara", "Moore", "Moore Consulting", 61000},
}

var products = []seedProduct{
	{"WDG-100", "Standard Widget", "Widgets", "24.99", 500},
	{"WDG-200", "Premium Widget", "Widgets", "49.99", 250},
	{"GDT-050", "Basic Gadget", "Gadgets", "12.50", 800},
	{"GDT-075", "Deluxe Gadget", "Gadgets", "89.00", 120},
	{"CMP-300", "Component Pack", "Components", "156.75", 60},
	{"CMP-310", "Component Pack XL", "Components", "299.00", 30},
	{"SVC-001", "Installation Service", "Services", "450.00", 9999},
}

func main() {
	cfg := config.Load()

	st, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	db := st.GetDB()

	var existing int
	if err := db.GetContext(ctx, &existing, "SELECT COUNT(*) FROM customers"); err != nil {
		log.Fatalf("Failed to check existing data: %v", err)
	}
	if existing > 0 {
		log.Println("Database already seeded, nothing to do")
		return
	}

	customerIDs := seedCustomers(ctx, db)
	productIDs := seedProducts(ctx, db)
	orderCount := seedOrders(ctx, db, customerIDs, productIDs)

	log.Printf("Seeded %d customers, %d products, %d orders",
		len(customerIDs), len(productIDs), orderCount)
}

func seedCustomers(ctx context.Context, db *sqlx.DB) []int64 {
	ids := make([]int64, 0, len(customers))
	for _, c := range customers {
		var id int64
		err := db.GetContext(ctx, &id, `
			INSERT INTO customers (first_name, last_name, email, company_name, credit_limit, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			c.first, c.last,
			fmt.Sprintf("%s.%s@example.com", c.first, c.last),
			c.company, c.credit, models.CustomerStatusActive)
		if err != nil {
			log.Fatalf("Failed to seed customer: %v", err)
		}
		ids = append(ids, id)
	}
	return ids
}

func seedProducts(ctx context.Context, db *sqlx.DB) []int64 {
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		var id int64
		err := db.GetContext(ctx, &id, `
			INSERT INTO products (code, name, category, unit_price, stock_qty, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			p.code, p.name, p.category, p.price, p.stock, models.ProductStatusActive)
		if err != nil {
			log.Fatalf("Failed to seed product: %v", err)
		}
		ids = append(ids, id)
	}
	return ids
}

func seedOrders(ctx context.Context, db *sqlx.DB, customerIDs, productIDs []int64) int {
	// Fixed seed so repeated demo environments look the same.
	rng := rand.New(rand.NewSource(42))
	count := 60

	for i := 0; i < count; i++ {
		custIdx := rng.Intn(len(customerIDs))
		customerID := customerIDs[custIdx]
		status := orderStatuses[rng.Intn(len(orderStatuses))]
		orderDate := time.Now().AddDate(0, 0, -rng.Intn(60))

		credit := decimal.NewFromInt(customers[custIdx].credit)
		discountPct := service.DiscountForCredit(credit)

		var orderID int64
		err := db.GetContext(ctx, &orderID, `
			INSERT INTO orders (customer_id, order_date, status, discount_pct, created_by)
			VALUES ($1, $2, $3, $4, 'SEED')
			RETURNING id`,
			customerID, orderDate, status, discountPct)
		if err != nil {
			log.Fatalf("Failed to seed order: %v", err)
		}

		subtotal := decimal.Zero
		lineCount := 1 + rng.Intn(3)
		for j := 0; j < lineCount; j++ {
			prodIdx := rng.Intn(len(productIDs))
			qty := 1 + rng.Intn(10)
			price := decimal.RequireFromString(products[prodIdx].price)
			lineTotal := price.Mul(decimal.NewFromInt(int64(qty)))
			subtotal = subtotal.Add(lineTotal)

			_, err := db.ExecContext(ctx, `
				INSERT INTO order_lines (order_id, product_id, quantity, unit_price, line_total)
				VALUES ($1, $2, $3, $4, $5)`,
				orderID, productIDs[prodIdx], qty, price, lineTotal)
			if err != nil {
				log.Fatalf("Failed to seed order line: %v", err)
			}

			_, err = db.ExecContext(ctx,
				"UPDATE products SET stock_qty = stock_qty - $1 WHERE id = $2",
				qty, productIDs[prodIdx])
			if err != nil {
				log.Fatalf("Failed to decrement stock: %v", err)
			}
		}

		discounted := subtotal.Sub(subtotal.Mul(discountPct))
		tax := discounted.Mul(service.TaxRate)
		total := discounted.Add(tax)

		_, err = db.ExecContext(ctx,
			"UPDATE orders SET subtotal = $1, tax_amount = $2, total_amount = $3 WHERE id = $4",
			discounted, tax, total, orderID)
		if err != nil {
			log.Fatalf("Failed to update order totals: %v", err)
		}
	}

	return count
}
