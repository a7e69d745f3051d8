package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeOrderCreated = "ORDER_CREATED"
	EventTypeLowStock     = "LOW_STOCK"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCreatedEvent published when an order is created
type OrderCreatedEvent struct {
	BaseEvent
	OrderID     int64           `json:"order_id"`
	CustomerID  int64           `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Lines       []OrderLineData `json:"lines"`
}

// LowStockEvent published when a product's stock falls to or below the
// configured threshold (stock may be negative, there is no floor)
type LowStockEvent struct {
	BaseEvent
	ProductID   int64  `json:"product_id"`
	ProductCode string `json:"product_code"`
	StockQty    int    `json:"stock_qty"`
}

// OrderLineData represents line data in events
type OrderLineData struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}
