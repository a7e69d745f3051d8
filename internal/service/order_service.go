package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sales-service/internal/models"
	"sales-service/internal/store"
	"sales-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DiscardReason explains why a submitted line item was not accepted.
type DiscardReason string

const (
	DiscardBadProductID    DiscardReason = "bad_product_id"
	DiscardBadQuantity     DiscardReason = "bad_quantity"
	DiscardNonPositiveQty  DiscardReason = "non_positive_quantity"
	DiscardProductNotFound DiscardReason = "product_not_found"
)

// LineResult is the outcome of processing one submitted line: either an
// accepted, priced line item or a discard reason. Discards never fail the
// submission; they are logged and counted.
type LineResult struct {
	Index   int
	Line    *models.OrderLine
	Discard DiscardReason
}

// Accepted reports whether the line survived processing.
func (r LineResult) Accepted() bool {
	return r.Line != nil
}

// ProductLookup resolves a product id to its current price and stock.
type ProductLookup interface {
	Lookup(ctx context.Context, productID int64) (*models.Product, error)
	Invalidate(ctx context.Context, productID int64)
}

// OrderStore is the persistence surface order creation needs. Missing
// customers are reported with an error matching store.ErrNotFound.
type OrderStore interface {
	GetCustomerCredit(ctx context.Context, customerID int64) (decimal.Decimal, error)
	CreateOrder(ctx context.Context, order *models.Order, lines []*models.OrderLine) error
	GetOrderByID(ctx context.Context, id int64) (*models.ReportOrder, error)
	GetOrderLines(ctx context.Context, orderID int64) ([]models.OrderLineDetail, error)
}

// OrderEventPublisher publishes order lifecycle events.
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error
}

// OrderService handles order submission and total calculation
type OrderService struct {
	store   OrderStore
	catalog ProductLookup
	events  OrderEventPublisher
	logger  *zap.Logger
}

// NewOrderService creates a new order service. events may be nil.
func NewOrderService(store OrderStore, catalog ProductLookup, events OrderEventPublisher) *OrderService {
	return &OrderService{
		store:   store,
		catalog: catalog,
		events:  events,
		logger:  util.GetLogger(),
	}
}

// CreateOrderRequest represents an order form submission. ProductIDs and
// Quantities are parallel lists of raw form values; clients are known to send
// mismatched lengths and unparsable entries.
type CreateOrderRequest struct {
	CustomerID      int64    `json:"customer_id" binding:"required"`
	ShippingAddress string   `json:"shipping_address"`
	Notes           string   `json:"notes"`
	ProductIDs      []string `json:"product_ids"`
	Quantities      []string `json:"quantities"`
}

// CreateOrderResponse represents the response after creating an order
type CreateOrderResponse struct {
	OrderID        int64           `json:"order_id"`
	Status         string          `json:"status"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	DiscountPct    decimal.Decimal `json:"discount_pct"`
	AcceptedLines  int             `json:"accepted_lines"`
	DiscardedLines int             `json:"discarded_lines"`
}

// CreateOrder processes a submission end to end: per-line validation and
// pricing, tier discount, tax, and a single atomic write of the order with
// its lines and stock decrements.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	if len(req.ProductIDs) == 0 || len(req.Quantities) == 0 {
		util.OrdersRejectedTotal.WithLabelValues("missing_line_items").Inc()
		return nil, ErrMissingLineItems
	}

	results, err := s.processLines(ctx, req)
	if err != nil {
		return nil, err
	}

	lines := make([]*models.OrderLine, 0, len(results))
	subtotal := decimal.Zero
	discarded := 0
	for _, r := range results {
		if !r.Accepted() {
			discarded++
			continue
		}
		lines = append(lines, r.Line)
		subtotal = subtotal.Add(r.Line.LineTotal)
	}

	// Missing customers do not abort order creation: credit falls back to
	// zero and the order is recorded against the dangling id as-is.
	credit, err := s.store.GetCustomerCredit(ctx, req.CustomerID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("failed to read customer credit: %w", err)
		}
		s.logger.Warn("Order submitted for unknown customer, using zero credit",
			zap.Int64("customer_id", req.CustomerID))
		credit = decimal.Zero
	}

	discountPct := DiscountForCredit(credit)
	discount := subtotal.Mul(discountPct)
	discountedSubtotal := subtotal.Sub(discount)
	tax := discountedSubtotal.Mul(TaxRate)
	total := discountedSubtotal.Add(tax)

	order := &models.Order{
		CustomerID:      req.CustomerID,
		Status:          models.OrderStatusPending,
		Subtotal:        discountedSubtotal,
		TaxAmount:       tax,
		TotalAmount:     total,
		DiscountPct:     discountPct,
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
		CreatedBy:       "WEB",
	}

	if err := s.store.CreateOrder(ctx, order, lines); err != nil {
		util.OrdersRejectedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, line := range lines {
		s.catalog.Invalidate(ctx, line.ProductID)
	}

	util.OrdersCreatedTotal.Inc()
	util.OrderLinesAcceptedTotal.Add(float64(len(lines)))
	if len(lines) == 0 {
		util.EmptyOrdersCreatedTotal.Inc()
		s.logger.Warn("Order created with no surviving line items",
			zap.Int64("order_id", order.ID),
			zap.Int("discarded", discarded))
	}

	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("customer_id", order.CustomerID),
		zap.String("total", total.String()),
		zap.Int("accepted_lines", len(lines)),
		zap.Int("discarded_lines", discarded))

	s.publishOrderCreated(ctx, order, lines)

	return &CreateOrderResponse{
		OrderID:        order.ID,
		Status:         order.Status,
		Subtotal:       order.Subtotal,
		TaxAmount:      order.TaxAmount,
		TotalAmount:    order.TotalAmount,
		DiscountPct:    order.DiscountPct,
		AcceptedLines:  len(lines),
		DiscardedLines: discarded,
	}, nil
}

// processLines walks the parallel lists in submission order. Lists of
// unequal length are processed up to the shorter one; trailing entries are
// dropped without comment, a deliberate tolerance for the order form's
// hidden-field plumbing. Invalid lines are skipped, never fatal.
func (s *OrderService) processLines(ctx context.Context, req *CreateOrderRequest) ([]LineResult, error) {
	count := len(req.ProductIDs)
	if len(req.Quantities) < count {
		count = len(req.Quantities)
	}

	results := make([]LineResult, 0, count)
	for i := 0; i < count; i++ {
		result, err := s.processLine(ctx, i, req.ProductIDs[i], req.Quantities[i])
		if err != nil {
			return nil, err
		}
		if !result.Accepted() {
			util.OrderLinesDiscardedTotal.WithLabelValues(string(result.Discard)).Inc()
			s.logger.Debug("Discarded order line",
				zap.Int("index", i),
				zap.String("product_id", req.ProductIDs[i]),
				zap.String("quantity", req.Quantities[i]),
				zap.String("reason", string(result.Discard)))
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *OrderService) processLine(ctx context.Context, index int, rawProductID, rawQty string) (LineResult, error) {
	productID, err := strconv.ParseInt(strings.TrimSpace(rawProductID), 10, 64)
	if err != nil {
		return LineResult{Index: index, Discard: DiscardBadProductID}, nil
	}

	qty, err := strconv.Atoi(strings.TrimSpace(rawQty))
	if err != nil {
		return LineResult{Index: index, Discard: DiscardBadQuantity}, nil
	}
	if qty <= 0 {
		return LineResult{Index: index, Discard: DiscardNonPositiveQty}, nil
	}

	product, err := s.catalog.Lookup(ctx, productID)
	if errors.Is(err, ErrProductNotFound) {
		return LineResult{Index: index, Discard: DiscardProductNotFound}, nil
	}
	if err != nil {
		return LineResult{}, fmt.Errorf("failed to look up product %d: %w", productID, err)
	}

	// Snapshot the price: the line keeps this value even if the catalog
	// price changes later.
	lineTotal := product.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
	return LineResult{
		Index: index,
		Line: &models.OrderLine{
			ProductID: productID,
			Quantity:  qty,
			UnitPrice: product.UnitPrice,
			LineTotal: lineTotal,
		},
	}, nil
}

func (s *OrderService) publishOrderCreated(ctx context.Context, order *models.Order, lines []*models.OrderLine) {
	if s.events == nil {
		return
	}

	lineData := make([]models.OrderLineData, 0, len(lines))
	for _, line := range lines {
		lineData = append(lineData, models.OrderLineData{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	event := &models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCreated,
			Timestamp: time.Now(),
		},
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		TotalAmount: order.TotalAmount,
		Lines:       lineData,
	}

	if err := s.events.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
	}
}

// GetOrder retrieves an order with its line items for the detail view
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*models.ReportOrder, []models.OrderLineDetail, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	lines, err := s.store.GetOrderLines(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	return order, lines, nil
}
