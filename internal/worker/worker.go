package worker

import (
	"context"
	"errors"
	"time"

	"sales-service/internal/broker"
	"sales-service/internal/models"
	"sales-service/internal/store"
	"sales-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockAlertWorker watches order events and raises low-stock alerts.
// Stock decrements have no floor, so this is the only place anyone notices
// a product running out (or going negative).
type StockAlertWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        *store.Store
	publisher    *broker.EventPublisher
	threshold    int
	logger       *zap.Logger
}

// NewStockAlertWorker creates a new stock alert worker
func NewStockAlertWorker(
	consumer *broker.Consumer,
	st *store.Store,
	publisher *broker.EventPublisher,
	threshold int,
) *StockAlertWorker {
	w := &StockAlertWorker{
		consumer:  consumer,
		store:     st,
		publisher: publisher,
		threshold: threshold,
		logger:    util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderCreated(w.handleOrderCreated)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *StockAlertWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting stock alert worker", zap.Int("threshold", w.threshold))
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *StockAlertWorker) Stop() error {
	w.logger.Info("Stopping stock alert worker")
	return w.consumer.Close()
}

func (w *StockAlertWorker) handleOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	for _, line := range event.Lines {
		product, err := w.store.GetProductByID(ctx, line.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			// Product deleted since the order went through.
			continue
		}
		if err != nil {
			return err
		}

		if product.StockQty > w.threshold {
			continue
		}

		util.LowStockAlertsTotal.Inc()
		w.logger.Warn("Low stock",
			zap.Int64("product_id", product.ID),
			zap.String("code", product.Code),
			zap.Int("stock_qty", product.StockQty),
			zap.Int64("order_id", event.OrderID))

		alert := &models.LowStockEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeLowStock,
				Timestamp: time.Now(),
			},
			ProductID:   product.ID,
			ProductCode: product.Code,
			StockQty:    product.StockQty,
		}
		if err := w.publisher.PublishLowStock(ctx, alert); err != nil {
			w.logger.Error("Failed to publish LowStock event", zap.Error(err))
		}
	}

	return nil
}
