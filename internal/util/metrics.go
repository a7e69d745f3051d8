package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created",
	})

	OrdersRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_rejected_total",
		Help: "Total number of order submissions rejected before any write",
	}, []string{"reason"})

	OrderLinesAcceptedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_lines_accepted_total",
		Help: "Total number of order line items accepted and priced",
	})

	OrderLinesDiscardedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_lines_discarded_total",
		Help: "Total number of submitted line items silently discarded",
	}, []string{"reason"})

	EmptyOrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "empty_orders_created_total",
		Help: "Total number of orders created with zero surviving line items",
	})

	CustomersSavedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "customers_saved_total",
		Help: "Total number of customer inserts and updates",
	})

	CustomersDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "customers_deleted_total",
		Help: "Total number of customers deleted",
	})

	ReportsGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sales_reports_generated_total",
		Help: "Total number of sales reports generated",
	})

	ReportGenerationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sales_report_generation_seconds",
		Help:    "Latency of sales report generation",
		Buckets: prometheus.DefBuckets,
	})

	CatalogCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_hits_total",
		Help: "Total number of catalog lookups served from cache",
	})

	CatalogCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_misses_total",
		Help: "Total number of catalog lookups that fell through to the database",
	})

	LowStockAlertsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "low_stock_alerts_total",
		Help: "Total number of low-stock alerts raised",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
