package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"sales-service/internal/service"
	"sales-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Handler contains HTTP handlers
type Handler struct {
	orders    *service.OrderService
	customers *service.CustomerService
	reports   *service.ReportService
	catalog   *service.Catalog
}

// NewHandler creates a new HTTP handler
func NewHandler(
	orders *service.OrderService,
	customers *service.CustomerService,
	reports *service.ReportService,
	catalog *service.Catalog,
) *Handler {
	return &Handler{
		orders:    orders,
		customers: customers,
		reports:   reports,
		catalog:   catalog,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/customers", h.listCustomers)
		v1.POST("/customers", h.saveCustomer)
		v1.GET("/customers/:id", h.getCustomer)
		v1.DELETE("/customers/:id", h.deleteCustomer)

		v1.GET("/products", h.listProducts)

		v1.POST("/orders", h.createOrder)
		v1.GET("/orders/:id", h.getOrder)

		v1.GET("/reports/sales", h.salesReport)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// listCustomers handles the customer grid: search, status filter, sort
func (h *Handler) listCustomers(c *gin.Context) {
	customers, err := h.customers.List(c.Request.Context(),
		c.Query("search"), c.Query("status"), c.Query("sort_by"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list customers",
			"details": err.Error(),
		})
		return
	}

	totalRevenue := decimal.Zero
	for i := range customers {
		totalRevenue = totalRevenue.Add(customers[i].TotalSpent)
	}

	c.JSON(http.StatusOK, gin.H{
		"customers":       customers,
		"total_customers": len(customers),
		"total_revenue":   totalRevenue,
	})
}

// saveCustomer handles both create and edit
func (h *Handler) saveCustomer(c *gin.Context) {
	var req service.SaveCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	customer, err := h.customers.Save(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err, "Failed to save customer")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// getCustomer returns a single customer for the edit form
func (h *Handler) getCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	customer, err := h.customers.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to get customer")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// deleteCustomer removes a customer. Their orders stay behind.
func (h *Handler) deleteCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.customers.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Failed to delete customer")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// listProducts returns active products for the order form
func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.catalog.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list products",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// createOrder handles order creation
func (h *Handler) createOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.orders.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err, "Failed to create order")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// getOrder handles the order detail view
func (h *Handler) getOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	order, lines, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to get order")
		return
	}

	lineViews := make([]gin.H, 0, len(lines))
	for _, line := range lines {
		lineViews = append(lineViews, gin.H{
			"product_id":   line.ProductID,
			"product_name": nullOr(line.ProductName, "Unknown Product"),
			"product_code": nullOr(line.ProductCode, ""),
			"quantity":     line.Quantity,
			"unit_price":   line.UnitPrice,
			"line_total":   line.LineTotal,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"order":         order.Order,
		"customer_name": nullOr(order.CustomerName, "Unknown"),
		"company_name":  nullOr(order.CompanyName, ""),
		"lines":         lineViews,
	})
}

// salesReport handles the sales report with optional date range and grouping
func (h *Handler) salesReport(c *gin.Context) {
	start, ok := parseDate(c, "start_date")
	if !ok {
		return
	}
	end, ok := parseDate(c, "end_date")
	if !ok {
		return
	}

	report, err := h.reports.Generate(c.Request.Context(), start, end, c.Query("group_by"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to generate report",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *Handler) writeError(c *gin.Context, err error, msg string) {
	switch {
	case service.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   msg,
			"details": err.Error(),
		})
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return id, true
}

// parseDate reads an optional yyyy-mm-dd query param on the local clock.
func parseDate(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + ", expected yyyy-mm-dd"})
		return time.Time{}, false
	}
	return t, true
}

func nullOr(s sql.NullString, fallback string) string {
	if s.Valid {
		return s.String
	}
	return fallback
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
