package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sales-service/internal/models"
	"sales-service/internal/store"
	"sales-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Credit limit bounds, carried over from the old Oracle check constraint.
var (
	defaultCreditLimit = decimal.NewFromInt(5000)
	maxCreditLimit     = decimal.NewFromInt(100000)
)

// CustomerStore is the persistence surface for customer management.
type CustomerStore interface {
	ListCustomers(ctx context.Context, filter store.CustomerFilter) ([]models.Customer, error)
	GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error)
	InsertCustomer(ctx context.Context, c *models.Customer) error
	UpdateCustomer(ctx context.Context, c *models.Customer) error
	DeleteCustomer(ctx context.Context, id int64) error
}

// CustomerService handles customer management
type CustomerService struct {
	store  CustomerStore
	logger *zap.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(store CustomerStore) *CustomerService {
	return &CustomerService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// SaveCustomerRequest represents the customer form. CustomerID zero means
// insert. CreditLimit arrives as a raw form value and is normalized here.
type SaveCustomerRequest struct {
	CustomerID  int64  `json:"customer_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CompanyName string `json:"company_name"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zip_code"`
	CreditLimit string `json:"credit_limit"`
	Status      *int   `json:"status"`
	Notes       string `json:"notes"`
}

// ParseCreditLimit normalizes a raw credit limit form value: unparsable
// input falls back to the 5000 default and the result is clamped to
// [0, 100000].
func ParseCreditLimit(raw string) decimal.Decimal {
	limit, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		limit = defaultCreditLimit
	}
	if limit.GreaterThan(maxCreditLimit) {
		limit = maxCreditLimit
	}
	if limit.IsNegative() {
		limit = decimal.Zero
	}
	return limit
}

// Save inserts or updates a customer
func (s *CustomerService) Save(ctx context.Context, req *SaveCustomerRequest) (*models.Customer, error) {
	ctx, span := util.StartSpan(ctx, "CustomerService.Save")
	defer span.End()

	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, &ValidationError{Field: "name", Message: "first name and last name are required"}
	}

	status := models.CustomerStatusActive
	if req.Status != nil {
		status = *req.Status
	}

	customer := &models.Customer{
		ID:          req.CustomerID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
		City:        req.City,
		State:       req.State,
		ZipCode:     req.ZipCode,
		CreditLimit: ParseCreditLimit(req.CreditLimit),
		Status:      status,
		Notes:       req.Notes,
	}

	var err error
	if customer.ID == 0 {
		err = s.store.InsertCustomer(ctx, customer)
	} else {
		err = s.store.UpdateCustomer(ctx, customer)
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	util.CustomersSavedTotal.Inc()
	s.logger.Info("Customer saved",
		zap.Int64("customer_id", customer.ID),
		zap.String("credit_limit", customer.CreditLimit.String()))
	return customer, nil
}

// Delete removes a customer. Existing orders for the customer are not
// touched; they become orphans the report path resolves with a placeholder.
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	ctx, span := util.StartSpan(ctx, "CustomerService.Delete")
	defer span.End()

	err := s.store.DeleteCustomer(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrCustomerNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	util.CustomersDeletedTotal.Inc()
	s.logger.Info("Customer deleted", zap.Int64("customer_id", id))
	return nil
}

// Get retrieves a single customer
func (s *CustomerService) Get(ctx context.Context, id int64) (*models.Customer, error) {
	customer, err := s.store.GetCustomerByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// List retrieves customers filtered and sorted per the query parameters.
// statusFilter accepts active, inactive, suspended, or all/empty.
func (s *CustomerService) List(ctx context.Context, search, statusFilter, sortBy string) ([]models.Customer, error) {
	filter := store.CustomerFilter{
		Search: search,
		SortBy: sortBy,
	}

	switch statusFilter {
	case "active":
		status := models.CustomerStatusActive
		filter.Status = &status
	case "inactive":
		status := models.CustomerStatusInactive
		filter.Status = &status
	case "suspended":
		status := models.CustomerStatusSuspended
		filter.Status = &status
	}

	return s.store.ListCustomers(ctx, filter)
}
