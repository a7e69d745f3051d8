package service

import (
	"context"
	"fmt"
	"testing"

	"sales-service/internal/models"
	"sales-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCustomerStore struct {
	customers map[int64]*models.Customer
	lastList  store.CustomerFilter
	nextID    int64
}

func newFakeCustomerStore() *fakeCustomerStore {
	return &fakeCustomerStore{customers: make(map[int64]*models.Customer)}
}

func (f *fakeCustomerStore) ListCustomers(_ context.Context, filter store.CustomerFilter) ([]models.Customer, error) {
	f.lastList = filter
	out := make([]models.Customer, 0, len(f.customers))
	for _, c := range f.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCustomerStore) GetCustomerByID(_ context.Context, id int64) (*models.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, fmt.Errorf("customer %d: %w", id, store.ErrNotFound)
	}
	return c, nil
}

func (f *fakeCustomerStore) InsertCustomer(_ context.Context, c *models.Customer) error {
	f.nextID++
	c.ID = f.nextID
	f.customers[c.ID] = c
	return nil
}

func (f *fakeCustomerStore) UpdateCustomer(_ context.Context, c *models.Customer) error {
	if _, ok := f.customers[c.ID]; !ok {
		return fmt.Errorf("customer %d: %w", c.ID, store.ErrNotFound)
	}
	f.customers[c.ID] = c
	return nil
}

func (f *fakeCustomerStore) DeleteCustomer(_ context.Context, id int64) error {
	if _, ok := f.customers[id]; !ok {
		return fmt.Errorf("customer %d: %w", id, store.ErrNotFound)
	}
	delete(f.customers, id)
	return nil
}

func TestParseCreditLimit(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"valid value", "25000", "25000"},
		{"valid with spaces", "  25000  ", "25000"},
		{"decimal value", "12345.67", "12345.67"},
		{"unparsable falls back to default", "abc", "5000"},
		{"empty falls back to default", "", "5000"},
		{"above cap is clamped", "150000", "100000"},
		{"negative is clamped to zero", "-50", "0"},
		{"zero stays zero", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCreditLimit(tt.raw)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestSaveCustomerValidatesName(t *testing.T) {
	svc := NewCustomerService(newFakeCustomerStore())

	for _, req := range []*SaveCustomerRequest{
		{FirstName: "", LastName: "Smith"},
		{FirstName: "John", LastName: ""},
		{FirstName: "  ", LastName: "  "},
	} {
		_, err := svc.Save(context.Background(), req)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	}
}

func TestSaveCustomerInsertAndUpdate(t *testing.T) {
	st := newFakeCustomerStore()
	svc := NewCustomerService(st)

	created, err := svc.Save(context.Background(), &SaveCustomerRequest{
		FirstName:   "John",
		LastName:    "Smith",
		CreditLimit: "150000",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "100000", created.CreditLimit.String(), "credit limit clamped on save")
	assert.Equal(t, models.CustomerStatusActive, created.Status, "status defaults to active")

	suspended := models.CustomerStatusSuspended
	updated, err := svc.Save(context.Background(), &SaveCustomerRequest{
		CustomerID:  created.ID,
		FirstName:   "John",
		LastName:    "Smith",
		CreditLimit: "junk",
		Status:      &suspended,
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "5000", updated.CreditLimit.String())
	assert.Equal(t, suspended, updated.Status)
}

func TestSaveCustomerUpdateMissing(t *testing.T) {
	svc := NewCustomerService(newFakeCustomerStore())

	_, err := svc.Save(context.Background(), &SaveCustomerRequest{
		CustomerID: 42,
		FirstName:  "John",
		LastName:   "Smith",
	})
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestDeleteCustomerNotFound(t *testing.T) {
	svc := NewCustomerService(newFakeCustomerStore())
	err := svc.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestGetCustomerNotFound(t *testing.T) {
	svc := NewCustomerService(newFakeCustomerStore())
	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestListCustomersStatusFilter(t *testing.T) {
	st := newFakeCustomerStore()
	svc := NewCustomerService(st)

	_, err := svc.List(context.Background(), "smith", "suspended", "name")
	require.NoError(t, err)

	assert.Equal(t, "smith", st.lastList.Search)
	assert.Equal(t, "name", st.lastList.SortBy)
	require.NotNil(t, st.lastList.Status)
	assert.Equal(t, models.CustomerStatusSuspended, *st.lastList.Status)

	_, err = svc.List(context.Background(), "", "all", "")
	require.NoError(t, err)
	assert.Nil(t, st.lastList.Status, "all means no status filter")
}
