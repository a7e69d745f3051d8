package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"sales-service/internal/models"
	"sales-service/internal/redisclient"
	"sales-service/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalogStore struct {
	products map[int64]*models.Product
	lookups  int
}

func (f *fakeCatalogStore) GetActiveProductByID(_ context.Context, id int64) (*models.Product, error) {
	f.lookups++
	p, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, store.ErrNotFound)
	}
	return p, nil
}

func (f *fakeCatalogStore) GetActiveProducts(_ context.Context) ([]models.Product, error) {
	out := make([]models.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

type fakeProductCache struct {
	entries map[int64]*models.Product
	getErr  error
}

func newFakeProductCache() *fakeProductCache {
	return &fakeProductCache{entries: make(map[int64]*models.Product)}
}

func (f *fakeProductCache) GetProduct(_ context.Context, id int64) (*models.Product, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.entries[id]
	if !ok {
		return nil, redisclient.ErrCacheMiss
	}
	return p, nil
}

func (f *fakeProductCache) SetProduct(_ context.Context, p *models.Product) error {
	f.entries[p.ID] = p
	return nil
}

func (f *fakeProductCache) InvalidateProduct(_ context.Context, id int64) error {
	delete(f.entries, id)
	return nil
}

func TestCatalogLookupReadThrough(t *testing.T) {
	st := &fakeCatalogStore{products: map[int64]*models.Product{
		1: {ID: 1, Name: "Widget", UnitPrice: decimal.RequireFromString("24.99")},
	}}
	cache := newFakeProductCache()
	catalog := NewCatalog(st, cache)

	ctx := context.Background()

	// Miss populates the cache.
	p, err := catalog.Lookup(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Widget", p.Name)
	assert.Equal(t, 1, st.lookups)

	// Second lookup is served from cache.
	_, err = catalog.Lookup(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, st.lookups)

	// Invalidation forces the next lookup back to the database.
	catalog.Invalidate(ctx, 1)
	_, err = catalog.Lookup(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, st.lookups)
}

func TestCatalogLookupCacheFailureFallsBack(t *testing.T) {
	st := &fakeCatalogStore{products: map[int64]*models.Product{
		1: {ID: 1, Name: "Widget"},
	}}
	cache := newFakeProductCache()
	cache.getErr = errors.New("connection refused")
	catalog := NewCatalog(st, cache)

	p, err := catalog.Lookup(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Widget", p.Name)
}

func TestCatalogLookupNotFound(t *testing.T) {
	catalog := NewCatalog(&fakeCatalogStore{}, nil)
	_, err := catalog.Lookup(context.Background(), 404)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogWithoutCache(t *testing.T) {
	st := &fakeCatalogStore{products: map[int64]*models.Product{
		1: {ID: 1, Name: "Widget"},
	}}
	catalog := NewCatalog(st, nil)

	_, err := catalog.Lookup(context.Background(), 1)
	require.NoError(t, err)
	catalog.Invalidate(context.Background(), 1)
}
