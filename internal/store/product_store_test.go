package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/LEMNXCIX/neutra-order-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededProductStore(t *testing.T, snap Snapshotter) *InMemoryProductStore {
	t.Helper()
	s := NewInMemoryProductStore(snap)
	err := s.ReplaceAll(context.Background(), []models.Product{
		{ID: "P1", Title: "Linen Tote Bag", Price: 24.50, Stock: 10},
		{ID: "P2", Title: "Ceramic Mug", Price: 18.00, Stock: 0},
	})
	require.NoError(t, err)
	return s
}

func TestProductStore_GetByID(t *testing.T) {
	s := seededProductStore(t, nil)

	product, err := s.GetByID(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, "Linen Tote Bag", product.Title)
	assert.Equal(t, 24.50, product.Price)

	_, err = s.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductStore_GetAllSorted(t *testing.T) {
	s := seededProductStore(t, nil)

	products, err := s.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "P1", products[0].ID)
	assert.Equal(t, "P2", products[1].ID)
}

func TestProductStore_DecrementStock(t *testing.T) {
	s := seededProductStore(t, nil)

	remaining, err := s.DecrementStock(context.Background(), "P1", 4)
	require.NoError(t, err)
	assert.Equal(t, 6, remaining)

	// Floored at zero, never negative
	remaining, err = s.DecrementStock(context.Background(), "P1", 100)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	_, err = s.DecrementStock(context.Background(), "missing", 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductStore_ConcurrentDecrements(t *testing.T) {
	s := NewInMemoryProductStore(nil)
	require.NoError(t, s.ReplaceAll(context.Background(), []models.Product{
		{ID: "P1", Title: "Linen Tote Bag", Price: 24.50, Stock: 100},
	}))

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.DecrementStock(context.Background(), "P1", 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	product, err := s.GetByID(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, 0, product.Stock)
}

func TestProductStore_SnapshotAfterMutation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	s := seededProductStore(t, NewFileSnapshotter(path))

	_, err := s.DecrementStock(context.Background(), "P1", 3)
	require.NoError(t, err)

	var persisted []models.Product
	require.NoError(t, LoadCollection(path, &persisted))
	require.Len(t, persisted, 2)
	assert.Equal(t, "P1", persisted[0].ID)
	assert.Equal(t, 7, persisted[0].Stock)
}

func TestLoadCollection_MissingFile(t *testing.T) {
	var out []models.Product
	err := LoadCollection(filepath.Join(t.TempDir(), "absent.json"), &out)
	require.NoError(t, err)
	assert.Empty(t, out)
}
