package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/LEMNXCIX/neutra-order-api/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductStore defines the interface for catalog data access
type ProductStore interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	ReplaceAll(ctx context.Context, products []models.Product) error
	// DecrementStock subtracts qty from the product's stock, floored at
	// zero, and returns the new value. The read-modify-write is atomic
	// with respect to other calls on the same store.
	DecrementStock(ctx context.Context, id string, qty int) (int, error)
}

// InMemoryProductStore implements ProductStore with a mutex-guarded map
type InMemoryProductStore struct {
	mu       sync.RWMutex
	products map[string]models.Product
	snap     Snapshotter
}

// NewInMemoryProductStore creates an empty in-memory product store.
// snap may be nil to disable collection snapshots.
func NewInMemoryProductStore(snap Snapshotter) *InMemoryProductStore {
	return &InMemoryProductStore{
		products: make(map[string]models.Product),
		snap:     snap,
	}
}

// GetAll returns all products sorted by ID
func (s *InMemoryProductStore) GetAll(ctx context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]models.Product, 0, len(s.products))
	for _, product := range s.products {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].ID < products[j].ID
	})
	return products, nil
}

// GetByID returns a product by its ID
func (s *InMemoryProductStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, exists := s.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

// ReplaceAll swaps in a full catalog, used for seeding and admin reloads
func (s *InMemoryProductStore) ReplaceAll(ctx context.Context, products []models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = make(map[string]models.Product, len(products))
	for _, product := range products {
		s.products[product.ID] = product
	}
	return s.persistLocked()
}

// DecrementStock atomically reduces a product's stock
func (s *InMemoryProductStore) DecrementStock(ctx context.Context, id string, qty int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, exists := s.products[id]
	if !exists {
		return 0, ErrProductNotFound
	}

	product.Stock -= qty
	if product.Stock < 0 {
		product.Stock = 0
	}
	s.products[id] = product

	if err := s.persistLocked(); err != nil {
		return product.Stock, err
	}
	return product.Stock, nil
}

// persistLocked snapshots the collection; callers hold the write lock.
func (s *InMemoryProductStore) persistLocked() error {
	if s.snap == nil {
		return nil
	}

	products := make([]models.Product, 0, len(s.products))
	for _, product := range s.products {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].ID < products[j].ID
	})
	return s.snap.Snapshot(products)
}
