package store

import (
	"context"
	"sync"
	"time"

	"github.com/LEMNXCIX/neutra-order-api/internal/models"
)

// Pagination defaults for order listings
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// OrderFilter narrows an order listing. Zero values mean "no
// constraint". The store compares DateFrom and DateTo as given;
// widening DateTo to cover a whole day is the caller's job.
type OrderFilter struct {
	UserID   string
	Status   string
	DateFrom time.Time
	DateTo   time.Time
	Page     int
	PageSize int
}

// OrderStore defines the interface for order data access
type OrderStore interface {
	// Prepend inserts the order at the head of the log; listings are
	// newest-first by construction.
	Prepend(ctx context.Context, order models.Order) error
	// List returns one page of matching orders plus the total match
	// count before paging.
	List(ctx context.Context, filter OrderFilter) ([]models.Order, int, error)
}

// InMemoryOrderStore implements OrderStore with a mutex-guarded slice
type InMemoryOrderStore struct {
	mu     sync.RWMutex
	orders []models.Order
	snap   Snapshotter
}

// NewInMemoryOrderStore creates an empty in-memory order store.
// snap may be nil to disable collection snapshots.
func NewInMemoryOrderStore(snap Snapshotter) *InMemoryOrderStore {
	return &InMemoryOrderStore{snap: snap}
}

// Prepend inserts an order at the head of the log
func (s *InMemoryOrderStore) Prepend(ctx context.Context, order models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = append([]models.Order{order}, s.orders...)

	if s.snap == nil {
		return nil
	}
	return s.snap.Snapshot(s.orders)
}

// ReplaceAll swaps in a full order log, used when loading from disk
func (s *InMemoryOrderStore) ReplaceAll(ctx context.Context, orders []models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = make([]models.Order, len(orders))
	copy(s.orders, orders)
	return nil
}

// List returns a filtered, paginated view of the order log
func (s *InMemoryOrderStore) List(ctx context.Context, filter OrderFilter) ([]models.Order, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.Order, 0, len(s.orders))
	for _, order := range s.orders {
		if filter.UserID != "" && order.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if !filter.DateFrom.IsZero() && order.Date.Before(filter.DateFrom) {
			continue
		}
		if !filter.DateTo.IsZero() && order.Date.After(filter.DateTo) {
			continue
		}
		matched = append(matched, order)
	}

	total := len(matched)
	start := (page - 1) * pageSize
	if start >= total {
		return []models.Order{}, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	result := make([]models.Order, end-start)
	copy(result, matched[start:end])
	return result, total, nil
}
