package store

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/LEMNXCIX/neutra-order-api/internal/models"
	"github.com/bits-and-blooms/bloom/v3"
)

var (
	ErrCouponNotFound = errors.New("coupon not found")
)

// bloomFalsePositiveRate keeps misses cheap without risking false
// negatives; the filter only short-circuits lookups that cannot match.
const bloomFalsePositiveRate = 0.001

// NormalizeCode canonicalizes a coupon code for lookup: codes are
// matched trimmed and case-insensitively.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CouponStore defines the interface for coupon data access
type CouponStore interface {
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	ReplaceAll(ctx context.Context, coupons []models.Coupon) error
	// MarkUsed flips the coupon's used flag and persists the change.
	MarkUsed(ctx context.Context, code string) error
}

// InMemoryCouponStore implements CouponStore with a mutex-guarded map
// keyed by normalized code. A bloom filter in front of the map rejects
// codes that cannot exist without taking the map path; checkout traffic
// is dominated by mistyped and guessed codes.
type InMemoryCouponStore struct {
	mu      sync.RWMutex
	coupons map[string]models.Coupon
	filter  *bloom.BloomFilter
	snap    Snapshotter
}

// NewInMemoryCouponStore creates an empty in-memory coupon store.
// snap may be nil to disable collection snapshots.
func NewInMemoryCouponStore(snap Snapshotter) *InMemoryCouponStore {
	return &InMemoryCouponStore{
		coupons: make(map[string]models.Coupon),
		filter:  bloom.NewWithEstimates(1, bloomFalsePositiveRate),
		snap:    snap,
	}
}

// FindByCode returns the coupon for a (raw) code, or ErrCouponNotFound
func (s *InMemoryCouponStore) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, ErrCouponNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.filter.TestString(normalized) {
		return nil, ErrCouponNotFound
	}

	coupon, exists := s.coupons[normalized]
	if !exists {
		return nil, ErrCouponNotFound
	}
	return &coupon, nil
}

// ReplaceAll swaps in a full coupon collection and rebuilds the filter
func (s *InMemoryCouponStore) ReplaceAll(ctx context.Context, coupons []models.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.coupons = make(map[string]models.Coupon, len(coupons))
	n := uint(len(coupons))
	if n == 0 {
		n = 1
	}
	s.filter = bloom.NewWithEstimates(n, bloomFalsePositiveRate)

	for _, coupon := range coupons {
		normalized := NormalizeCode(coupon.Code)
		coupon.Code = normalized
		s.coupons[normalized] = coupon
		s.filter.AddString(normalized)
	}
	return s.persistLocked()
}

// MarkUsed flips the used flag on the coupon with the given code
func (s *InMemoryCouponStore) MarkUsed(ctx context.Context, code string) error {
	normalized := NormalizeCode(code)

	s.mu.Lock()
	defer s.mu.Unlock()

	coupon, exists := s.coupons[normalized]
	if !exists {
		return ErrCouponNotFound
	}

	coupon.Used = true
	s.coupons[normalized] = coupon
	return s.persistLocked()
}

// persistLocked snapshots the collection; callers hold the write lock.
func (s *InMemoryCouponStore) persistLocked() error {
	if s.snap == nil {
		return nil
	}

	coupons := make([]models.Coupon, 0, len(s.coupons))
	for _, coupon := range s.coupons {
		coupons = append(coupons, coupon)
	}
	return s.snap.Snapshot(coupons)
}
