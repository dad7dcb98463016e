package store

import (
	"context"
	"testing"
	"time"

	"github.com/LEMNXCIX/neutra-order-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededCouponStore(t *testing.T) *InMemoryCouponStore {
	t.Helper()
	expiry := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	s := NewInMemoryCouponStore(nil)
	err := s.ReplaceAll(context.Background(), []models.Coupon{
		{Code: "SAVE10", Type: models.CouponTypePercent, Value: 10},
		{Code: "flat5", Type: models.CouponTypeAmount, Value: 5, Expires: &expiry},
	})
	require.NoError(t, err)
	return s
}

func TestCouponStore_FindByCodeNormalizes(t *testing.T) {
	s := seededCouponStore(t)

	for _, raw := range []string{"SAVE10", "save10", "  Save10  "} {
		coupon, err := s.FindByCode(context.Background(), raw)
		require.NoError(t, err, "lookup of %q", raw)
		assert.Equal(t, "SAVE10", coupon.Code)
	}

	// Codes are stored normalized even when seeded lowercase
	coupon, err := s.FindByCode(context.Background(), "FLAT5")
	require.NoError(t, err)
	assert.Equal(t, "FLAT5", coupon.Code)
	assert.Equal(t, models.CouponTypeAmount, coupon.Type)
}

func TestCouponStore_FindByCodeMisses(t *testing.T) {
	s := seededCouponStore(t)

	_, err := s.FindByCode(context.Background(), "UNKNOWN")
	assert.ErrorIs(t, err, ErrCouponNotFound)

	_, err = s.FindByCode(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrCouponNotFound)
}

func TestCouponStore_MarkUsed(t *testing.T) {
	s := seededCouponStore(t)

	require.NoError(t, s.MarkUsed(context.Background(), "save10"))

	coupon, err := s.FindByCode(context.Background(), "SAVE10")
	require.NoError(t, err)
	assert.True(t, coupon.Used)

	assert.ErrorIs(t, s.MarkUsed(context.Background(), "UNKNOWN"), ErrCouponNotFound)
}

func TestCouponStore_ReplaceAllRebuildsFilter(t *testing.T) {
	s := seededCouponStore(t)

	err := s.ReplaceAll(context.Background(), []models.Coupon{
		{Code: "WINTER", Type: models.CouponTypePercent, Value: 15},
	})
	require.NoError(t, err)

	_, err = s.FindByCode(context.Background(), "SAVE10")
	assert.ErrorIs(t, err, ErrCouponNotFound)

	coupon, err := s.FindByCode(context.Background(), "winter")
	require.NoError(t, err)
	assert.Equal(t, "WINTER", coupon.Code)
}

func TestCouponExpired(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.False(t, (&models.Coupon{}).Expired(now), "no expiry never expires")
	assert.True(t, (&models.Coupon{Expires: &past}).Expired(now))
	assert.False(t, (&models.Coupon{Expires: &future}).Expired(now))
}
