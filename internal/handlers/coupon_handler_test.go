package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LEMNXCIX/neutra-order-api/internal/config"
	"github.com/LEMNXCIX/neutra-order-api/internal/models"
	"github.com/LEMNXCIX/neutra-order-api/internal/service"
	"github.com/LEMNXCIX/neutra-order-api/internal/store"
	"github.com/go-chi/chi/v5"
)

func newCouponRouter(t *testing.T, coupons []models.Coupon) http.Handler {
	t.Helper()

	couponStore := store.NewInMemoryCouponStore(nil)
	if err := couponStore.ReplaceAll(context.Background(), coupons); err != nil {
		t.Fatalf("failed to seed coupons: %v", err)
	}

	cfg := config.OrderConfig{MaxItemQty: 999}
	orderService := service.NewOrderService(
		store.NewInMemoryProductStore(nil),
		couponStore,
		store.NewInMemoryOrderStore(nil),
		cfg,
		testLogger(),
	)
	handler := NewCouponHandler(orderService, testLogger())

	r := chi.NewRouter()
	r.Get("/api/coupons/{code}", handler.PreviewCoupon)
	return r
}

func TestCouponHandler_PreviewCoupon(t *testing.T) {
	yesterday := time.Now().Add(-24 * time.Hour)
	router := newCouponRouter(t, []models.Coupon{
		{Code: "SAVE10", Type: models.CouponTypePercent, Value: 10},
		{Code: "SPENT", Type: models.CouponTypeAmount, Value: 5, Used: true},
		{Code: "OLD", Type: models.CouponTypeAmount, Value: 5, Expires: &yesterday},
	})

	tests := []struct {
		name        string
		code        string
		wantValid   bool
		wantMessage string
	}{
		{name: "redeemable", code: "save10", wantValid: true},
		{name: "unknown", code: "NOPE", wantMessage: "Invalid coupon"},
		{name: "used", code: "SPENT", wantMessage: "Coupon already used"},
		{name: "expired", code: "OLD", wantMessage: "Coupon expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/coupons/"+tt.code, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}

			var resp struct {
				Valid   bool    `json:"valid"`
				Code    string  `json:"code"`
				Type    string  `json:"type"`
				Value   float64 `json:"value"`
				Message string  `json:"message"`
			}
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}

			if resp.Valid != tt.wantValid {
				t.Errorf("valid = %v, want %v", resp.Valid, tt.wantValid)
			}
			if resp.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", resp.Message, tt.wantMessage)
			}
			if tt.wantValid && (resp.Code != "SAVE10" || resp.Type != models.CouponTypePercent || resp.Value != 10) {
				t.Errorf("terms = %s/%s/%v, want SAVE10/percent/10", resp.Code, resp.Type, resp.Value)
			}
		})
	}
}
