package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/LEMNXCIX/neutra-order-api/internal/service"
	"github.com/go-chi/chi/v5"
)

// CouponHandler handles coupon preview requests from the cart page
type CouponHandler struct {
	orderService *service.OrderService
	log          *slog.Logger
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(orderService *service.OrderService, log *slog.Logger) *CouponHandler {
	return &CouponHandler{
		orderService: orderService,
		log:          log,
	}
}

// PreviewCoupon handles GET /api/coupons/{code}
// Reports whether the code could currently be redeemed, plus its terms,
// without consuming it. The same checks run again at placement time.
func (h *CouponHandler) PreviewCoupon(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	coupon, err := h.orderService.PreviewCoupon(r.Context(), code)
	if err != nil {
		var message string
		switch {
		case errors.Is(err, service.ErrInvalidCoupon):
			message = "Invalid coupon"
		case errors.Is(err, service.ErrCouponUsed):
			message = "Coupon already used"
		case errors.Is(err, service.ErrCouponExpired):
			message = "Coupon expired"
		default:
			h.log.Error("coupon preview failed", "code", code, "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
			return
		}

		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"valid":   false,
			"code":    code,
			"message": message,
		}, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"valid": true,
		"code":  coupon.Code,
		"type":  coupon.Type,
		"value": coupon.Value,
	}, h.log)
}
