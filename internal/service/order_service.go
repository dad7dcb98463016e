package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/LEMNXCIX/neutra-order-api/internal/config"
	"github.com/LEMNXCIX/neutra-order-api/internal/models"
	"github.com/LEMNXCIX/neutra-order-api/internal/store"
	"github.com/google/uuid"
)

var (
	ErrUnauthenticated   = errors.New("caller is not authenticated")
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrInvalidItemFormat = errors.New("item is missing a product id")
	ErrInvalidQuantity   = errors.New("item quantity is out of range")
	ErrMissingAddress    = errors.New("delivery address is required")
	ErrInvalidCoupon     = errors.New("coupon code is not valid")
	ErrCouponUsed        = errors.New("coupon has already been used")
	ErrCouponExpired     = errors.New("coupon has expired")
)

// UnknownProductError identifies which requested product id does not
// exist in the catalog.
type UnknownProductError struct {
	ID string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown product id: %s", e.ID)
}

// InsufficientStockError reports a stock shortfall, including how many
// units remain so the storefront can show it.
type InsufficientStockError struct {
	ProductID string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: %d available", e.ProductID, e.Available)
}

// OrderService turns a validated cart into a persisted order: it prices
// the lines from the catalog, applies at most one coupon, gates on
// stock, appends the order, decrements stock, and consumes the coupon.
type OrderService struct {
	products store.ProductStore
	coupons  store.CouponStore
	orders   store.OrderStore
	log      *slog.Logger

	maxItemQty     int
	requireAddress bool
	now            func() time.Time

	// placeMu serializes the commit section (coupon resolution through
	// coupon consumption) across concurrent placements. Without it two
	// orders can pass the stock gate against the same read,
	// overselling, or both read a coupon as unused before either marks
	// it, double-spending a single-use code.
	placeMu sync.Mutex
}

// NewOrderService creates a new order service
func NewOrderService(products store.ProductStore, coupons store.CouponStore, orders store.OrderStore, cfg config.OrderConfig, log *slog.Logger) *OrderService {
	return &OrderService{
		products:       products,
		coupons:        coupons,
		orders:         orders,
		log:            log,
		maxItemQty:     cfg.MaxItemQty,
		requireAddress: cfg.RequireAddress,
		now:            time.Now,
	}
}

// PlaceOrder validates, prices, and persists an order for userID.
// Prices, names, and coupon terms are snapshotted from the stores at
// this instant; nothing from the request beyond ids, quantities, the
// address, and the coupon code is trusted.
//
// The order write is the commit point: once it succeeds the placement
// is reported as successful even if the stock decrement or the coupon
// write fails afterwards. Those failures are logged for reconciliation.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, req models.OrderRequest) (*models.Order, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	if s.requireAddress && strings.TrimSpace(req.Address) == "" {
		return nil, ErrMissingAddress
	}

	// Fold duplicate lines per product so the stock gate sees the
	// order's full demand, not each line in isolation
	quantities := make(map[string]int, len(req.Items))
	orderedIDs := make([]string, 0, len(req.Items))

	for _, item := range req.Items {
		if item.ID == "" {
			return nil, ErrInvalidItemFormat
		}
		if item.Qty != math.Trunc(item.Qty) {
			return nil, ErrInvalidQuantity
		}
		qty := int(item.Qty)
		if qty < 1 || qty > s.maxItemQty {
			return nil, ErrInvalidQuantity
		}

		if _, seen := quantities[item.ID]; !seen {
			orderedIDs = append(orderedIDs, item.ID)
		}
		quantities[item.ID] += qty
	}

	// Price every line from the catalog
	lines := make([]models.OrderItem, 0, len(orderedIDs))
	var subtotal float64

	for _, id := range orderedIDs {
		product, err := s.products.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrProductNotFound) {
				return nil, &UnknownProductError{ID: id}
			}
			return nil, fmt.Errorf("failed to read product %s: %w", id, err)
		}

		qty := quantities[id]
		lines = append(lines, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Title,
			Quantity:  qty,
			UnitPrice: product.Price,
		})
		subtotal += product.Price * float64(qty)
	}
	subtotal = round2(subtotal)

	s.placeMu.Lock()
	defer s.placeMu.Unlock()

	// Resolve the optional coupon inside the commit section: the used
	// check and the MarkUsed write below must not interleave with
	// another placement's, or a single-use code redeems twice. The
	// flag itself is only flipped after the order commits.
	total := subtotal
	var couponSnapshot *models.CouponSnapshot

	if req.CouponCode != "" {
		coupon, err := s.coupons.FindByCode(ctx, req.CouponCode)
		if err != nil {
			if errors.Is(err, store.ErrCouponNotFound) {
				return nil, ErrInvalidCoupon
			}
			return nil, fmt.Errorf("failed to read coupon: %w", err)
		}
		if coupon.Used {
			return nil, ErrCouponUsed
		}
		if coupon.Expired(s.now()) {
			return nil, ErrCouponExpired
		}

		discount := couponDiscount(coupon, subtotal)
		total = round2(subtotal - discount)
		if total < 0 {
			total = 0
		}

		couponSnapshot = &models.CouponSnapshot{
			Code:           coupon.Code,
			Type:           coupon.Type,
			Value:          coupon.Value,
			DiscountAmount: discount,
		}
	}

	// Stock gate: every product must cover the order's demand before
	// anything is written
	for _, id := range orderedIDs {
		product, err := s.products.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrProductNotFound) {
				return nil, &UnknownProductError{ID: id}
			}
			return nil, fmt.Errorf("failed to read product %s: %w", id, err)
		}
		if quantities[id] > product.Stock {
			return nil, &InsufficientStockError{ProductID: id, Available: product.Stock}
		}
	}

	order := models.Order{
		ID:      uuid.New().String(),
		UserID:  userID,
		Items:   lines,
		Total:   total,
		Status:  models.StatusPending,
		Address: req.Address,
		Coupon:  couponSnapshot,
		Date:    s.now(),
	}

	// Commit point
	if err := s.orders.Prepend(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	for _, id := range orderedIDs {
		if _, err := s.products.DecrementStock(ctx, id, quantities[id]); err != nil {
			s.log.Error("stock decrement failed after order commit",
				"order_id", order.ID,
				"product_id", id,
				"quantity", quantities[id],
				"error", err,
			)
		}
	}

	if couponSnapshot != nil {
		if err := s.coupons.MarkUsed(ctx, couponSnapshot.Code); err != nil {
			s.log.Error("coupon consumption failed after order commit",
				"order_id", order.ID,
				"coupon", couponSnapshot.Code,
				"error", err,
			)
		}
	}

	s.log.Info("order placed",
		"order_id", order.ID,
		"user_id", userID,
		"items", len(lines),
		"total", total,
	)

	return &order, nil
}

// ListOrders returns one page of the caller's orders, newest first
func (s *OrderService) ListOrders(ctx context.Context, userID string, filter store.OrderFilter) ([]models.Order, int, error) {
	if userID == "" {
		return nil, 0, ErrUnauthenticated
	}
	filter.UserID = userID
	return s.orders.List(ctx, filter)
}

// PreviewCoupon validates a coupon without consuming it, for the cart
// page. It applies the same checks as PlaceOrder so the preview and the
// commit path cannot disagree.
func (s *OrderService) PreviewCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	coupon, err := s.coupons.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrCouponNotFound) {
			return nil, ErrInvalidCoupon
		}
		return nil, fmt.Errorf("failed to read coupon: %w", err)
	}
	if coupon.Used {
		return nil, ErrCouponUsed
	}
	if coupon.Expired(s.now()) {
		return nil, ErrCouponExpired
	}
	return coupon, nil
}

// couponDiscount computes the discount a coupon grants on a subtotal.
// Percent coupons take a rounded share; amount coupons never discount
// more than the subtotal itself.
func couponDiscount(coupon *models.Coupon, subtotal float64) float64 {
	switch coupon.Type {
	case models.CouponTypePercent:
		return round2(subtotal * coupon.Value / 100)
	case models.CouponTypeAmount:
		return math.Min(subtotal, coupon.Value)
	default:
		return 0
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
