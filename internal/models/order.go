package models

import "time"

// Order statuses. An order starts at StatusPending; transitions are
// performed by the admin backend, not by this service.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// OrderRequest represents an incoming order request
type OrderRequest struct {
	Items      []OrderItemRequest `json:"items"`
	Address    string             `json:"address"`
	CouponCode string             `json:"couponCode,omitempty"`
}

// OrderItemRequest is a single requested line. Qty is decoded as a
// float so that fractional quantities can be rejected explicitly
// instead of failing with an opaque JSON error.
type OrderItemRequest struct {
	ID  string  `json:"id"`
	Qty float64 `json:"qty"`
}

// OrderItem is a priced line inside a placed order. Name and UnitPrice
// are snapshots taken from the catalog at placement time; later catalog
// edits do not alter placed orders.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// CouponSnapshot freezes the redeemed coupon's terms into the order.
type CouponSnapshot struct {
	Code           string  `json:"code"`
	Type           string  `json:"type"`
	Value          float64 `json:"value"`
	DiscountAmount float64 `json:"discountAmount"`
}

// Order is a placed order. Immutable once created, except for Status
// which the admin backend advances.
type Order struct {
	ID      string          `json:"id"`
	UserID  string          `json:"userId"`
	Items   []OrderItem     `json:"items"`
	Total   float64         `json:"total"`
	Status  string          `json:"status"`
	Address string          `json:"address"`
	Coupon  *CouponSnapshot `json:"coupon,omitempty"`
	Date    time.Time       `json:"date"`
}
