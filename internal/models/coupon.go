package models

import "time"

// Coupon discount types
const (
	CouponTypeAmount  = "amount"
	CouponTypePercent = "percent"
)

// Coupon is a single-use discount code. Codes are matched
// case-insensitively; Used flips to true exactly once, on the first
// successful order placement that redeems the code.
type Coupon struct {
	Code    string     `json:"code"`
	Type    string     `json:"type"`
	Value   float64    `json:"value"`
	Used    bool       `json:"used"`
	Expires *time.Time `json:"expires,omitempty"`
}

// Expired reports whether the coupon's expiry date lies before now.
// A coupon without an expiry never expires.
func (c *Coupon) Expired(now time.Time) bool {
	return c.Expires != nil && c.Expires.Before(now)
}
