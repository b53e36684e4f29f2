package pricing

import (
	"math"
	"strconv"
	"strings"

	"github.com/shophub/storefront/internal/domain"
)

const (
	// DefaultTaxPct is applied until the shopper changes it.
	DefaultTaxPct = 8
	// MaxTaxPct caps the tax percentage a shopper can enter.
	MaxTaxPct = 30
)

// Coupon is the currently applied discount. It is transient checkout state,
// never part of the cart snapshot.
type Coupon struct {
	Code     string  `json:"code"`
	Discount float64 `json:"discount"`
}

// Quote is the rendered price breakdown for a cart.
type Quote struct {
	Subtotal   float64 `json:"subtotal"`
	CouponCode string  `json:"couponCode,omitempty"`
	Discount   float64 `json:"discount"`
	TaxPct     float64 `json:"taxPct"`
	Tax        float64 `json:"tax"`
	Total      float64 `json:"total"`
}

// Subtotal sums price times quantity over the given items.
func Subtotal(items []domain.CartItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Product.Price * float64(it.Qty)
	}
	return total
}

// ApplyCoupon resolves raw coupon input against the subtotal. Empty input
// leaves the current coupon untouched. A finite positive number is a flat
// currency discount labelled FLAT-<n>. Known codes: SAVE10 (10% of subtotal),
// SAVE20 (20%), FLAT50 (flat 50). Anything else clears the coupon. The
// discount is clamped to the subtotal, then rounded to cents.
func ApplyCoupon(raw string, subtotal float64, current *Coupon) *Coupon {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return current
	}

	var (
		discount float64
		label    string
	)
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsInf(n, 0) && n > 0 {
		discount = n
		label = "FLAT-" + strconv.FormatFloat(n, 'f', -1, 64)
	} else {
		code := strings.ToUpper(trimmed)
		switch code {
		case "SAVE10":
			discount = subtotal * 0.10
		case "SAVE20":
			discount = subtotal * 0.20
		case "FLAT50":
			discount = 50
		default:
			return nil
		}
		label = code
	}

	return &Coupon{Code: label, Discount: Round2(math.Min(discount, subtotal))}
}

// ClampTaxPct bounds a tax percentage to [0, MaxTaxPct]. Applied at the point
// of user input, so downstream math never sees an out-of-range rate.
func ClampTaxPct(pct float64) float64 {
	if math.IsNaN(pct) || pct < 0 {
		return 0
	}
	if pct > MaxTaxPct {
		return MaxTaxPct
	}
	return pct
}

// Tax computes the tax owed on the post-discount amount.
func Tax(afterDiscount, taxPct float64) float64 {
	return math.Max(0, afterDiscount) * (taxPct / 100)
}

// Total is the post-discount amount plus tax, never negative.
func Total(subtotal, discount, taxPct float64) float64 {
	after := subtotal - discount
	return math.Max(0, after) + math.Max(0, after*(taxPct/100))
}

// NewQuote builds the breakdown for a cart under the given coupon and tax
// percentage. Currency figures are rounded to cents for rendering.
func NewQuote(items []domain.CartItem, coupon *Coupon, taxPct float64) Quote {
	subtotal := Subtotal(items)
	q := Quote{
		Subtotal: Round2(subtotal),
		TaxPct:   taxPct,
	}
	var discount float64
	if coupon != nil {
		discount = coupon.Discount
		q.CouponCode = coupon.Code
		q.Discount = Round2(discount)
	}
	q.Tax = Round2(Tax(subtotal-discount, taxPct))
	q.Total = Round2(Total(subtotal, discount, taxPct))
	return q
}

// Round2 rounds a currency amount to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
