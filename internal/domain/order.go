package domain

// Order is created by the catalog service. ProductIDs is the flat wire form:
// one entry per unit, repeated per quantity.
type Order struct {
	ID         int64   `json:"id"`
	CustomerID int64   `json:"customerId"`
	ProductIDs []int64 `json:"productIds"`
	CouponCode string  `json:"couponCode,omitempty"`
	TaxPct     float64 `json:"taxPct"`
	Discount   float64 `json:"discount"`
	Total      float64 `json:"total"`
	Status     string  `json:"status,omitempty"`
	CreatedAt  string  `json:"createdAt,omitempty"`
}
