package domain

// CartItem is one line of the cart. qty is never persisted at zero or below;
// a line that reaches zero is removed.
type CartItem struct {
	Product Product `json:"product"`
	Qty     int     `json:"qty"`
}
