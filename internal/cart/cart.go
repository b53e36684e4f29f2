package cart

import (
	"encoding/json"
	"fmt"

	"github.com/shophub/storefront/internal/domain"
)

// Decode parses a persisted cart snapshot. The current shape is a list of
// {product, qty} items. Older snapshots stored a flat product list with one
// entry per unit; those are grouped by product id in first-seen order and the
// caller is told to re-persist the normalized form (migrated == true).
func Decode(data []byte) (items []domain.CartItem, migrated bool, err error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false, fmt.Errorf("decode cart snapshot: %w", err)
	}
	if len(raw) == 0 {
		return []domain.CartItem{}, false, nil
	}

	var probe struct {
		Product json.RawMessage `json:"product"`
		Qty     json.RawMessage `json:"qty"`
	}
	if err := json.Unmarshal(raw[0], &probe); err == nil && probe.Product != nil && probe.Qty != nil {
		var its []domain.CartItem
		if err := json.Unmarshal(data, &its); err != nil {
			return nil, false, fmt.Errorf("decode cart items: %w", err)
		}
		return its, false, nil
	}

	// Legacy shape: flat list of products, repeated per unit.
	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, false, fmt.Errorf("decode legacy cart: %w", err)
	}
	its := make([]domain.CartItem, 0, len(products))
	index := make(map[int64]int, len(products))
	for _, p := range products {
		if i, ok := index[p.ID]; ok {
			its[i].Qty++
			continue
		}
		index[p.ID] = len(its)
		its = append(its, domain.CartItem{Product: p, Qty: 1})
	}
	return its, true, nil
}

// Add puts one unit of product in the cart, merging with an existing line so
// there is at most one line per product id.
func Add(items []domain.CartItem, p domain.Product) []domain.CartItem {
	for i := range items {
		if items[i].Product.ID == p.ID {
			items[i].Qty++
			return items
		}
	}
	return append(items, domain.CartItem{Product: p, Qty: 1})
}

// Increment bumps the quantity of the matching line by one.
func Increment(items []domain.CartItem, productID int64) []domain.CartItem {
	for i := range items {
		if items[i].Product.ID == productID {
			items[i].Qty++
		}
	}
	return items
}

// Decrement lowers the matching line by one and drops any line at zero.
func Decrement(items []domain.CartItem, productID int64) []domain.CartItem {
	out := items[:0]
	for _, it := range items {
		if it.Product.ID == productID {
			it.Qty--
		}
		if it.Qty > 0 {
			out = append(out, it)
		}
	}
	return out
}

// Displayable drops malformed lines (no product snapshot or non-positive
// quantity) so a corrupted snapshot cannot break rendering or totals.
func Displayable(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(items))
	for _, it := range items {
		if it.Product.ID > 0 && it.Qty > 0 {
			out = append(out, it)
		}
	}
	return out
}

// Units counts the units across all lines, the number shown on the cart badge.
func Units(items []domain.CartItem) int {
	var n int
	for _, it := range items {
		n += it.Qty
	}
	return n
}
