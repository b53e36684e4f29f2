package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/shophub/storefront/internal/cart"
	"github.com/shophub/storefront/internal/domain"
	"github.com/shophub/storefront/internal/session"
)

// CartService owns the session cart: it hydrates snapshots (migrating legacy
// ones on read), applies mutations, and mirrors every change back to the
// session store. Store writes are best-effort; a failed write keeps the
// in-memory result for the current request.
type CartService struct {
	store session.Store
}

func NewCartService(store session.Store) *CartService {
	return &CartService{store: store}
}

// Load returns the cart for the session. found reports whether a snapshot was
// ever persisted, which checkout uses to send shoppers back to the product
// page. Store and decode failures degrade to an empty cart.
func (s *CartService) Load(ctx context.Context, sessionID string) (items []domain.CartItem, found bool) {
	data, err := s.store.Get(ctx, sessionID, session.FieldCart)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			log.Printf("session cart get error: %v", err)
		}
		return nil, false
	}

	items, migrated, err := cart.Decode(data)
	if err != nil {
		log.Printf("cart snapshot decode error: %v", err)
		return []domain.CartItem{}, true
	}
	if migrated {
		s.persist(ctx, sessionID, items)
	}
	return items, true
}

// Add puts one unit of the product in the session cart and persists it.
func (s *CartService) Add(ctx context.Context, sessionID string, p domain.Product) []domain.CartItem {
	items, _ := s.Load(ctx, sessionID)
	items = cart.Add(items, p)
	s.persist(ctx, sessionID, items)
	return items
}

// Increment bumps the matching line by one and persists the cart.
func (s *CartService) Increment(ctx context.Context, sessionID string, productID int64) []domain.CartItem {
	items, _ := s.Load(ctx, sessionID)
	items = cart.Increment(items, productID)
	s.persist(ctx, sessionID, items)
	return items
}

// Decrement lowers the matching line by one, dropping it at zero, and
// persists the cart.
func (s *CartService) Decrement(ctx context.Context, sessionID string, productID int64) []domain.CartItem {
	items, _ := s.Load(ctx, sessionID)
	items = cart.Decrement(items, productID)
	s.persist(ctx, sessionID, items)
	return items
}

// Clear removes the cart snapshot after a completed purchase.
func (s *CartService) Clear(ctx context.Context, sessionID string) {
	if err := s.store.Delete(ctx, sessionID, session.FieldCart); err != nil {
		log.Printf("session cart delete error: %v", err)
	}
}

func (s *CartService) persist(ctx context.Context, sessionID string, items []domain.CartItem) {
	if items == nil {
		items = []domain.CartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		log.Printf("cart snapshot encode error: %v", err)
		return
	}
	if err := s.store.Set(ctx, sessionID, session.FieldCart, data); err != nil {
		log.Printf("session cart set error: %v", err)
	}
}
