package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"

	"github.com/shophub/storefront/internal/domain"
	"github.com/shophub/storefront/internal/pricing"
	"github.com/shophub/storefront/internal/session"
)

// CheckoutState is the transient per-session checkout state: the applied
// coupon (if any) and the chosen tax percentage.
type CheckoutState struct {
	Coupon *pricing.Coupon `json:"coupon,omitempty"`
	TaxPct float64         `json:"taxPct"`
}

// CheckoutService keeps checkout state, the post-purchase order snapshot and
// the last selected customer in the session store. All writes are
// best-effort.
type CheckoutService struct {
	store session.Store
}

func NewCheckoutService(store session.Store) *CheckoutService {
	return &CheckoutService{store: store}
}

// State returns the session's checkout state, falling back to no coupon and
// the default tax percentage.
func (s *CheckoutService) State(ctx context.Context, sessionID string) CheckoutState {
	fallback := CheckoutState{TaxPct: pricing.DefaultTaxPct}

	data, err := s.store.Get(ctx, sessionID, session.FieldCheckout)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			log.Printf("session checkout get error: %v", err)
		}
		return fallback
	}

	var st CheckoutState
	if err := json.Unmarshal(data, &st); err != nil {
		log.Printf("checkout state decode error: %v", err)
		return fallback
	}
	st.TaxPct = pricing.ClampTaxPct(st.TaxPct)
	return st
}

func (s *CheckoutService) SaveState(ctx context.Context, sessionID string, st CheckoutState) {
	data, err := json.Marshal(st)
	if err != nil {
		log.Printf("checkout state encode error: %v", err)
		return
	}
	if err := s.store.Set(ctx, sessionID, session.FieldCheckout, data); err != nil {
		log.Printf("session checkout set error: %v", err)
	}
}

// SaveOrder snapshots a placed order for the summary view and remembers the
// customer it was placed for.
func (s *CheckoutService) SaveOrder(ctx context.Context, sessionID string, order *domain.Order, customerID int64) {
	data, err := json.Marshal(order)
	if err != nil {
		log.Printf("order snapshot encode error: %v", err)
		return
	}
	if err := s.store.Set(ctx, sessionID, session.FieldOrder, data); err != nil {
		log.Printf("session order set error: %v", err)
	}
	id := strconv.FormatInt(customerID, 10)
	if err := s.store.Set(ctx, sessionID, session.FieldLastCustomer, []byte(id)); err != nil {
		log.Printf("session last customer set error: %v", err)
	}
}

// Order returns the session's last placed order, if one was snapshotted.
func (s *CheckoutService) Order(ctx context.Context, sessionID string) (*domain.Order, bool) {
	data, err := s.store.Get(ctx, sessionID, session.FieldOrder)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			log.Printf("session order get error: %v", err)
		}
		return nil, false
	}
	var order domain.Order
	if err := json.Unmarshal(data, &order); err != nil {
		log.Printf("order snapshot decode error: %v", err)
		return nil, false
	}
	return &order, true
}

// LastCustomerID returns the customer the session last placed an order for,
// or zero when unknown.
func (s *CheckoutService) LastCustomerID(ctx context.Context, sessionID string) int64 {
	data, err := s.store.Get(ctx, sessionID, session.FieldLastCustomer)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			log.Printf("session last customer get error: %v", err)
		}
		return 0
	}
	id, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
