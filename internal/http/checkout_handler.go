package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/shophub/storefront/internal/backend"
	"github.com/shophub/storefront/internal/cart"
	"github.com/shophub/storefront/internal/domain"
	"github.com/shophub/storefront/internal/pricing"
	"github.com/shophub/storefront/internal/service"
)

// OrderPlacer submits orders to the catalog service.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, o backend.NewOrder) (*domain.Order, error)
}

// CustomerLister fetches the customer list for the checkout form.
type CustomerLister interface {
	List(ctx context.Context) ([]domain.Customer, error)
}

type CheckoutHandler struct {
	carts     *service.CartService
	checkouts *service.CheckoutService
	catalog   OrderPlacer
	customers CustomerLister
	timeout   time.Duration
}

func NewCheckoutHandler(carts *service.CartService, checkouts *service.CheckoutService, catalog OrderPlacer, customers CustomerLister, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		carts:     carts,
		checkouts: checkouts,
		catalog:   catalog,
		customers: customers,
		timeout:   timeout,
	}
}

type CheckoutViewResponse struct {
	Items          []domain.CartItem `json:"items"`
	Customers      []domain.Customer `json:"customers"`
	CustomersError string            `json:"customersError,omitempty"`
	Quote          pricing.Quote     `json:"quote"`
}

type ApplyCouponRequestDTO struct {
	Code string `json:"code"`
}

type SetTaxRequestDTO struct {
	TaxPct float64 `json:"taxPct"`
}

type PlaceOrderRequestDTO struct {
	CustomerID int64  `json:"customerId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Address    string `json:"address"`
}

// View backs the checkout page. Checkout requires a previously established
// cart; without one the shopper is sent back to the product page.
func (h *CheckoutHandler) View(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no session established")
		return
	}

	items, found := h.carts.Load(ctx, sessionID)
	if !found {
		respondError(w, http.StatusConflict, "cart_missing", "no cart for this session")
		return
	}
	display := cart.Displayable(items)

	state := h.checkouts.State(ctx, sessionID)
	resp := CheckoutViewResponse{
		Items: display,
		Quote: pricing.NewQuote(display, state.Coupon, state.TaxPct),
	}

	customers, err := h.customers.List(ctx)
	if err != nil {
		// Keep the page usable; the shopper can still fill the form
		log.Printf("[%s] customer listing failed: %v", getRequestID(r.Context()), err)
		resp.Customers = []domain.Customer{}
		resp.CustomersError = "failed to load customers"
	} else {
		resp.Customers = customers
		if resp.Customers == nil {
			resp.Customers = []domain.Customer{}
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *CheckoutHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no session established")
		return
	}

	var req ApplyCouponRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	items, found := h.carts.Load(ctx, sessionID)
	if !found {
		respondError(w, http.StatusConflict, "cart_missing", "no cart for this session")
		return
	}
	display := cart.Displayable(items)

	state := h.checkouts.State(ctx, sessionID)
	state.Coupon = pricing.ApplyCoupon(req.Code, pricing.Subtotal(display), state.Coupon)
	h.checkouts.SaveState(ctx, sessionID, state)

	respondJSON(w, http.StatusOK, pricing.NewQuote(display, state.Coupon, state.TaxPct))
}

func (h *CheckoutHandler) SetTax(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no session established")
		return
	}

	var req SetTaxRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	items, found := h.carts.Load(ctx, sessionID)
	if !found {
		respondError(w, http.StatusConflict, "cart_missing", "no cart for this session")
		return
	}
	display := cart.Displayable(items)

	state := h.checkouts.State(ctx, sessionID)
	state.TaxPct = pricing.ClampTaxPct(req.TaxPct)
	h.checkouts.SaveState(ctx, sessionID, state)

	respondJSON(w, http.StatusOK, pricing.NewQuote(display, state.Coupon, state.TaxPct))
}

func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no session established")
		return
	}

	var req PlaceOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	items, found := h.carts.Load(ctx, sessionID)
	if !found {
		respondError(w, http.StatusConflict, "cart_missing", "no cart for this session")
		return
	}
	display := cart.Displayable(items)
	if len(display) == 0 {
		respondError(w, http.StatusBadRequest, "empty_cart", "your cart is empty")
		return
	}

	// Validate before any network call
	if req.CustomerID <= 0 {
		respondError(w, http.StatusBadRequest, "customer_required", "please select a customer")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "name_required", "name is required")
		return
	}
	if !emailPattern.MatchString(strings.TrimSpace(req.Email)) {
		respondError(w, http.StatusBadRequest, "invalid_email", "valid email is required")
		return
	}
	if strings.TrimSpace(req.Address) == "" {
		respondError(w, http.StatusBadRequest, "address_required", "shipping address is required")
		return
	}

	state := h.checkouts.State(ctx, sessionID)

	// Flatten to the wire form: one product id per unit
	var productIDs []int64
	for _, it := range display {
		for i := 0; i < it.Qty; i++ {
			productIDs = append(productIDs, it.Product.ID)
		}
	}

	order := backend.NewOrder{
		CustomerID: req.CustomerID,
		ProductIDs: productIDs,
		TaxPct:     state.TaxPct,
	}
	if state.Coupon != nil {
		order.CouponCode = state.Coupon.Code
		order.Discount = state.Coupon.Discount
	}

	placed, err := h.catalog.PlaceOrder(ctx, order)
	if err != nil {
		log.Printf("[%s] order placement failed: %v", getRequestID(r.Context()), err)
		handleBackendError(w, err)
		return
	}

	h.checkouts.SaveOrder(ctx, sessionID, placed, req.CustomerID)
	respondJSON(w, http.StatusCreated, placed)
}

// Summary returns the last placed order and retires the cart snapshot, the
// post-purchase cleanup the summary page triggers.
func (h *CheckoutHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no session established")
		return
	}

	order, ok := h.checkouts.Order(ctx, sessionID)
	if !ok {
		respondError(w, http.StatusNotFound, "order_missing", "no recent order for this session")
		return
	}

	h.carts.Clear(ctx, sessionID)
	respondJSON(w, http.StatusOK, order)
}
