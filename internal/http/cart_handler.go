package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shophub/storefront/internal/backend"
	"github.com/shophub/storefront/internal/cart"
	"github.com/shophub/storefront/internal/domain"
	"github.com/shophub/storefront/internal/pricing"
	"github.com/shophub/storefront/internal/service"
)

type CartHandler struct {
	carts   *service.CartService
	timeout time.Duration
}

func NewCartHandler(carts *service.CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		timeout: timeout,
	}
}

type CartResponse struct {
	Items    []domain.CartItem `json:"items"`
	Units    int               `json:"units"`
	Subtotal float64           `json:"subtotal"`
	Message  string            `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no session established")
		return
	}

	items, _ := h.carts.Load(ctx, sessionID)
	respondJSON(w, http.StatusOK, cartResponse(items, ""))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no session established")
		return
	}

	// The body is the product snapshot the cart line embeds
	var req domain.Product
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be positive")
		return
	}
	if req.Price < 0 {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must not be negative")
		return
	}

	items := h.carts.Add(ctx, sessionID, req)
	respondJSON(w, http.StatusCreated, cartResponse(items, fmt.Sprintf("%s added to cart!", req.Name)))
}

func (h *CartHandler) IncrementItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no session established")
		return
	}

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	items := h.carts.Increment(ctx, sessionID, productID)
	respondJSON(w, http.StatusOK, cartResponse(items, ""))
}

func (h *CartHandler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no session established")
		return
	}

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	items := h.carts.Decrement(ctx, sessionID, productID)
	respondJSON(w, http.StatusOK, cartResponse(items, ""))
}

func cartResponse(items []domain.CartItem, message string) CartResponse {
	display := cart.Displayable(items)
	return CartResponse{
		Items:    display,
		Units:    cart.Units(display),
		Subtotal: pricing.Round2(pricing.Subtotal(display)),
		Message:  message,
	}
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productIDStr := chi.URLParam(r, "product_id")
	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: "",
	})
}

func handleBackendError(w http.ResponseWriter, err error) {
	// Map backend responses and transport failures to HTTP status codes
	var st *backend.StatusError
	if errors.As(err, &st) {
		switch {
		case st.Status == http.StatusNotFound:
			respondError(w, http.StatusNotFound, "not_found", "resource not found")
		case st.Status == http.StatusBadRequest:
			respondError(w, http.StatusBadRequest, "invalid_argument", st.Body)
		case st.Status >= 500:
			respondError(w, http.StatusBadGateway, "backend_unavailable", "backend service error")
		default:
			respondError(w, http.StatusBadGateway, "backend_error", st.Body)
		}
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		respondError(w, http.StatusGatewayTimeout, "timeout", "backend request timed out")
		return
	}

	respondError(w, http.StatusBadGateway, "backend_unreachable", "could not reach backend service")
}
