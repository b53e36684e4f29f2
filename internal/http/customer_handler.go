package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shophub/storefront/internal/backend"
	"github.com/shophub/storefront/internal/domain"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// CustomerAPI is the customer service surface the handler needs.
type CustomerAPI interface {
	List(ctx context.Context) ([]domain.Customer, error)
	Get(ctx context.Context, id int64) (*domain.Customer, error)
	Create(ctx context.Context, in backend.CustomerInput) error
	Update(ctx context.Context, id int64, in backend.CustomerInput) error
	Delete(ctx context.Context, id int64) error
}

type CustomerHandler struct {
	customers CustomerAPI
	timeout   time.Duration
}

func NewCustomerHandler(customers CustomerAPI, timeout time.Duration) *CustomerHandler {
	return &CustomerHandler{
		customers: customers,
		timeout:   timeout,
	}
}

type CustomersResponse struct {
	Customers []domain.Customer `json:"customers"`
	Error     string            `json:"error,omitempty"`
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	customers, err := h.customers.List(ctx)
	if err != nil {
		log.Printf("[%s] customer listing failed: %v", getRequestID(r.Context()), err)
		respondJSON(w, http.StatusOK, CustomersResponse{
			Customers: []domain.Customer{},
			Error:     "failed to load customers",
		})
		return
	}
	if customers == nil {
		customers = []domain.Customer{}
	}

	respondJSON(w, http.StatusOK, CustomersResponse{Customers: customers})
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	customerID, ok := customerIDParam(w, r)
	if !ok {
		return
	}

	customer, err := h.customers.Get(ctx, customerID)
	if err != nil {
		handleBackendError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req backend.CustomerInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if !validCustomerInput(w, req) {
		return
	}

	if err := h.customers.Create(ctx, req); err != nil {
		log.Printf("[%s] customer create failed: %v", getRequestID(r.Context()), err)
		handleBackendError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"message": "Customer created"})
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	customerID, ok := customerIDParam(w, r)
	if !ok {
		return
	}

	var req backend.CustomerInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if !validCustomerInput(w, req) {
		return
	}

	if err := h.customers.Update(ctx, customerID, req); err != nil {
		log.Printf("[%s] customer update failed: %v", getRequestID(r.Context()), err)
		handleBackendError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Customer updated"})
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	customerID, ok := customerIDParam(w, r)
	if !ok {
		return
	}

	if err := h.customers.Delete(ctx, customerID); err != nil {
		log.Printf("[%s] customer delete failed: %v", getRequestID(r.Context()), err)
		handleBackendError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Customer deleted"})
}

// validCustomerInput enforces the form rules before any network call.
func validCustomerInput(w http.ResponseWriter, in backend.CustomerInput) bool {
	if strings.TrimSpace(in.Name) == "" {
		respondError(w, http.StatusBadRequest, "name_required", "name is required")
		return false
	}
	if !emailPattern.MatchString(strings.TrimSpace(in.Email)) {
		respondError(w, http.StatusBadRequest, "invalid_email", "valid email is required")
		return false
	}
	return true
}

func customerIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	customerIDStr := chi.URLParam(r, "customer_id")
	customerID, err := strconv.ParseInt(customerIDStr, 10, 64)
	if err != nil || customerID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_customer_id", "customer_id must be a positive integer")
		return 0, false
	}
	return customerID, true
}
