package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/shophub/storefront/internal/backend"
	"github.com/shophub/storefront/internal/domain"
)

// ProductSource serves the cached product listing.
type ProductSource interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	Invalidate()
}

// ProductCreator adds products to the catalog.
type ProductCreator interface {
	CreateProduct(ctx context.Context, p backend.NewProduct) error
}

type ProductHandler struct {
	products ProductSource
	catalog  ProductCreator
	timeout  time.Duration
}

func NewProductHandler(products ProductSource, catalog ProductCreator, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		products: products,
		catalog:  catalog,
		timeout:  timeout,
	}
}

type ProductsResponse struct {
	Products []domain.Product `json:"products"`
	Error    string           `json:"error,omitempty"`
}

// List returns the catalog. A backend failure degrades to an empty list plus
// an inline error so the page stays usable.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.products.ListProducts(ctx)
	if err != nil {
		log.Printf("[%s] product listing failed: %v", getRequestID(r.Context()), err)
		respondJSON(w, http.StatusOK, ProductsResponse{
			Products: []domain.Product{},
			Error:    "failed to load products",
		})
		return
	}
	if products == nil {
		products = []domain.Product{}
	}

	respondJSON(w, http.StatusOK, ProductsResponse{Products: products})
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req backend.NewProduct
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// Validate before any network call
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "name_required", "product name is required")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		respondError(w, http.StatusBadRequest, "description_required", "product description is required")
		return
	}
	if req.Price < 0 {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must not be negative")
		return
	}
	if req.Stock < 0 {
		respondError(w, http.StatusBadRequest, "invalid_stock", "stock must not be negative")
		return
	}

	if err := h.catalog.CreateProduct(ctx, req); err != nil {
		log.Printf("[%s] product create failed: %v", getRequestID(r.Context()), err)
		handleBackendError(w, err)
		return
	}

	h.products.Invalidate()
	respondJSON(w, http.StatusCreated, map[string]string{"message": "Product added successfully!"})
}
