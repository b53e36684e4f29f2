package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/shophub/storefront/internal/domain"
	"github.com/shophub/storefront/internal/pricing"
	"github.com/shophub/storefront/internal/service"
)

// OrderHistory fetches past orders from the catalog service.
type OrderHistory interface {
	OrdersByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error)
}

type OrdersHandler struct {
	catalog   OrderHistory
	products  ProductSource
	checkouts *service.CheckoutService
	timeout   time.Duration
}

func NewOrdersHandler(catalog OrderHistory, products ProductSource, checkouts *service.CheckoutService, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		catalog:   catalog,
		products:  products,
		checkouts: checkouts,
		timeout:   timeout,
	}
}

type OrderLineDTO struct {
	ProductID int64           `json:"productId"`
	Qty       int             `json:"qty"`
	Product   *domain.Product `json:"product,omitempty"`
	LineTotal float64         `json:"lineTotal,omitempty"`
}

type OrderViewDTO struct {
	ID        int64          `json:"id"`
	Status    string         `json:"status,omitempty"`
	CreatedAt string         `json:"createdAt,omitempty"`
	Total     float64        `json:"total"`
	Items     []OrderLineDTO `json:"items"`
}

type OrdersResponse struct {
	Orders []OrderViewDTO `json:"orders"`
	Error  string         `json:"error,omitempty"`
}

// List backs the order history page for the session's last customer. Read
// failures degrade to an empty history plus an inline error.
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	customerID := h.checkouts.LastCustomerID(ctx, sessionID)
	if customerID == 0 {
		customerID = 1 // first seeded customer, same default the pages use
	}

	orders, err := h.catalog.OrdersByCustomer(ctx, customerID)
	if err != nil {
		log.Printf("[%s] order history fetch failed: %v", getRequestID(r.Context()), err)
		respondJSON(w, http.StatusOK, OrdersResponse{
			Orders: []OrderViewDTO{},
			Error:  "failed to load orders",
		})
		return
	}

	// Product detail is cosmetic here; lines render without it on failure
	var productIndex map[int64]domain.Product
	if products, err := h.products.ListProducts(ctx); err != nil {
		log.Printf("[%s] product listing failed: %v", getRequestID(r.Context()), err)
	} else {
		productIndex = make(map[int64]domain.Product, len(products))
		for _, p := range products {
			productIndex[p.ID] = p
		}
	}

	views := make([]OrderViewDTO, 0, len(orders))
	for _, o := range orders {
		views = append(views, orderView(o, productIndex))
	}

	respondJSON(w, http.StatusOK, OrdersResponse{Orders: views})
}

// orderView groups an order's flat product ids back into (product, qty)
// lines, first-seen order preserved.
func orderView(o domain.Order, productIndex map[int64]domain.Product) OrderViewDTO {
	view := OrderViewDTO{
		ID:        o.ID,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
		Total:     o.Total,
		Items:     []OrderLineDTO{},
	}

	index := make(map[int64]int, len(o.ProductIDs))
	for _, id := range o.ProductIDs {
		if i, ok := index[id]; ok {
			view.Items[i].Qty++
			continue
		}
		index[id] = len(view.Items)
		view.Items = append(view.Items, OrderLineDTO{ProductID: id, Qty: 1})
	}

	for i := range view.Items {
		if p, ok := productIndex[view.Items[i].ProductID]; ok {
			product := p
			view.Items[i].Product = &product
			view.Items[i].LineTotal = pricing.Round2(p.Price * float64(view.Items[i].Qty))
		}
	}

	return view
}
