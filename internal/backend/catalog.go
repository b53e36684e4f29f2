package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shophub/storefront/internal/domain"
)

// CatalogClient talks to the product/order service.
type CatalogClient struct {
	baseURL string
	client  *http.Client
}

func NewCatalogClient(baseURL string, timeout time.Duration) *CatalogClient {
	return &CatalogClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(timeout),
	}
}

// NewProduct is the payload for creating a product in the catalog.
type NewProduct struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
}

// NewOrder is the order placement payload. ProductIDs is flat, one entry per
// unit repeated by quantity.
type NewOrder struct {
	CustomerID int64   `json:"customerId"`
	ProductIDs []int64 `json:"productIds"`
	CouponCode string  `json:"couponCode,omitempty"`
	TaxPct     float64 `json:"taxPct"`
	Discount   float64 `json:"discount"`
}

func (c *CatalogClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := doJSON(ctx, c.client, http.MethodGet, c.baseURL+"/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *CatalogClient) CreateProduct(ctx context.Context, p NewProduct) error {
	return doJSON(ctx, c.client, http.MethodPost, c.baseURL+"/products", p, nil)
}

// PlaceOrder submits an order. The call is not idempotent and is never
// retried; a failure leaves any server-side effect unknown to the caller.
func (c *CatalogClient) PlaceOrder(ctx context.Context, o NewOrder) (*domain.Order, error) {
	var placed domain.Order
	if err := doJSON(ctx, c.client, http.MethodPost, c.baseURL+"/orders", o, &placed); err != nil {
		return nil, err
	}
	return &placed, nil
}

func (c *CatalogClient) OrdersByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error) {
	var orders []domain.Order
	url := fmt.Sprintf("%s/orders/customer/%d", c.baseURL, customerID)
	if err := doJSON(ctx, c.client, http.MethodGet, url, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
