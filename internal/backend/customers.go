package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shophub/storefront/internal/domain"
)

// CustomerClient talks to the customer service. Customers are read and
// written as whole snapshots.
type CustomerClient struct {
	baseURL string
	client  *http.Client
}

func NewCustomerClient(baseURL string, timeout time.Duration) *CustomerClient {
	return &CustomerClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(timeout),
	}
}

// CustomerInput is the create/update payload.
type CustomerInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
}

func (c *CustomerClient) List(ctx context.Context) ([]domain.Customer, error) {
	var customers []domain.Customer
	if err := doJSON(ctx, c.client, http.MethodGet, c.baseURL+"/customers", nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (c *CustomerClient) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	var customer domain.Customer
	url := fmt.Sprintf("%s/customers/%d", c.baseURL, id)
	if err := doJSON(ctx, c.client, http.MethodGet, url, nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *CustomerClient) Create(ctx context.Context, in CustomerInput) error {
	return doJSON(ctx, c.client, http.MethodPost, c.baseURL+"/customers", in, nil)
}

func (c *CustomerClient) Update(ctx context.Context, id int64, in CustomerInput) error {
	url := fmt.Sprintf("%s/customers/%d", c.baseURL, id)
	return doJSON(ctx, c.client, http.MethodPut, url, in, nil)
}

func (c *CustomerClient) Delete(ctx context.Context, id int64) error {
	url := fmt.Sprintf("%s/customers/%d", c.baseURL, id)
	return doJSON(ctx, c.client, http.MethodDelete, url, nil, nil)
}
