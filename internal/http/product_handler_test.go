package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shophub/storefront/internal/backend"
	"github.com/shophub/storefront/internal/domain"
)

type ProductSourceMock struct {
	products    []domain.Product
	err         error
	invalidated bool
}

func (m *ProductSourceMock) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

func (m *ProductSourceMock) Invalidate() {
	m.invalidated = true
}

type ProductCreatorMock struct {
	err     error
	created []backend.NewProduct
}

func (m *ProductCreatorMock) CreateProduct(ctx context.Context, p backend.NewProduct) error {
	m.created = append(m.created, p)
	return m.err
}

func TestListProducts_Success(t *testing.T) {
	source := &ProductSourceMock{
		products: []domain.Product{
			{ID: 1, Name: "Mug", Price: 9.99},
			{ID: 2, Name: "Shirt", Price: 24.50},
		},
	}
	handler := NewProductHandler(source, &ProductCreatorMock{}, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)

	handler.List(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	var response ProductsResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(response.Products) != 2 {
		t.Errorf("Expected 2 products, got %d", len(response.Products))
	}
	if response.Error != "" {
		t.Errorf("Expected no error, got '%s'", response.Error)
	}
}

func TestListProducts_BackendFailureDegrades(t *testing.T) {
	source := &ProductSourceMock{err: errors.New("catalog down")}
	handler := NewProductHandler(source, &ProductCreatorMock{}, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)

	handler.List(recorder, request)

	// reads never fail the page, they degrade
	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	var response ProductsResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(response.Products) != 0 {
		t.Errorf("Expected empty products, got %d", len(response.Products))
	}
	if response.Error == "" {
		t.Error("Expected inline error to be set")
	}
}

func TestCreateProduct_Success(t *testing.T) {
	source := &ProductSourceMock{}
	creator := &ProductCreatorMock{}
	handler := NewProductHandler(source, creator, 5*time.Second)

	req := backend.NewProduct{
		Name:        "Mug",
		Description: "A mug",
		Price:       9.99,
		Stock:       10,
	}
	reqBytes, _ := json.Marshal(req)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/", bytes.NewReader(reqBytes))

	handler.Create(recorder, request)

	if recorder.Code != http.StatusCreated {
		t.Errorf("Expected status code %d, got %d", http.StatusCreated, recorder.Code)
	}
	if len(creator.created) != 1 {
		t.Fatalf("Expected 1 create call, got %d", len(creator.created))
	}
	if !source.invalidated {
		t.Error("Expected listing cache invalidated after create")
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	tests := []struct {
		name         string
		req          backend.NewProduct
		expectedCode string
	}{
		{"missing name", backend.NewProduct{Description: "d", Price: 1, Stock: 1}, "name_required"},
		{"missing description", backend.NewProduct{Name: "n", Price: 1, Stock: 1}, "description_required"},
		{"negative price", backend.NewProduct{Name: "n", Description: "d", Price: -1, Stock: 1}, "invalid_price"},
		{"negative stock", backend.NewProduct{Name: "n", Description: "d", Price: 1, Stock: -1}, "invalid_stock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creator := &ProductCreatorMock{}
			handler := NewProductHandler(&ProductSourceMock{}, creator, 5*time.Second)

			reqBytes, _ := json.Marshal(tt.req)
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest("POST", "/", bytes.NewReader(reqBytes))

			handler.Create(recorder, request)

			if recorder.Code != http.StatusBadRequest {
				t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
			}

			var response ErrorResponse
			json.NewDecoder(recorder.Body).Decode(&response)
			if response.Code != tt.expectedCode {
				t.Errorf("Expected error code '%s', got '%s'", tt.expectedCode, response.Code)
			}
			if len(creator.created) != 0 {
				t.Errorf("Expected no backend call, got %d", len(creator.created))
			}
		})
	}
}

func TestCreateProduct_BackendError(t *testing.T) {
	source := &ProductSourceMock{}
	creator := &ProductCreatorMock{err: &backend.StatusError{Status: 500, Body: "boom"}}
	handler := NewProductHandler(source, creator, 5*time.Second)

	req := backend.NewProduct{Name: "Mug", Description: "A mug", Price: 9.99, Stock: 10}
	reqBytes, _ := json.Marshal(req)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/", bytes.NewReader(reqBytes))

	handler.Create(recorder, request)

	if recorder.Code != http.StatusBadGateway {
		t.Errorf("Expected status code %d, got %d", http.StatusBadGateway, recorder.Code)
	}
	if source.invalidated {
		t.Error("Expected cache untouched after failed create")
	}
}
