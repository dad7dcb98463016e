package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LEMNXCIX/neutra-order-api/internal/models"
	"github.com/LEMNXCIX/neutra-order-api/internal/service"
	"github.com/LEMNXCIX/neutra-order-api/internal/store"
	"github.com/go-chi/chi/v5"
)

func newProductRouter(t *testing.T) http.Handler {
	t.Helper()

	productStore := store.NewInMemoryProductStore(nil)
	err := productStore.ReplaceAll(context.Background(), []models.Product{
		{ID: "P1", Title: "Linen Tote Bag", Price: 24.50, Stock: 40},
		{ID: "P2", Title: "Ceramic Mug", Price: 18.00, Stock: 60},
	})
	if err != nil {
		t.Fatalf("failed to seed products: %v", err)
	}

	handler := NewProductHandler(service.NewProductService(productStore), testLogger())

	r := chi.NewRouter()
	r.Get("/api/products", handler.ListProducts)
	r.Get("/api/products/{productId}", handler.GetProduct)
	return r
}

func TestProductHandler_ListProducts(t *testing.T) {
	router := newProductRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var products []models.Product
	if err := json.NewDecoder(w.Body).Decode(&products); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(products) != 2 {
		t.Errorf("products count = %d, want 2", len(products))
	}
}

func TestProductHandler_GetProduct(t *testing.T) {
	router := newProductRouter(t)

	tests := []struct {
		name           string
		productID      string
		expectedStatus int
	}{
		{name: "existing product", productID: "P1", expectedStatus: http.StatusOK},
		{name: "unknown product", productID: "missing", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/products/"+tt.productID, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.expectedStatus)
			}

			if tt.expectedStatus == http.StatusOK {
				var product models.Product
				if err := json.NewDecoder(w.Body).Decode(&product); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if product.ID != tt.productID {
					t.Errorf("product id = %s, want %s", product.ID, tt.productID)
				}
			}
		})
	}
}
