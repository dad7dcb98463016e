package service

import (
	"context"

	"github.com/LEMNXCIX/neutra-order-api/internal/models"
	"github.com/LEMNXCIX/neutra-order-api/internal/store"
)

// ProductService handles business logic for the catalog read side
type ProductService struct {
	store store.ProductStore
}

// NewProductService creates a new product service
func NewProductService(s store.ProductStore) *ProductService {
	return &ProductService{
		store: s,
	}
}

// ListProducts returns all available products
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.GetAll(ctx)
}

// GetProduct returns a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.store.GetByID(ctx, id)
}
