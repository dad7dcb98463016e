package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/LEMNXCIX/neutra-order-api/internal/service"
	"github.com/LEMNXCIX/neutra-order-api/internal/store"
	"github.com/go-chi/chi/v5"
)

// ProductHandler handles catalog read requests
type ProductHandler struct {
	service *service.ProductService
	log     *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.ProductService, log *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		log:     log,
	}
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.log.Error("failed to list products", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, products, h.log)
}

// GetProduct handles GET /api/products/{productId}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.log)
		return
	}

	product, err := h.service.GetProduct(r.Context(), productID)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			WriteError(w, http.StatusNotFound, "Product not found", h.log)
			return
		}

		h.log.Error("failed to get product", "product_id", productID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, product, h.log)
}
