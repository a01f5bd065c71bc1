package transport

import (
	"net/http"

	"catalog-api/internal/dto"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes. writeGuard wraps the mutating ones.
func (h *ProductHandler) RegisterRoutes(r chi.Router, writeGuard func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.GetAll)
		r.Get("/with-category", h.ListWithCategory)
		r.Get("/{id}", h.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(writeGuard)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ProductCreateRequest
	if !decodeRequest(w, r, &req) {
		h.logger.Debug("Product create payload rejected")
		return
	}

	writeResult(w, r, h.productService.Create(r.Context(), req))
}

func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	writeResult(w, r, h.productService.GetAll(r.Context()))
}

func (h *ProductHandler) ListWithCategory(w http.ResponseWriter, r *http.Request) {
	writeResult(w, r, h.productService.ListWithCategory(r.Context()))
}

func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	writeResult(w, r, h.productService.GetByID(r.Context(), id))
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req dto.ProductUpdateRequest
	if !decodeRequest(w, r, &req) {
		h.logger.Debug("Product update payload rejected", zap.String("product_id", id.String()))
		return
	}

	writeResult(w, r, h.productService.Update(r.Context(), id, req))
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req dto.ProductDeleteRequest
	if !decodeRequest(w, r, &req) {
		h.logger.Debug("Product delete payload rejected", zap.String("product_id", id.String()))
		return
	}

	writeResult(w, r, h.productService.Delete(r.Context(), id, req))
}
