package transport

import (
	"net/http"

	"catalog-api/internal/dto"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoryHandler handles HTTP requests for category operations
type CategoryHandler struct {
	categoryService service.CategoryService
	logger          *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// RegisterRoutes registers all category routes. writeGuard wraps the mutating ones.
func (h *CategoryHandler) RegisterRoutes(r chi.Router, writeGuard func(http.Handler) http.Handler) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.GetAll)
		r.Get("/reports/product-count", h.ProductCountReport)
		r.Get("/{id}", h.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(writeGuard)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// Create handles POST /api/categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CategoryCreateRequest
	if !decodeRequest(w, r, &req) {
		h.logger.Debug("Category create payload rejected")
		return
	}

	writeResult(w, r, h.categoryService.Create(r.Context(), req))
}

// GetAll handles GET /api/categories
func (h *CategoryHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	writeResult(w, r, h.categoryService.GetAll(r.Context()))
}

// GetByID handles GET /api/categories/{id}
func (h *CategoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}

	writeResult(w, r, h.categoryService.GetByID(r.Context(), id))
}

// Update handles PUT /api/categories/{id}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}

	var req dto.CategoryUpdateRequest
	if !decodeRequest(w, r, &req) {
		h.logger.Debug("Category update payload rejected", zap.Int("category_id", id))
		return
	}

	writeResult(w, r, h.categoryService.Update(r.Context(), id, req))
}

// Delete handles DELETE /api/categories/{id}. The body carries the id and row version.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}

	var req dto.CategoryDeleteRequest
	if !decodeRequest(w, r, &req) {
		h.logger.Debug("Category delete payload rejected", zap.Int("category_id", id))
		return
	}

	writeResult(w, r, h.categoryService.Delete(r.Context(), id, req))
}

// ProductCountReport handles GET /api/categories/reports/product-count
func (h *CategoryHandler) ProductCountReport(w http.ResponseWriter, r *http.Request) {
	writeResult(w, r, h.categoryService.ProductCountReport(r.Context()))
}
